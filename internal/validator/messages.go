package validator

import (
	"fmt"
	"time"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

// Member-facing messages. Callers relay them verbatim.
const (
	MsgUserNotFound          = "Usuario no encontrado"
	MsgUserInactive          = "El usuario no está activo"
	MsgYouthCannotHold       = "Los visitantes juveniles no pueden ser titulares de una reserva; la reserva debe hacerla un socio responsable"
	MsgAccommodationTaken    = "El alojamiento ya está reservado del %s al %s"
	MsgMemberWeekendLimit    = "Los socios solo pueden tener %d reserva(s) futura(s) de fin de semana"
	MsgDirectorMonthlyLimit  = "Los directivos pueden tener como máximo %d reservas por mes"
	MsgDirectorTypeLimit     = "Los directivos pueden tener como máximo %d reserva(s) por mes en cada tipo de alojamiento (%s)"
	MsgDayNotAllowed         = "No se permite ingresar los %s para este tipo de socio"
	MsgWeekendNoticeRequired = "Para ingresar los %s se requiere reservar con al menos %d días de anticipación"
	MsgWeekendNoticeGranted  = "Reserva de %s autorizada por anticipación de %d días; queda sujeta a verificación de administración"
	MsgDirectorMaxDays       = "Las reservas de directivos no pueden exceder %d días"
	MsgDirectorLocationCap   = "Ya hay %d reservas de directivos en alojamientos tipo %s para esas fechas"
	MsgSelfConflict          = "Ya tiene una reserva del %s al %s que se cruza con estas fechas"

	MsgModifyClosed          = "No se puede modificar una reserva %s"
	MsgModifyNotice          = "Las modificaciones requieren al menos %d horas de anticipación"
	MsgEmergencyNeedsProof   = "Una modificación de emergencia debe presentar comprobante"
	MsgEmergencyNeedsManager = "Modificación de emergencia: requiere aprobación del Gerente General"

	MsgCancelCompleted       = "No se puede cancelar una reserva completada"
	MsgCancelAlreadyCanceled = "La reserva ya está cancelada"
	MsgDirectorShortNotice   = "Cancelación con menos de %d horas de anticipación"

	MsgKeyReservationClosed = "No se puede entregar la llave de una reserva %s"
	MsgKeyNeedsLetter       = "La llave solo se entrega al titular; para otra persona se requiere carta de autorización"

	MsgNotTransferable = "Las reservas son intransferibles"

	MsgDirectorExempt = "Directivos exentos de pago en fechas no feriadas"
)

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingos",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábados",
}

var statusNames = map[ReservationStatus]string{
	StatusPending:   "pendiente",
	StatusConfirmed: "confirmada",
	StatusCancelled: "cancelada",
	StatusCompleted: "completada",
}

var accommodationNames = map[rules.AccommodationType]string{
	rules.AccommodationCabin:     "cabaña",
	rules.AccommodationApartment: "apartamento",
	rules.AccommodationHouse:     "casa",
}

func accommodationName(a rules.AccommodationType) string {
	if n, ok := accommodationNames[a]; ok {
		return n
	}
	return string(a)
}

func fmtDate(t time.Time) string { return pricing.DateOf(t).Format(pricing.DateLayout) }

func msgf(format string, args ...any) string { return fmt.Sprintf(format, args...) }
