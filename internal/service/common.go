package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
	"club-lodging/backend/internal/validator"
)

var (
	ErrInvalidDate             = errors.New("fecha inválida, use el formato AAAA-MM-DD")
	ErrAccommodationNotFound   = errors.New("alojamiento no encontrado")
	ErrAccommodationInactive   = errors.New("el alojamiento no está disponible para reservas")
	ErrReservationNotFound     = errors.New("reserva no encontrada")
	ErrReservationForbidden    = errors.New("no tiene permiso sobre esta reserva")
	ErrReservationConflict     = errors.New("las fechas acaban de ser reservadas, intente con otras")
	ErrNoPendingApproval       = errors.New("la reserva no tiene una modificación pendiente de aprobación")
	ErrInvalidStatusTransition = errors.New("cambio de estado no permitido")
)

// ValidationError carries a failed business-rule validation back to the
// handler, which answers 422 with the full result.
type ValidationError struct {
	Result  *validator.ValidationResult   `json:"result"`
	Outcome validator.ModificationOutcome `json:"outcome,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Result.Errors, "; ")
}

// Engine bundles the pricing and rule components every service shares. All
// of them read holidays through the same registry.
type Engine struct {
	Calculator *pricing.Calculator
	Classifier *pricing.Classifier
	Validator  *validator.Validator
	TaxRate    decimal.Decimal
}

func NewEngine(registry pricing.HolidayRegistry, taxRate decimal.Decimal, opts ...validator.Option) *Engine {
	return &Engine{
		Calculator: pricing.NewCalculator(registry),
		Classifier: pricing.NewClassifier(registry),
		Validator:  validator.New(registry, opts...),
		TaxRate:    taxRate,
	}
}

// ── conversions ──

func parseDate(s string) (time.Time, error) {
	d, err := pricing.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

func ratesOf(a *model.Accommodation) pricing.RateTable {
	return pricing.RateTable{Low: a.RateLow, High: a.RateHigh, Holiday: a.RateHoliday}
}

func toValidatorUser(u *model.User) validator.User {
	return validator.User{
		ID:         u.UserID,
		Name:       u.Name,
		MemberType: rules.MemberType(u.MemberType),
		IsActive:   u.IsActive,
	}
}

func toReservationSnapshot(r model.Reservation) validator.ReservationSnapshot {
	return validator.ReservationSnapshot{
		ID:                r.ReservationID,
		UserID:            r.UserID,
		UserType:          rules.MemberType(r.UserType),
		AccommodationID:   r.AccommodationID,
		AccommodationType: rules.AccommodationType(r.AccommodationType),
		CheckIn:           pricing.DateOf(r.CheckIn),
		CheckOut:          pricing.DateOf(r.CheckOut),
		Status:            validator.ReservationStatus(r.Status),
	}
}

func toReservationResponse(r *model.Reservation) dto.ReservationResponse {
	resp := dto.ReservationResponse{
		ID:                     r.ReservationID,
		UserID:                 r.UserID,
		UserType:               r.UserType,
		AccommodationID:        r.AccommodationID,
		AccommodationType:      r.AccommodationType,
		CheckIn:                r.CheckIn.Format(pricing.DateLayout),
		CheckOut:               r.CheckOut.Format(pricing.DateLayout),
		Status:                 r.Status,
		TotalBeforeTax:         r.TotalBeforeTax,
		Tax:                    r.Tax,
		TotalPrice:             r.TotalPrice,
		PaymentRequired:        r.PaymentRequired,
		ManagerApprovalPending: r.ManagerApprovalPending,
		CancelReason:           r.CancelReason,
		Version:                r.Version,
		CreatedAt:              r.CreatedAt.Format(time.RFC3339),
	}
	if r.Accommodation != nil {
		resp.AccommodationName = r.Accommodation.Name
	}
	if r.PaymentDueAt != nil {
		resp.PaymentDueAt = r.PaymentDueAt.Format(time.RFC3339)
	}
	return resp
}

func toHolidayResponse(h *model.Holiday) dto.HolidayResponse {
	return dto.HolidayResponse{
		ID:         h.HolidayID,
		Date:       h.Date.Format(pricing.DateLayout),
		Name:       h.Name,
		SeasonType: h.SeasonType,
		IsActive:   h.IsActive,
	}
}

// applyPrice copies a priced stay onto the reservation.
func applyPrice(r *model.Reservation, price *pricing.StayPriceResult) {
	r.CheckIn = price.CheckIn
	r.CheckOut = price.CheckOut
	r.TotalBeforeTax = price.TotalBeforeTax
	r.Tax = price.Tax
	r.TotalPrice = price.TotalPrice
}

// applyPayment sets the payment fields. A pending reservation that needs no
// payment is confirmed at once; the deadline of a pending reservation runs
// from now.
func applyPayment(r *model.Reservation, pay *validator.PaymentInfo, now time.Time) {
	r.PaymentRequired = pay.PaymentRequired
	if r.Status != string(validator.StatusPending) {
		return
	}
	if !pay.PaymentRequired {
		r.PaymentDueAt = nil
		r.Status = string(validator.StatusConfirmed)
		return
	}
	due := pay.DueAt(now)
	r.PaymentDueAt = &due
}

func isAdmin(role string) bool { return role == model.RoleAdmin }
