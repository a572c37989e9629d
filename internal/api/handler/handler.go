package handler

import "club-lodging/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth          *AuthHandler
	Member        *MemberHandler
	Accommodation *AccommodationHandler
	Pricing       *PricingHandler
	Reservation   *ReservationHandler
	Holiday       *HolidayHandler
	Rule          *RuleHandler
	Export        *ExportHandler
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Member:        NewMemberHandler(svc.Member),
		Accommodation: NewAccommodationHandler(svc.Accommodation),
		Pricing:       NewPricingHandler(svc.Pricing),
		Reservation:   NewReservationHandler(svc.Reservation),
		Holiday:       NewHolidayHandler(svc.Holiday),
		Rule:          NewRuleHandler(svc.Rule),
		Export:        NewExportHandler(svc.Export),
	}
}
