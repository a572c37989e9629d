package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
	"club-lodging/backend/internal/service"
	"club-lodging/backend/internal/validator"
	pkgerrors "club-lodging/backend/pkg/errors"
	"club-lodging/backend/pkg/response"
)

// ReservationHandler serves the reservation lifecycle.
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// caller extracts the authenticated user id and role.
func caller(c *gin.Context) (string, string, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return "", "", false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return "", "", false
	}
	return userID, role, true
}

// Validate POST /api/v1/reservations/validate
// Always 200: the result says whether the reservation would be accepted.
func (h *ReservationHandler) Validate(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Validate(c.Request.Context(), &req, userID)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, result)
}

// Create POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine GET /api/v1/reservations/me
func (h *ReservationHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.reservationSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	res, err := h.reservationSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, res)
}

// Modify PUT /api/v1/reservations/:id/dates
// An emergency change on short notice is answered 202 with outcome
// pending_manager_approval.
func (h *ReservationHandler) Modify(c *gin.Context) {
	var req dto.ModifyReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	if req.CheckIn == nil && req.CheckOut == nil {
		response.BadRequest(c, 10001, "Indique al menos una fecha nueva")
		return
	}
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Modify(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	if result.Result != nil && result.Result.Outcome == validator.OutcomePendingManagerApproval {
		response.Accepted(c, result)
		return
	}
	response.OK(c, result)
}

// ApproveModification POST /api/v1/reservations/:id/approve-modification (admin)
func (h *ReservationHandler) ApproveModification(c *gin.Context) {
	result, err := h.reservationSvc.ApproveModification(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, result)
}

// Cancel POST /api/v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	var req dto.CancelReservationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "Parámetros inválidos")
			return
		}
	}
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Cancel(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, result)
}

// Confirm POST /api/v1/reservations/:id/confirm (admin): payment received.
func (h *ReservationHandler) Confirm(c *gin.Context) {
	res, err := h.reservationSvc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, res)
}

// Complete POST /api/v1/reservations/:id/complete (admin)
func (h *ReservationHandler) Complete(c *gin.Context) {
	res, err := h.reservationSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, res)
}

// HandOverKey POST /api/v1/reservations/:id/key-handover (admin)
func (h *ReservationHandler) HandOverKey(c *gin.Context) {
	var req dto.KeyHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.reservationSvc.HandOverKey(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, result)
}

// Transfer POST /api/v1/reservations/:id/transfer
// Reservations are personal; this endpoint answers 422 or an access error.
func (h *ReservationHandler) Transfer(c *gin.Context) {
	var req dto.TransferReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	err := h.reservationSvc.Transfer(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, nil)
}

// PaymentInfo GET /api/v1/reservations/:id/payment
func (h *ReservationHandler) PaymentInfo(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	info, err := h.reservationSvc.PaymentInfo(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, info)
}

func handleReservationError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.Unprocessable(c, 13004, "La reserva no cumple las reglas del club", verr)
		return
	}

	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 13001, "Reserva no encontrada")
	case errors.Is(err, service.ErrReservationForbidden):
		response.Forbidden(c, 13002, "No tiene permiso sobre esta reserva")
	case errors.Is(err, service.ErrReservationConflict):
		response.Conflict(c, 13003, "Las fechas acaban de ser reservadas, intente con otras")
	case errors.Is(err, service.ErrNoPendingApproval):
		response.Conflict(c, 13005, "La reserva no tiene una modificación pendiente de aprobación")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.Conflict(c, 13006, "Cambio de estado no permitido")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13007, pkgerrors.ErrOptimisticLock.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 13008, "Usuario no encontrado")
	case errors.Is(err, validator.ErrMemberTypeMismatch):
		response.Conflict(c, 13009, "El tipo de socio cambió, vuelva a intentarlo")
	case errors.Is(err, rules.ErrUnknownMemberType):
		response.Conflict(c, 13010, "El tipo de socio registrado no es válido, contacte a administración")
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, pricing.ErrInvalidDateRange),
		errors.Is(err, service.ErrAccommodationNotFound),
		errors.Is(err, service.ErrAccommodationInactive):
		handleStayError(c, err)
	default:
		response.InternalError(c)
	}
}
