package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/service"
	"club-lodging/backend/pkg/response"
)

// AccommodationHandler serves the property catalogue and its administration.
type AccommodationHandler struct {
	accommodationSvc service.AccommodationService
}

func NewAccommodationHandler(accommodationSvc service.AccommodationService) *AccommodationHandler {
	return &AccommodationHandler{accommodationSvc: accommodationSvc}
}

// List GET /api/v1/accommodations?type=cabin
// The public catalogue never shows deactivated properties.
func (h *AccommodationHandler) List(c *gin.Context) {
	var req dto.AccommodationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	req.IncludeInactive = false
	h.list(c, &req)
}

// ListAll GET /api/v1/admin/accommodations?include_inactive=true (admin)
func (h *AccommodationHandler) ListAll(c *gin.Context) {
	var req dto.AccommodationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}
	h.list(c, &req)
}

func (h *AccommodationHandler) list(c *gin.Context, req *dto.AccommodationListRequest) {
	list, err := h.accommodationSvc.List(c.Request.Context(), req)
	if err != nil {
		handleAccommodationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get GET /api/v1/accommodations/:id
// Deactivated properties answer 404 here.
func (h *AccommodationHandler) Get(c *gin.Context) {
	acc, err := h.accommodationSvc.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleAccommodationError(c, err)
		return
	}
	response.OK(c, acc)
}

// GetAny GET /api/v1/admin/accommodations/:id (admin)
func (h *AccommodationHandler) GetAny(c *gin.Context) {
	acc, err := h.accommodationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleAccommodationError(c, err)
		return
	}
	response.OK(c, acc)
}

// Create POST /api/v1/admin/accommodations (admin)
func (h *AccommodationHandler) Create(c *gin.Context) {
	var req dto.CreateAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	acc, err := h.accommodationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleAccommodationError(c, err)
		return
	}
	response.Created(c, acc)
}

// Update PATCH /api/v1/admin/accommodations/:id (admin)
func (h *AccommodationHandler) Update(c *gin.Context) {
	var req dto.UpdateAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	acc, err := h.accommodationSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleAccommodationError(c, err)
		return
	}
	response.OK(c, acc)
}

// Deactivate DELETE /api/v1/admin/accommodations/:id (admin)
func (h *AccommodationHandler) Deactivate(c *gin.Context) {
	if err := h.accommodationSvc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		handleAccommodationError(c, err)
		return
	}
	response.OK(c, nil)
}

func handleAccommodationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRate):
		response.BadRequest(c, 12005, "Las tarifas no pueden ser negativas")
	default:
		handleStayError(c, err)
	}
}
