package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/service"
	"club-lodging/backend/pkg/response"
)

// PricingHandler serves quotes and season lookups.
type PricingHandler struct {
	pricingSvc service.PricingService
}

func NewPricingHandler(pricingSvc service.PricingService) *PricingHandler {
	return &PricingHandler{pricingSvc: pricingSvc}
}

// Quote POST /api/v1/quotes
func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	quote, err := h.pricingSvc.Quote(c.Request.Context(), &req)
	if err != nil {
		handleStayError(c, err)
		return
	}
	response.OK(c, quote)
}

// Season GET /api/v1/seasons/:date
func (h *PricingHandler) Season(c *gin.Context) {
	season, err := h.pricingSvc.Season(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleStayError(c, err)
		return
	}
	response.OK(c, season)
}

// ValidateDates POST /api/v1/dates/validate
func (h *PricingHandler) ValidateDates(c *gin.Context) {
	var req dto.ValidateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	check, err := h.pricingSvc.ValidateDates(req.CheckIn, req.CheckOut)
	if err != nil {
		handleStayError(c, err)
		return
	}
	response.OK(c, check)
}

// handleStayError maps the errors shared by every endpoint that reads a
// stay: malformed dates and unknown accommodations.
func handleStayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12001, "Fecha inválida, use el formato AAAA-MM-DD")
	case errors.Is(err, pricing.ErrInvalidDateRange):
		response.BadRequest(c, 12004, "La fecha de salida debe ser posterior a la de entrada")
	case errors.Is(err, service.ErrAccommodationNotFound):
		response.NotFound(c, 12002, "Alojamiento no encontrado")
	case errors.Is(err, service.ErrAccommodationInactive):
		response.Conflict(c, 12003, "El alojamiento no está disponible para reservas")
	default:
		response.InternalError(c)
	}
}
