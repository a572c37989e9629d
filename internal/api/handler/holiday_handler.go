package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/service"
	"club-lodging/backend/pkg/response"
)

// HolidayHandler administers the holiday registry.
type HolidayHandler struct {
	holidaySvc service.HolidayService
}

func NewHolidayHandler(holidaySvc service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidaySvc: holidaySvc}
}

// List GET /api/v1/holidays?year=2025
func (h *HolidayHandler) List(c *gin.Context) {
	var req dto.ListHolidaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	list, err := h.holidaySvc.List(c.Request.Context(), req.Year)
	if err != nil {
		handleHolidayError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Upsert PUT /api/v1/holidays (admin)
func (h *HolidayHandler) Upsert(c *gin.Context) {
	var req dto.UpsertHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	holiday, err := h.holidaySvc.Upsert(c.Request.Context(), &req)
	if err != nil {
		handleHolidayError(c, err)
		return
	}
	response.OK(c, holiday)
}

// Deactivate DELETE /api/v1/holidays/:date (admin)
func (h *HolidayHandler) Deactivate(c *gin.Context) {
	if err := h.holidaySvc.Deactivate(c.Request.Context(), c.Param("date")); err != nil {
		handleHolidayError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS POST /api/v1/holidays/import (admin)
// Accepts a multipart "file" upload or a JSON/form body with a feed url.
func (h *HolidayHandler) ImportICS(c *gin.Context) {
	seasonType := c.PostForm("season_type")

	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		resp, err := h.holidaySvc.ImportICS(c.Request.Context(), file, seasonType)
		if err != nil {
			handleHolidayError(c, err)
			return
		}
		response.Created(c, resp)
		return
	}

	var req dto.ImportHolidaysRequest
	if err := c.ShouldBind(&req); err != nil || req.URL == "" {
		response.BadRequest(c, 14000, "Suba un archivo ICS o indique la URL del calendario")
		return
	}

	resp, err := h.holidaySvc.ImportICSFromURL(c.Request.Context(), req.URL, req.SeasonType)
	if err != nil {
		handleHolidayError(c, err)
		return
	}
	response.Created(c, resp)
}

func handleHolidayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHolidayNotFound):
		response.NotFound(c, 14001, "Feriado no encontrado")
	case errors.Is(err, service.ErrInvalidSeasonType):
		response.BadRequest(c, 14002, "Tipo de temporada inválido")
	case errors.Is(err, service.ErrInvalidCalendar):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14003, "El calendario ICS no es válido", err.Error())
	case errors.Is(err, service.ErrCalendarFetch):
		response.BadRequest(c, 14004, "No se pudo descargar el calendario ICS")
	case errors.Is(err, service.ErrEmptyCalendarInput):
		response.BadRequest(c, 14005, "El calendario ICS no contiene feriados")
	case errors.Is(err, service.ErrInvalidDate):
		handleStayError(c, err)
	default:
		response.InternalError(c)
	}
}
