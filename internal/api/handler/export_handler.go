package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/service"
	"club-lodging/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportSvc service.ExportService
}

func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportQuote POST /api/v1/quotes/export
func (h *ExportHandler) ExportQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	buf, filename, err := h.exportSvc.ExportQuote(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, filename, xlsxContentType, buf.Bytes())
}

// ExportHolidays GET /api/v1/holidays/export?year=2025
func (h *ExportHandler) ExportHolidays(c *gin.Context) {
	year := 0
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2000 || n > 2100 {
			response.BadRequest(c, 10001, "Año inválido")
			return
		}
		year = n
	}

	buf, filename, err := h.exportSvc.ExportHolidays(c.Request.Context(), year)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, filename, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoHolidays):
		response.NotFound(c, 16001, "No hay feriados registrados para ese año")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleStayError(c, err)
	}
}
