package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/pricing"
)

var (
	ErrExportNoHolidays   = errors.New("no hay feriados registrados para ese año")
	ErrExportGenerateFail = errors.New("no se pudo generar el archivo Excel")
)

// ExportService renders spreadsheets (.xlsx). The buffer is written to the
// response by the handler, which also sets the download headers.
type ExportService interface {
	// ExportQuote renders the per-night breakdown of a quote.
	ExportQuote(ctx context.Context, req *dto.QuoteRequest) (*bytes.Buffer, string, error)
	ExportHolidays(ctx context.Context, year int) (*bytes.Buffer, string, error)
}

type exportService struct {
	pricing PricingService
	holiday HolidayService
	logger  *zap.Logger
}

func NewExportService(pricingSvc PricingService, holidaySvc HolidayService, logger *zap.Logger) ExportService {
	return &exportService{pricing: pricingSvc, holiday: holidaySvc, logger: logger}
}

var seasonNames = map[pricing.SeasonType]string{
	pricing.SeasonLow:     "Baja",
	pricing.SeasonHigh:    "Alta",
	pricing.SeasonHoliday: "Feriado",
}

var dayNames = map[int]string{
	0: "Domingo", 1: "Lunes", 2: "Martes", 3: "Miércoles", 4: "Jueves", 5: "Viernes", 6: "Sábado",
}

// ═══════════════════════════════════════════════════════════
// ExportQuote
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - row 1: title (accommodation and dates), merged
//   - row 2: header | Fecha | Día | Temporada | Feriado | Precio |
//   - one row per night
//   - summary: nights and subtotal per season, tax and total

func (s *exportService) ExportQuote(ctx context.Context, req *dto.QuoteRequest) (*bytes.Buffer, string, error) {
	quote, err := s.pricing.Quote(ctx, req)
	if err != nil {
		return nil, "", err
	}
	price := quote.Price

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cotización"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetColWidth(sheet, "C", "C", 12)
	f.SetColWidth(sheet, "D", "D", 28)
	f.SetColWidth(sheet, "E", "E", 14)

	headerStyle, _ := f.NewStyle(headerStyleDef())

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s: %s al %s", quote.AccommodationName,
		price.CheckIn.Format(pricing.DateLayout), price.CheckOut.Format(pricing.DateLayout)))
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	row := 2
	for i, h := range []string{"Fecha", "Día", "Temporada", "Feriado", "Precio"} {
		f.SetCellValue(sheet, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheet, cell("A", row), cell("E", row), headerStyle)

	row = 3
	for _, night := range price.Breakdown {
		f.SetCellValue(sheet, cell("A", row), night.Date.Format(pricing.DateLayout))
		f.SetCellValue(sheet, cell("B", row), dayNames[int(night.Date.Weekday())])
		f.SetCellValue(sheet, cell("C", row), seasonNames[night.SeasonType])
		f.SetCellValue(sheet, cell("D", row), night.HolidayName)
		f.SetCellValue(sheet, cell("E", row), night.Price.StringFixed(2))
		row++
	}

	row++
	summary := []struct {
		label string
		value string
	}{
		{fmt.Sprintf("Noches baja (%d)", price.NightsByType.Low), price.SubtotalByType.Low.StringFixed(2)},
		{fmt.Sprintf("Noches alta (%d)", price.NightsByType.High), price.SubtotalByType.High.StringFixed(2)},
		{fmt.Sprintf("Noches feriado (%d)", price.NightsByType.Holiday), price.SubtotalByType.Holiday.StringFixed(2)},
		{"Subtotal", price.TotalBeforeTax.StringFixed(2)},
		{fmt.Sprintf("IVA (%s%%)", price.TaxRate.Shift(2).String()), price.Tax.StringFixed(2)},
		{"Total", price.TotalPrice.StringFixed(2)},
	}
	for _, line := range summary {
		f.SetCellValue(sheet, cell("D", row), line.label)
		f.SetCellValue(sheet, cell("E", row), line.value)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write quote workbook", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	filename := fmt.Sprintf("cotizacion_%s_%s.xlsx", price.CheckIn.Format(pricing.DateLayout), price.CheckOut.Format(pricing.DateLayout))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportHolidays
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportHolidays(ctx context.Context, year int) (*bytes.Buffer, string, error) {
	holidays, err := s.holiday.List(ctx, year)
	if err != nil {
		return nil, "", err
	}
	if len(holidays) == 0 {
		return nil, "", ErrExportNoHolidays
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Feriados"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 32)
	f.SetColWidth(sheet, "C", "C", 12)
	f.SetColWidth(sheet, "D", "D", 10)

	headerStyle, _ := f.NewStyle(headerStyleDef())
	for i, h := range []string{"Fecha", "Nombre", "Temporada", "Activo"} {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)

	row := 2
	for _, h := range holidays {
		active := "No"
		if h.IsActive {
			active = "Sí"
		}
		f.SetCellValue(sheet, cell("A", row), h.Date)
		f.SetCellValue(sheet, cell("B", row), h.Name)
		f.SetCellValue(sheet, cell("C", row), seasonNames[pricing.SeasonType(h.SeasonType)])
		f.SetCellValue(sheet, cell("D", row), active)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write holiday workbook", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	filename := fmt.Sprintf("feriados_%s.xlsx", holidays[0].Date[:4])
	return buf, filename, nil
}

// ── helpers ──

func headerStyleDef() *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
