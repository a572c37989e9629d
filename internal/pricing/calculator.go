package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the sales tax applied to lodging (13%).
var DefaultTaxRate = decimal.RequireFromString("0.13")

// RateTable holds the nightly price of one accommodation per season.
type RateTable struct {
	Low     decimal.Decimal `json:"low"`
	High    decimal.Decimal `json:"high"`
	Holiday decimal.Decimal `json:"holiday"`
}

// For returns the nightly rate for season s.
func (r RateTable) For(s SeasonType) decimal.Decimal {
	switch s {
	case SeasonHigh:
		return r.High
	case SeasonHoliday:
		return r.Holiday
	default:
		return r.Low
	}
}

func (r RateTable) validate() error {
	if r.Low.IsNegative() || r.High.IsNegative() || r.Holiday.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

// NightCounts counts nights per season.
type NightCounts struct {
	Low     int `json:"low"`
	High    int `json:"high"`
	Holiday int `json:"holiday"`
}

// Total is the sum over all seasons.
func (n NightCounts) Total() int { return n.Low + n.High + n.Holiday }

// Subtotals accumulates money per season.
type Subtotals struct {
	Low     decimal.Decimal `json:"low"`
	High    decimal.Decimal `json:"high"`
	Holiday decimal.Decimal `json:"holiday"`
}

// Total is the sum over all seasons.
func (s Subtotals) Total() decimal.Decimal { return s.Low.Add(s.High).Add(s.Holiday) }

// NightPrice is one line of the per-night breakdown.
type NightPrice struct {
	Date        time.Time       `json:"date"`
	SeasonType  SeasonType      `json:"season_type"`
	Price       decimal.Decimal `json:"price"`
	IsHoliday   bool            `json:"is_holiday"`
	HolidayName string          `json:"holiday_name,omitempty"`
}

// StayPriceResult is the priced stay. It is never mutated after being built;
// a change of dates or rates produces a new result.
type StayPriceResult struct {
	CheckIn        time.Time       `json:"check_in"`
	CheckOut       time.Time       `json:"check_out"`
	TotalNights    int             `json:"total_nights"`
	NightsByType   NightCounts     `json:"nights_by_type"`
	SubtotalByType Subtotals       `json:"subtotal_by_type"`
	TotalBeforeTax decimal.Decimal `json:"total_before_tax"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Tax            decimal.Decimal `json:"tax"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Breakdown      []NightPrice    `json:"breakdown"`
}

// Calculator prices stays against a HolidayRegistry.
type Calculator struct {
	registry HolidayRegistry
}

// NewCalculator creates a Calculator. A nil registry prices by weekday only.
func NewCalculator(registry HolidayRegistry) *Calculator {
	return &Calculator{registry: registry}
}

// CalculateStayPrice prices every night of [checkIn, checkOut). The holidays
// of the range are fetched with a single range lookup.
func (c *Calculator) CalculateStayPrice(ctx context.Context, checkIn, checkOut time.Time, rates RateTable, taxRate decimal.Decimal) (*StayPriceResult, error) {
	checkIn, checkOut = DateOf(checkIn), DateOf(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}

	var holidays []Holiday
	if c != nil && c.registry != nil {
		var err error
		holidays, err = c.registry.FindByDateRange(ctx, checkIn, checkOut)
		if err != nil {
			return nil, fmt.Errorf("load holidays %s..%s: %w",
				checkIn.Format(DateLayout), checkOut.Format(DateLayout), err)
		}
	}

	return PriceStay(checkIn, checkOut, rates, taxRate, holidays)
}

// PriceStay is the pure pricing function behind CalculateStayPrice.
func PriceStay(checkIn, checkOut time.Time, rates RateTable, taxRate decimal.Decimal, holidays []Holiday) (*StayPriceResult, error) {
	checkIn, checkOut = DateOf(checkIn), DateOf(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if err := rates.validate(); err != nil {
		return nil, err
	}
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, ErrInvalidTaxRate
	}

	active := indexActive(holidays)
	result := &StayPriceResult{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		TaxRate:  taxRate,
		SubtotalByType: Subtotals{
			Low:     decimal.Zero,
			High:    decimal.Zero,
			Holiday: decimal.Zero,
		},
		Breakdown: make([]NightPrice, 0, NightsBetween(checkIn, checkOut)),
	}

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		var holiday *Holiday
		if h, ok := active[d.Format(DateLayout)]; ok {
			holiday = &h
		}
		season := ClassifyWith(d, holiday)
		price := rates.For(season)

		switch season {
		case SeasonHigh:
			result.NightsByType.High++
			result.SubtotalByType.High = result.SubtotalByType.High.Add(price)
		case SeasonHoliday:
			result.NightsByType.Holiday++
			result.SubtotalByType.Holiday = result.SubtotalByType.Holiday.Add(price)
		default:
			result.NightsByType.Low++
			result.SubtotalByType.Low = result.SubtotalByType.Low.Add(price)
		}

		line := NightPrice{Date: d, SeasonType: season, Price: price}
		if holiday != nil {
			line.IsHoliday = true
			line.HolidayName = holiday.Name
		}
		result.Breakdown = append(result.Breakdown, line)
	}

	result.TotalNights = result.NightsByType.Total()
	result.TotalBeforeTax = result.SubtotalByType.Total()
	result.Tax = result.TotalBeforeTax.Mul(taxRate).Round(2)
	result.TotalPrice = result.TotalBeforeTax.Add(result.Tax)
	return result, nil
}
