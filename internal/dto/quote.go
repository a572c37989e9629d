package dto

import "club-lodging/backend/internal/pricing"

// ── quotes ──

// QuoteRequest asks for the price of a stay. Dates are YYYY-MM-DD.
type QuoteRequest struct {
	AccommodationID string `json:"accommodation_id" binding:"required,uuid"`
	CheckIn         string `json:"check_in"         binding:"required"`
	CheckOut        string `json:"check_out"        binding:"required"`
}

type QuoteResponse struct {
	AccommodationID   string                   `json:"accommodation_id"`
	AccommodationName string                   `json:"accommodation_name"`
	AccommodationType string                   `json:"accommodation_type"`
	Price             *pricing.StayPriceResult `json:"price"`
}

// SeasonResponse answers GET /seasons/:date.
type SeasonResponse struct {
	Date        string             `json:"date"`
	SeasonType  pricing.SeasonType `json:"season_type"`
	HolidayName string             `json:"holiday_name,omitempty"`
}

// ValidateDatesRequest checks a stay's dates without pricing it.
type ValidateDatesRequest struct {
	CheckIn  string `json:"check_in"  binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}
