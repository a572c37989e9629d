package dto

import "github.com/shopspring/decimal"

// ── accommodations ──

// CreateAccommodationRequest registers a property with its nightly rates.
// Rates are validated by the service: decimals carry no binding tags.
type CreateAccommodationRequest struct {
	Name        string          `json:"name"         binding:"required,min=2,max=120"`
	Type        string          `json:"type"         binding:"required,oneof=cabin apartment house"`
	RateLow     decimal.Decimal `json:"rate_low"`
	RateHigh    decimal.Decimal `json:"rate_high"`
	RateHoliday decimal.Decimal `json:"rate_holiday"`
}

// UpdateAccommodationRequest changes only the fields that are present.
type UpdateAccommodationRequest struct {
	Name        *string          `json:"name"         binding:"omitempty,min=2,max=120"`
	RateLow     *decimal.Decimal `json:"rate_low"`
	RateHigh    *decimal.Decimal `json:"rate_high"`
	RateHoliday *decimal.Decimal `json:"rate_holiday"`
	IsActive    *bool            `json:"is_active"`
}

type AccommodationListRequest struct {
	Type            string `form:"type"             binding:"omitempty,oneof=cabin apartment house"`
	IncludeInactive bool   `form:"include_inactive"`
}

type AccommodationResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	RateLow     decimal.Decimal `json:"rate_low"`
	RateHigh    decimal.Decimal `json:"rate_high"`
	RateHoliday decimal.Decimal `json:"rate_holiday"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
