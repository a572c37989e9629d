package model

import "github.com/shopspring/decimal"

// Accommodation is a bookable cabin, apartment or house (table accommodations)
type Accommodation struct {
	AccommodationID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"accommodation_id"`
	Name            string          `gorm:"type:varchar(120);not null"                     json:"name"`
	Type            string          `gorm:"type:varchar(16);not null"                      json:"type"` // cabin | apartment | house
	RateLow         decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"rate_low"`
	RateHigh        decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"rate_high"`
	RateHoliday     decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"rate_holiday"`
	IsActive        bool            `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

func (Accommodation) TableName() string { return "accommodations" }
