package model

import "time"

// Holiday is one holiday registry row (table holidays)
type Holiday struct {
	HolidayID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"date"`
	Name       string    `gorm:"type:varchar(120);not null"                     json:"name"`
	SeasonType string    `gorm:"type:varchar(16);not null;default:'holiday'"    json:"season_type"` // low | high | holiday
	IsActive   bool      `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

func (Holiday) TableName() string { return "holidays" }
