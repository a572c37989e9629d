package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is a booked stay (table reservations)
type Reservation struct {
	ReservationID          string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	UserID                 string          `gorm:"type:uuid;not null"                             json:"user_id"`
	UserType               string          `gorm:"type:varchar(32);not null"                      json:"user_type"`
	AccommodationID        string          `gorm:"type:uuid;not null"                             json:"accommodation_id"`
	AccommodationType      string          `gorm:"type:varchar(16);not null"                      json:"accommodation_type"`
	CheckIn                time.Time       `gorm:"type:date;not null"                             json:"check_in"`
	CheckOut               time.Time       `gorm:"type:date;not null"                             json:"check_out"`
	Status                 string          `gorm:"type:varchar(16);not null;default:'pending'"    json:"status"` // pending | confirmed | cancelled | completed
	TotalBeforeTax         decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"total_before_tax"`
	Tax                    decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"tax"`
	TotalPrice             decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"total_price"`
	PaymentRequired        bool            `gorm:"not null;default:true"                          json:"payment_required"`
	PaymentDueAt           *time.Time      `json:"payment_due_at,omitempty"`
	ManagerApprovalPending bool            `gorm:"not null;default:false"                         json:"manager_approval_pending"`
	RequestedCheckIn       *time.Time      `gorm:"type:date"                                      json:"requested_check_in,omitempty"`
	RequestedCheckOut      *time.Time      `gorm:"type:date"                                      json:"requested_check_out,omitempty"`
	CancelReason           string          `gorm:"type:varchar(500);not null;default:''"          json:"cancel_reason,omitempty"`
	Version                int             `gorm:"not null;default:1"                             json:"version"`
	BaseModel

	Accommodation *Accommodation `gorm:"foreignKey:AccommodationID;references:AccommodationID" json:"accommodation,omitempty"`
}

func (Reservation) TableName() string { return "reservations" }
