package model

import "time"

// KeyHandover records who received the key of a reservation (table key_handovers)
type KeyHandover struct {
	HandoverID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"handover_id"`
	ReservationID          string    `gorm:"type:uuid;not null"                             json:"reservation_id"`
	RecipientID            string    `gorm:"type:uuid;not null"                             json:"recipient_id"`
	HasAuthorizationLetter bool      `gorm:"not null;default:false"                         json:"has_authorization_letter"`
	HandedOverAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"handed_over_at"`
}

func (KeyHandover) TableName() string { return "key_handovers" }
