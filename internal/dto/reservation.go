package dto

import (
	"github.com/shopspring/decimal"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/validator"
)

// ── reservations ──

// CreateReservationRequest books a stay for the caller. Dates are YYYY-MM-DD.
type CreateReservationRequest struct {
	AccommodationID string `json:"accommodation_id" binding:"required,uuid"`
	CheckIn         string `json:"check_in"         binding:"required"`
	CheckOut        string `json:"check_out"        binding:"required"`
}

// ModifyReservationRequest changes the dates of a reservation. Omitted
// dates keep their current value.
type ModifyReservationRequest struct {
	CheckIn        *string `json:"check_in"`
	CheckOut       *string `json:"check_out"`
	IsEmergency    bool    `json:"is_emergency"`
	EmergencyProof bool    `json:"emergency_proof"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type KeyHandoverRequest struct {
	RecipientID            string `json:"recipient_id"             binding:"required,uuid"`
	HasAuthorizationLetter bool   `json:"has_authorization_letter"`
}

type TransferReservationRequest struct {
	ToUserID string `json:"to_user_id" binding:"required"`
}

type ReservationResponse struct {
	ID                     string          `json:"id"`
	UserID                 string          `json:"user_id"`
	UserType               string          `json:"user_type"`
	AccommodationID        string          `json:"accommodation_id"`
	AccommodationName      string          `json:"accommodation_name,omitempty"`
	AccommodationType      string          `json:"accommodation_type"`
	CheckIn                string          `json:"check_in"`
	CheckOut               string          `json:"check_out"`
	Status                 string          `json:"status"`
	TotalBeforeTax         decimal.Decimal `json:"total_before_tax"`
	Tax                    decimal.Decimal `json:"tax"`
	TotalPrice             decimal.Decimal `json:"total_price"`
	PaymentRequired        bool            `json:"payment_required"`
	PaymentDueAt           string          `json:"payment_due_at,omitempty"`
	ManagerApprovalPending bool            `json:"manager_approval_pending"`
	CancelReason           string          `json:"cancel_reason,omitempty"`
	Version                int             `json:"version"`
	CreatedAt              string          `json:"created_at"`
}

// ReservationResultResponse is returned after a successful write. Warnings
// are advisories the member must see.
type ReservationResultResponse struct {
	Reservation ReservationResponse      `json:"reservation"`
	Price       *pricing.StayPriceResult `json:"price,omitempty"`
	Payment     *validator.PaymentInfo   `json:"payment,omitempty"`
	Warnings    []string                 `json:"warnings"`
}

// ModificationResponse carries the outcome of a date change. Reservation is
// only set when the change was applied or parked for manager approval.
type ModificationResponse struct {
	Result      *validator.ModificationResult `json:"result"`
	Reservation *ReservationResponse          `json:"reservation,omitempty"`
}
