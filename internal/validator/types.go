package validator

import (
	"time"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

// ReservationStatus is the lifecycle state of a stored reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Active reports whether the reservation still holds its nights. Only
// pending and confirmed reservations count for availability and limits.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// User is the part of a member record the validator needs.
type User struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	MemberType rules.MemberType `json:"member_type"`
	IsActive   bool             `json:"is_active"`
}

// ReservationRequest is a proposed new reservation.
type ReservationRequest struct {
	UserID            string                  `json:"user_id"`
	UserType          rules.MemberType        `json:"user_type"`
	AccommodationID   string                  `json:"accommodation_id"`
	AccommodationType rules.AccommodationType `json:"accommodation_type"`
	CheckIn           time.Time               `json:"check_in"`
	CheckOut          time.Time               `json:"check_out"`
}

// ReservationSnapshot is an existing reservation, read-only to the validator.
type ReservationSnapshot struct {
	ID                string                  `json:"id"`
	UserID            string                  `json:"user_id"`
	UserType          rules.MemberType        `json:"user_type"`
	AccommodationID   string                  `json:"accommodation_id"`
	AccommodationType rules.AccommodationType `json:"accommodation_type"`
	CheckIn           time.Time               `json:"check_in"`
	CheckOut          time.Time               `json:"check_out"`
	Status            ReservationStatus       `json:"status"`
}

// Overlaps reports whether the reservation's nights intersect [checkIn, checkOut).
func (r ReservationSnapshot) Overlaps(checkIn, checkOut time.Time) bool {
	return pricing.Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut)
}

// Snapshot is the consistent view of users and reservations one validation
// runs against. The caller that built it is responsible for committing any
// resulting write under the same lock or transaction.
type Snapshot struct {
	users        map[string]User
	reservations []ReservationSnapshot
}

// NewSnapshot indexes users by id and keeps reservations in the given order.
func NewSnapshot(users []User, reservations []ReservationSnapshot) *Snapshot {
	s := &Snapshot{
		users:        make(map[string]User, len(users)),
		reservations: make([]ReservationSnapshot, len(reservations)),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	copy(s.reservations, reservations)
	return s
}

// User looks a user up by id.
func (s *Snapshot) User(id string) (User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// Reservation looks a reservation up by id.
func (s *Snapshot) Reservation(id string) (ReservationSnapshot, bool) {
	for _, r := range s.reservations {
		if r.ID == id {
			return r, true
		}
	}
	return ReservationSnapshot{}, false
}

// active returns the pending/confirmed reservations, skipping excludeID.
func (s *Snapshot) active(excludeID string) []ReservationSnapshot {
	result := make([]ReservationSnapshot, 0, len(s.reservations))
	for _, r := range s.reservations {
		if !r.Status.Active() || (excludeID != "" && r.ID == excludeID) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// ValidationResult accumulates rule violations (Errors) and advisories
// (Warnings). Valid is true exactly when Errors is empty.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func (r *ValidationResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *ValidationResult) merge(other *ValidationResult) {
	for _, e := range other.Errors {
		r.addError(e)
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// invalid is a result carrying a single fatal violation.
func invalid(msg string) *ValidationResult {
	r := newResult()
	r.addError(msg)
	return r
}

// NewReservationOptions tune ValidateNewReservation.
type NewReservationOptions struct {
	// ExcludeReservationID skips one reservation of the snapshot, used when
	// re-validating the new dates of an existing reservation.
	ExcludeReservationID string `json:"exclude_reservation_id,omitempty"`
	// ManagerOverride waives the booking-notice checks (check-in from
	// tomorrow, weekend advance notice). Every other rule still applies.
	ManagerOverride bool `json:"manager_override,omitempty"`
}

// ModificationRequest describes a date change of an existing reservation.
// Nil dates keep the current value.
type ModificationRequest struct {
	NewCheckIn     *time.Time `json:"new_check_in,omitempty"`
	NewCheckOut    *time.Time `json:"new_check_out,omitempty"`
	IsEmergency    bool       `json:"is_emergency"`
	EmergencyProof bool       `json:"emergency_proof"`
}

// ModificationOutcome separates an emergency change awaiting the general
// manager from a plain rejection. Valid keeps its strict meaning.
type ModificationOutcome string

const (
	OutcomeApproved               ModificationOutcome = "approved"
	OutcomePendingManagerApproval ModificationOutcome = "pending_manager_approval"
	OutcomeRejected               ModificationOutcome = "rejected"
)

// ModificationResult is the outcome of ValidateReservationModification.
type ModificationResult struct {
	ValidationResult
	Outcome ModificationOutcome `json:"outcome"`
}
