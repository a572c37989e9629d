// Package validator applies the club's reservation rules to a snapshot of
// users and reservations.
//
// Business-rule violations are accumulated into a ValidationResult so that
// every problem is reported at once. Go errors are reserved for calls that
// are wrong in themselves: a missing snapshot, a zero date or an unknown
// member type.
package validator

import (
	"errors"
	"time"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

var (
	ErrMissingSnapshot     = errors.New("validator: snapshot is required")
	ErrReservationNotFound = errors.New("validator: reservation not in snapshot")
	ErrUserNotFound        = errors.New("validator: user not in snapshot")
	ErrMemberTypeMismatch  = errors.New("validator: request member type does not match user")
)

// Validator is safe for concurrent use; it holds no mutable state.
type Validator struct {
	rules      rules.Table
	classifier *pricing.Classifier
	loc        *time.Location
	now        func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLocation sets the club's local time zone used for "today" and notice hours.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// WithRules replaces the default rule table.
func WithRules(t rules.Table) Option {
	return func(v *Validator) { v.rules = t }
}

// New builds a Validator. The registry is only consulted by CalculatePaymentInfo.
func New(registry pricing.HolidayRegistry, opts ...Option) *Validator {
	v := &Validator{
		rules:      rules.Default(),
		classifier: pricing.NewClassifier(registry),
		loc:        time.UTC,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Location returns the club's time zone.
func (v *Validator) Location() *time.Location { return v.loc }

// Now returns the validator's current time in the club's time zone.
func (v *Validator) Now() time.Time { return v.now().In(v.loc) }

func (v *Validator) today() time.Time { return pricing.Today(v.now(), v.loc) }

// hoursUntilCheckIn measures from now to the check-in clock time of date
// in the club's time zone.
func (v *Validator) hoursUntilCheckIn(date time.Time, rule *rules.BusinessRule) float64 {
	h, m := rule.CheckInClock()
	d := pricing.DateOf(date)
	at := time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, v.loc)
	return at.Sub(v.now()).Hours()
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
