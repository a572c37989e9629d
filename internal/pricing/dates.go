package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// MaxStayNights is the club-wide cap on nights per reservation.
const MaxStayNights = 7

var (
	ErrMalformedDate    = errors.New("malformed date")
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrUnknownSeason    = errors.New("unknown season type")
	ErrNegativeRate     = errors.New("rates must not be negative")
	ErrInvalidTaxRate   = errors.New("tax rate must be in [0, 1)")
)

// Messages returned to members when a date range is not bookable.
const (
	MsgCheckInNotFuture    = "La fecha de entrada debe ser a partir de mañana"
	MsgCheckOutBeforeIn    = "La fecha de salida debe ser posterior a la fecha de entrada"
	msgStayTooLongTemplate = "La estadía no puede exceder %d noches"
)

// DateOf strips the time of day and location from t, keeping its calendar
// day as seen in t's own location. The result is midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

// Today returns the calendar day of now in the club's location.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// NightsBetween counts the nights of the half-open stay [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOf(checkOut).Sub(DateOf(checkIn)) / (24 * time.Hour))
}

// Overlaps is the half-open interval test on [aIn, aOut) and [bIn, bOut).
// A check-out on the same day as the next check-in does not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return DateOf(aIn).Before(DateOf(bOut)) && DateOf(aOut).After(DateOf(bIn))
}

// MsgStayTooLong formats the stay-length violation for a cap of maxNights.
func MsgStayTooLong(maxNights int) string {
	return fmt.Sprintf(msgStayTooLongTemplate, maxNights)
}

// DateProblems lists every problem with the stay [checkIn, checkOut) when
// booked on day today, with at most maxNights nights.
func DateProblems(checkIn, checkOut, today time.Time, maxNights int) []string {
	checkIn, checkOut, today = DateOf(checkIn), DateOf(checkOut), DateOf(today)

	var problems []string
	if !checkIn.After(today) {
		problems = append(problems, MsgCheckInNotFuture)
	}
	if !checkOut.After(checkIn) {
		problems = append(problems, MsgCheckOutBeforeIn)
		return problems
	}
	if maxNights > 0 && NightsBetween(checkIn, checkOut) > maxNights {
		problems = append(problems, MsgStayTooLong(maxNights))
	}
	return problems
}

// DateCheck is the outcome of ValidateReservationDates.
type DateCheck struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateReservationDates checks that check-in is tomorrow or later in loc,
// that check-out follows check-in and that the stay is at most MaxStayNights.
func ValidateReservationDates(checkIn, checkOut, now time.Time, loc *time.Location) DateCheck {
	problems := DateProblems(checkIn, checkOut, Today(now, loc), MaxStayNights)
	if len(problems) > 0 {
		return DateCheck{Valid: false, Error: problems[0]}
	}
	return DateCheck{Valid: true}
}
