package pricing

import (
	"context"
	"fmt"
	"time"
)

// SeasonType is the pricing bucket of a calendar date. Every date belongs to
// exactly one season.
type SeasonType string

const (
	SeasonLow     SeasonType = "low"
	SeasonHigh    SeasonType = "high"
	SeasonHoliday SeasonType = "holiday"
)

// Valid reports whether s is one of the three known seasons.
func (s SeasonType) Valid() bool {
	switch s {
	case SeasonLow, SeasonHigh, SeasonHoliday:
		return true
	}
	return false
}

// ParseSeasonType converts a stored season name into a SeasonType.
func ParseSeasonType(s string) (SeasonType, error) {
	st := SeasonType(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeason, s)
	}
	return st, nil
}

// IsWeekend reports whether the date falls on Friday, Saturday or Sunday.
// Friday counts as weekend: the club prices Friday nights as high season.
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// WeekdaySeason classifies a date by weekday alone, ignoring holidays.
func WeekdaySeason(date time.Time) SeasonType {
	if IsWeekend(date) {
		return SeasonHigh
	}
	return SeasonLow
}

// ClassifyWith resolves the season of date given the holiday registered for
// that date (nil when there is none). An active holiday always wins over the
// weekday split.
func ClassifyWith(date time.Time, holiday *Holiday) SeasonType {
	if holiday != nil && holiday.IsActive && holiday.SeasonType.Valid() {
		return holiday.SeasonType
	}
	return WeekdaySeason(date)
}

// Classifier maps calendar dates to seasons using a HolidayRegistry.
// A nil registry classifies by weekday only.
type Classifier struct {
	registry HolidayRegistry
}

// NewClassifier creates a Classifier backed by registry.
func NewClassifier(registry HolidayRegistry) *Classifier {
	return &Classifier{registry: registry}
}

// ClassifyDate returns the season for date. The only possible error comes from
// the registry lookup itself.
func (c *Classifier) ClassifyDate(ctx context.Context, date time.Time) (SeasonType, error) {
	holiday, err := c.Holiday(ctx, date)
	if err != nil {
		return "", err
	}
	return ClassifyWith(DateOf(date), holiday), nil
}

// Holiday returns the active holiday registered for date, or nil.
func (c *Classifier) Holiday(ctx context.Context, date time.Time) (*Holiday, error) {
	if c == nil || c.registry == nil {
		return nil, nil
	}
	h, err := c.registry.FindByDate(ctx, DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("lookup holiday %s: %w", DateOf(date).Format(DateLayout), err)
	}
	if h == nil || !h.IsActive {
		return nil, nil
	}
	return h, nil
}
