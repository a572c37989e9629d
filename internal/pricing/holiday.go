package pricing

import (
	"context"
	"sort"
	"time"
)

// Holiday is one entry of the holiday calendar. Only active entries take part
// in season classification.
type Holiday struct {
	Date       time.Time  `json:"date"`
	Name       string     `json:"name"`
	SeasonType SeasonType `json:"season_type"`
	IsActive   bool       `json:"is_active"`
}

// HolidayRegistry is the lookup the engine needs over the holiday calendar.
//
// FindByDate returns (nil, nil) when no record exists for the date.
// FindByDateRange returns the records whose date lies in [from, to).
// Implementations may return inactive records; callers filter them.
type HolidayRegistry interface {
	FindByDate(ctx context.Context, date time.Time) (*Holiday, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}

// StaticRegistry is an in-memory HolidayRegistry, used for fixed holiday
// lists and in tests. It is safe for concurrent reads once built.
type StaticRegistry struct {
	byDate map[string]Holiday
}

// NewStaticRegistry builds a registry from holidays. A later entry for the
// same date replaces an earlier one.
func NewStaticRegistry(holidays ...Holiday) *StaticRegistry {
	r := &StaticRegistry{byDate: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		h.Date = DateOf(h.Date)
		r.byDate[h.Date.Format(DateLayout)] = h
	}
	return r
}

func (r *StaticRegistry) FindByDate(_ context.Context, date time.Time) (*Holiday, error) {
	h, ok := r.byDate[DateOf(date).Format(DateLayout)]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *StaticRegistry) FindByDateRange(_ context.Context, from, to time.Time) ([]Holiday, error) {
	from, to = DateOf(from), DateOf(to)
	var result []Holiday
	for _, h := range r.byDate {
		if !h.Date.Before(from) && h.Date.Before(to) {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// indexActive keys the active holidays by date.
func indexActive(holidays []Holiday) map[string]Holiday {
	idx := make(map[string]Holiday, len(holidays))
	for _, h := range holidays {
		if !h.IsActive {
			continue
		}
		idx[DateOf(h.Date).Format(DateLayout)] = h
	}
	return idx
}
