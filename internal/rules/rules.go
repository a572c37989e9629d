// Package rules holds the per-member-type business rules of the club.
//
// The table is static configuration: every MemberType has exactly one
// BusinessRule, and an unknown member type is an error, never a fallback to
// some generic rule.
package rules

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownMemberType        = errors.New("unknown member type")
	ErrUnknownAccommodationType = errors.New("unknown accommodation type")
)

// MemberType is the category of club member or visitor.
type MemberType string

const (
	MemberRegular          MemberType = "member"
	MemberWidow            MemberType = "widow"
	MemberSpecialVisitor   MemberType = "special_visitor"
	MemberTransientVisitor MemberType = "transient_visitor"
	MemberYouthVisitor     MemberType = "youth_visitor"
	MemberBoardDirector    MemberType = "board_director"
)

// MemberTypes lists every member type in display order.
var MemberTypes = []MemberType{
	MemberRegular,
	MemberWidow,
	MemberSpecialVisitor,
	MemberTransientVisitor,
	MemberYouthVisitor,
	MemberBoardDirector,
}

// Valid reports whether m is a known member type.
func (m MemberType) Valid() bool { return slices.Contains(MemberTypes, m) }

// ParseMemberType converts a stored or submitted value into a MemberType.
func ParseMemberType(s string) (MemberType, error) {
	m := MemberType(strings.TrimSpace(s))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMemberType, s)
	}
	return m, nil
}

// AccommodationType is one of the club's three property categories.
type AccommodationType string

const (
	AccommodationCabin     AccommodationType = "cabin"
	AccommodationApartment AccommodationType = "apartment"
	AccommodationHouse     AccommodationType = "house"
)

// AccommodationTypes lists every property category.
var AccommodationTypes = []AccommodationType{AccommodationCabin, AccommodationApartment, AccommodationHouse}

// Valid reports whether a is a known property category.
func (a AccommodationType) Valid() bool { return slices.Contains(AccommodationTypes, a) }

// ParseAccommodationType converts a stored or submitted value into an AccommodationType.
func ParseAccommodationType(s string) (AccommodationType, error) {
	a := AccommodationType(strings.TrimSpace(s))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccommodationType, s)
	}
	return a, nil
}

// ExceptionHoliday marks holiday dates as excluded from the director payment exemption.
const ExceptionHoliday = "holiday"

// DirectorRules are the extra limits that only apply to board directors.
type DirectorRules struct {
	MaxReservationsPerMonth        int                       `json:"max_reservations_per_month"`
	MaxReservationsPerTypePerMonth int                       `json:"max_reservations_per_type_per_month"`
	MaxDaysPerReservation          int                       `json:"max_days_per_reservation"`
	CancellationNoticeHours        int                       `json:"cancellation_notice_hours"`
	FreeReservationExceptions      []string                  `json:"free_reservation_exceptions"`
	LocationCaps                   map[AccommodationType]int `json:"location_caps"`
}

// BusinessRule is the rule row of one member type.
type BusinessRule struct {
	MemberType               MemberType     `json:"member_type"`
	CanHoldReservation       bool           `json:"can_hold_reservation"`
	MaxConsecutiveDays       int            `json:"max_consecutive_days"`
	MaxReservationsPerMember int            `json:"max_reservations_per_member"`
	CheckInTime              string         `json:"check_in_time"`
	CheckOutTime             string         `json:"check_out_time"`
	PaymentTimeLimitHours    int            `json:"payment_time_limit_hours"`
	ModificationNoticeHours  int            `json:"modification_notice_hours"`
	AllowedDaysOfWeek        []time.Weekday `json:"allowed_days_of_week"`
	WeekendAdvanceNoticeDays *int           `json:"weekend_advance_notice_days,omitempty"`
	Director                 *DirectorRules `json:"director,omitempty"`
}

// AllowsDay reports whether check-in on weekday wd is allowed without exception.
func (r *BusinessRule) AllowsDay(wd time.Weekday) bool {
	return slices.Contains(r.AllowedDaysOfWeek, wd)
}

// CheckInClock parses CheckInTime ("HH:MM"). A malformed value yields 00:00.
func (r *BusinessRule) CheckInClock() (hour, minute int) {
	return parseClock(r.CheckInTime)
}

func parseClock(s string) (int, int) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0
	}
	hour, err1 := strconv.Atoi(h)
	minute, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0
	}
	return hour, minute
}

func (r BusinessRule) clone() BusinessRule {
	r.AllowedDaysOfWeek = slices.Clone(r.AllowedDaysOfWeek)
	if r.WeekendAdvanceNoticeDays != nil {
		n := *r.WeekendAdvanceNoticeDays
		r.WeekendAdvanceNoticeDays = &n
	}
	if r.Director != nil {
		dr := *r.Director
		dr.FreeReservationExceptions = slices.Clone(dr.FreeReservationExceptions)
		dr.LocationCaps = maps.Clone(dr.LocationCaps)
		r.Director = &dr
	}
	return r
}

// Table maps each member type to its rule.
type Table map[MemberType]BusinessRule

// RulesFor returns a copy of the rule for m. Callers may modify the copy freely.
func (t Table) RulesFor(m MemberType) (*BusinessRule, error) {
	rule, ok := t[m]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMemberType, m)
	}
	c := rule.clone()
	return &c, nil
}

// List returns copies of every rule in MemberTypes order, followed by any
// extra entries the table carries.
func (t Table) List() []BusinessRule {
	result := make([]BusinessRule, 0, len(t))
	for _, m := range MemberTypes {
		if rule, ok := t[m]; ok {
			result = append(result, rule.clone())
		}
	}
	return result
}

// RulesFor looks m up in the default club table.
func RulesFor(m MemberType) (*BusinessRule, error) {
	return Default().RulesFor(m)
}
