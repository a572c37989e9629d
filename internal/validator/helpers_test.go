package validator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/rules"
)

// club is UTC-6, like Costa Rica.
var club = time.FixedZone("CST", -6*3600)

func d(s string) time.Time {
	t, err := pricing.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(date string, hour, minute int) func() time.Time {
	t := d(date)
	now := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, club)
	return func() time.Time { return now }
}

// newTestValidator is fixed at Friday 2025-07-04 10:00 club time.
func newTestValidator(opts ...Option) *Validator {
	base := []Option{WithLocation(club), WithClock(at("2025-07-04", 10, 0))}
	return New(pricing.NewStaticRegistry(), append(base, opts...)...)
}

func users() []User {
	return []User{
		{ID: "m1", Name: "Ana Mora", MemberType: rules.MemberRegular, IsActive: true},
		{ID: "m2", Name: "Luis Vargas", MemberType: rules.MemberRegular, IsActive: true},
		{ID: "w1", Name: "Rosa Solís", MemberType: rules.MemberWidow, IsActive: true},
		{ID: "s1", Name: "Carlos Rojas", MemberType: rules.MemberSpecialVisitor, IsActive: true},
		{ID: "t1", Name: "Marta Jiménez", MemberType: rules.MemberTransientVisitor, IsActive: true},
		{ID: "y1", Name: "Diego Araya", MemberType: rules.MemberYouthVisitor, IsActive: true},
		{ID: "d1", Name: "Jorge Castro", MemberType: rules.MemberBoardDirector, IsActive: true},
		{ID: "d2", Name: "Elena Quesada", MemberType: rules.MemberBoardDirector, IsActive: true},
		{ID: "off", Name: "Pedro Brenes", MemberType: rules.MemberRegular, IsActive: false},
	}
}

func booking(id, user string, userType rules.MemberType, acc string, accType rules.AccommodationType, in, out string, status ReservationStatus) ReservationSnapshot {
	return ReservationSnapshot{
		ID:                id,
		UserID:            user,
		UserType:          userType,
		AccommodationID:   acc,
		AccommodationType: accType,
		CheckIn:           d(in),
		CheckOut:          d(out),
		Status:            status,
	}
}

func request(user string, acc string, accType rules.AccommodationType, in, out string) ReservationRequest {
	return ReservationRequest{
		UserID:            user,
		AccommodationID:   acc,
		AccommodationType: accType,
		CheckIn:           d(in),
		CheckOut:          d(out),
	}
}

func mustValidate(t *testing.T, v *Validator, snap *Snapshot, req ReservationRequest) *ValidationResult {
	t.Helper()
	res, err := v.ValidateNewReservation(snap, req, NewReservationOptions{})
	if err != nil {
		t.Fatalf("ValidateNewReservation: %v", err)
	}
	return res
}

func containsMsg(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

type failingRegistry struct{}

func (failingRegistry) FindByDate(context.Context, time.Time) (*pricing.Holiday, error) {
	return nil, errors.New("db down")
}

func (failingRegistry) FindByDateRange(context.Context, time.Time, time.Time) ([]pricing.Holiday, error) {
	return nil, errors.New("db down")
}
