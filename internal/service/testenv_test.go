package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/repository"
	"club-lodging/backend/internal/validator"
)

// ── test environment ──

// club is UTC-6, like Costa Rica.
var club = time.FixedZone("CST", -6*3600)

// testNow is Friday 2025-07-04 10:00 club time.
var testNow = time.Date(2025, 7, 4, 10, 0, 0, 0, club)

type testEnv struct {
	repo         *repository.Repository
	users        *mockUserRepo
	accs         *mockAccommodationRepo
	holidays     *mockHolidayRepo
	reservations *mockReservationRepo
	handovers    *mockKeyHandoverRepo
	engine       *Engine
	logger       *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newMockUserRepo()
	accs := newMockAccommodationRepo()
	holidays := newMockHolidayRepo()
	reservations := newMockReservationRepo(accs)
	handovers := &mockKeyHandoverRepo{}

	env := &testEnv{
		repo: &repository.Repository{
			User:          users,
			Accommodation: accs,
			Holiday:       holidays,
			Reservation:   reservations,
			KeyHandover:   handovers,
		},
		users:        users,
		accs:         accs,
		holidays:     holidays,
		reservations: reservations,
		handovers:    handovers,
		engine: NewEngine(holidays, decimal.RequireFromString("0.13"),
			validator.WithLocation(club),
			validator.WithClock(func() time.Time { return testNow }),
		),
		logger: zap.NewNop(),
	}
	env.seed(t)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	for _, u := range []model.User{
		{UserID: "m1", Name: "Ana Mora", Email: "ana@club.cr", MemberType: "member", Role: model.RoleMember, IsActive: true},
		{UserID: "m2", Name: "Luis Vargas", Email: "luis@club.cr", MemberType: "member", Role: model.RoleMember, IsActive: true},
		{UserID: "d1", Name: "Jorge Castro", Email: "jorge@club.cr", MemberType: "board_director", Role: model.RoleMember, IsActive: true},
		{UserID: "y1", Name: "Diego Araya", Email: "diego@club.cr", MemberType: "youth_visitor", Role: model.RoleMember, IsActive: true},
		{UserID: "off", Name: "Pedro Brenes", Email: "pedro@club.cr", MemberType: "member", Role: model.RoleMember, IsActive: false},
		{UserID: "admin", Name: "Gerencia", Email: "gerencia@club.cr", MemberType: "member", Role: model.RoleAdmin, IsActive: true},
	} {
		u := u
		u.PasswordHash = string(hash)
		_ = e.users.Create(context.Background(), &u)
	}

	for _, a := range []model.Accommodation{
		{AccommodationID: "cab-1", Name: "Cabaña Roble", Type: "cabin", RateLow: dec("20000"), RateHigh: dec("30000"), RateHoliday: dec("40000"), IsActive: true},
		{AccommodationID: "apt-1", Name: "Apartamento Playa", Type: "apartment", RateLow: dec("35000"), RateHigh: dec("45000"), RateHoliday: dec("60000"), IsActive: true},
		{AccommodationID: "house-1", Name: "Casa Grande", Type: "house", RateLow: dec("60000"), RateHigh: dec("80000"), RateHoliday: dec("100000"), IsActive: true},
		{AccommodationID: "cab-closed", Name: "Cabaña Cerrada", Type: "cabin", RateLow: dec("20000"), RateHigh: dec("30000"), RateHoliday: dec("40000"), IsActive: false},
	} {
		a := a
		_ = e.accs.Create(context.Background(), &a)
	}

	for _, h := range []model.Holiday{
		{HolidayID: "h1", Date: date("2025-07-25"), Name: "Anexión del Partido de Nicoya", SeasonType: "holiday", IsActive: true},
		{HolidayID: "h2", Date: date("2025-08-15"), Name: "Día de la Madre", SeasonType: "holiday", IsActive: true},
	} {
		h := h
		_ = e.holidays.Upsert(context.Background(), &h)
	}
}

// book stores a reservation directly, bypassing validation.
func (e *testEnv) book(id, userID, accID, in, out, status string) *model.Reservation {
	acc := e.accs.items[accID]
	user := e.users.users[userID]
	r := &model.Reservation{
		ReservationID:     id,
		UserID:            userID,
		UserType:          user.MemberType,
		AccommodationID:   accID,
		AccommodationType: acc.Type,
		CheckIn:           date(in),
		CheckOut:          date(out),
		Status:            status,
		TotalBeforeTax:    dec("0"),
		Tax:               dec("0"),
		TotalPrice:        dec("0"),
		PaymentRequired:   true,
		Version:           1,
	}
	e.reservations.items[id] = r
	return r
}

func (e *testEnv) reservationService() ReservationService {
	return NewReservationService(e.repo, e.engine, e.logger)
}

func date(s string) time.Time {
	t, err := pricing.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func hasMessage(list []string, fragment string) bool {
	for _, m := range list {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}
