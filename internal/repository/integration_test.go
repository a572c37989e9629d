//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/repository"
	"club-lodging/backend/pkg/database"
	pkgerrors "club-lodging/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=club password=club_password dbname=club_lodging_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func day(s string) time.Time {
	t, err := pricing.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// setupTestData creates one member and one cabin and returns a cleanup func.
func setupTestData(t *testing.T) (user *model.User, cabin *model.Accommodation, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	user = &model.User{
		Name:         "Socio de prueba",
		Email:        fmt.Sprintf("socio%d@club.test", time.Now().UnixNano()),
		PasswordHash: "$2a$10$placeholder",
		MemberType:   "member",
		Role:         model.RoleMember,
		IsActive:     true,
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	cabin = &model.Accommodation{
		Name:        fmt.Sprintf("Cabaña %d", time.Now().UnixNano()),
		Type:        "cabin",
		RateLow:     decimal.NewFromInt(100),
		RateHigh:    decimal.NewFromInt(200),
		RateHoliday: decimal.NewFromInt(300),
		IsActive:    true,
	}
	if err := testDB.WithContext(ctx).Create(cabin).Error; err != nil {
		t.Fatalf("create accommodation: %v", err)
	}

	cleanup = func() {
		testDB.Where("accommodation_id = ?", cabin.AccommodationID).Delete(&model.Reservation{})
		testDB.Unscoped().Where("accommodation_id = ?", cabin.AccommodationID).Delete(&model.Accommodation{})
		testDB.Unscoped().Where("user_id = ?", user.UserID).Delete(&model.User{})
	}
	return
}

func newReservation(user *model.User, cabin *model.Accommodation, in, out string) *model.Reservation {
	return &model.Reservation{
		UserID:            user.UserID,
		UserType:          user.MemberType,
		AccommodationID:   cabin.AccommodationID,
		AccommodationType: cabin.Type,
		CheckIn:           day(in),
		CheckOut:          day(out),
		Status:            "confirmed",
		TotalBeforeTax:    decimal.NewFromInt(200),
		Tax:               decimal.NewFromInt(26),
		TotalPrice:        decimal.NewFromInt(226),
		PaymentRequired:   true,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	user, cabin, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	res := newReservation(user, cabin, "2030-07-01", "2030-07-03")

	sentinel := errors.New("abort")
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Accommodation.GetForUpdate(ctx, cabin.AccommodationID); err != nil {
			return err
		}
		if err := tx.Reservation.Create(ctx, res); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected the sentinel back, got %v", err)
	}

	if _, err := repo.Reservation.GetByID(ctx, res.ReservationID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Overlap exclusion constraint
// ═══════════════════════════════════════════════════════════

func TestReservation_ExclusionConstraint(t *testing.T) {
	user, cabin, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Reservation.Create(ctx, newReservation(user, cabin, "2030-07-01", "2030-07-03")); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	// Back to back is fine.
	if err := repo.Reservation.Create(ctx, newReservation(user, cabin, "2030-07-03", "2030-07-05")); err != nil {
		t.Fatalf("back-to-back reservation: %v", err)
	}
	if err := repo.Reservation.Create(ctx, newReservation(user, cabin, "2030-07-02", "2030-07-04")); !errors.Is(err, repository.ErrReservationOverlap) {
		t.Fatalf("expected ErrReservationOverlap, got %v", err)
	}

	// Cancelled rows do not hold nights.
	cancelled := newReservation(user, cabin, "2030-08-01", "2030-08-03")
	cancelled.Status = "cancelled"
	if err := repo.Reservation.Create(ctx, cancelled); err != nil {
		t.Fatalf("cancelled reservation: %v", err)
	}
	if err := repo.Reservation.Create(ctx, newReservation(user, cabin, "2030-08-01", "2030-08-03")); err != nil {
		t.Fatalf("nights of a cancelled reservation must be free: %v", err)
	}

	overlapping, err := repo.Reservation.ListActiveOverlapping(ctx, day("2030-07-02"), day("2030-07-04"))
	if err != nil {
		t.Fatalf("ListActiveOverlapping: %v", err)
	}
	mine := 0
	for _, r := range overlapping {
		if r.AccommodationID == cabin.AccommodationID {
			mine++
		}
	}
	if mine != 2 {
		t.Errorf("expected 2 overlapping reservations, got %d", mine)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_Reservation(t *testing.T) {
	user, cabin, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	res := newReservation(user, cabin, "2030-09-01", "2030-09-03")
	if err := repo.Reservation.Create(ctx, res); err != nil {
		t.Fatalf("create: %v", err)
	}

	copy1, _ := repo.Reservation.GetByID(ctx, res.ReservationID)
	copy2, _ := repo.Reservation.GetByID(ctx, res.ReservationID)

	copy1.Status = "cancelled"
	copy1.CancelReason = "cambio de planes"
	if err := repo.Reservation.UpdateStatus(ctx, copy1); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if copy1.Version != 2 {
		t.Errorf("expected version 2, got %d", copy1.Version)
	}

	copy2.CheckOut = day("2030-09-04")
	if err := repo.Reservation.UpdateStay(ctx, copy2); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Holiday registry
// ═══════════════════════════════════════════════════════════

func TestHoliday_UpsertAndRange(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	date := day("2031-07-25")
	defer testDB.Where("date = ?", date).Delete(&model.Holiday{})

	if err := repo.Holiday.Upsert(ctx, &model.Holiday{Date: date, Name: "Anexión", SeasonType: "holiday", IsActive: true}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Holiday.Upsert(ctx, &model.Holiday{Date: date, Name: "Anexión de Guanacaste", SeasonType: "holiday", IsActive: true}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	h, err := repo.Holiday.FindByDate(ctx, date)
	if err != nil || h == nil || h.Name != "Anexión de Guanacaste" {
		t.Fatalf("expected the replaced holiday, got %+v, %v", h, err)
	}

	list, err := repo.Holiday.FindByDateRange(ctx, date, date.AddDate(0, 0, 1))
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one holiday in range, got %v, %v", list, err)
	}
	if list, _ := repo.Holiday.FindByDateRange(ctx, date.AddDate(0, 0, -1), date); len(list) != 0 {
		t.Errorf("range end is exclusive, got %v", list)
	}

	if err := repo.Holiday.Deactivate(ctx, date); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	season, err := pricing.NewClassifier(repo.Holiday).ClassifyDate(ctx, date)
	if err != nil {
		t.Fatalf("ClassifyDate: %v", err)
	}
	if season == pricing.SeasonHoliday {
		t.Error("a deactivated holiday must not classify as holiday")
	}

	if h, err := repo.Holiday.FindByDate(ctx, day("2031-07-26")); err != nil || h != nil {
		t.Errorf("expected (nil, nil) for a plain date, got %+v, %v", h, err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: List filters
// ═══════════════════════════════════════════════════════════

func TestUser_ListFilters(t *testing.T) {
	user, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	users, total, err := repo.User.List(ctx, &repository.UserListFilters{Keyword: user.Email}, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].UserID != user.UserID {
		t.Fatalf("keyword search: total=%d len=%d", total, len(users))
	}

	user.IsActive = false
	if err := repo.User.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}
	_, total, err = repo.User.List(ctx, &repository.UserListFilters{Keyword: user.Email}, 0, 10)
	if err != nil || total != 0 {
		t.Errorf("inactive members are hidden by default: total=%d err=%v", total, err)
	}
	_, total, err = repo.User.List(ctx, &repository.UserListFilters{Keyword: user.Email, IncludeInactive: true}, 0, 10)
	if err != nil || total != 1 {
		t.Errorf("IncludeInactive: total=%d err=%v", total, err)
	}
}

func TestAccommodation_ListInactive(t *testing.T) {
	_, cabin, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	cabin.IsActive = false
	if err := repo.Accommodation.Update(ctx, cabin); err != nil {
		t.Fatalf("Update: %v", err)
	}

	contains := func(list []model.Accommodation) bool {
		for _, a := range list {
			if a.AccommodationID == cabin.AccommodationID {
				return true
			}
		}
		return false
	}

	active, err := repo.Accommodation.List(ctx, "cabin", false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if contains(active) {
		t.Error("deactivated cabin listed as active")
	}
	all, err := repo.Accommodation.List(ctx, "cabin", true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !contains(all) {
		t.Error("deactivated cabin missing with includeInactive")
	}
}
