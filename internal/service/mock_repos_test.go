package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/repository"
	pkgerrors "club-lodging/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil {
			if !filters.IncludeInactive && !u.IsActive {
				continue
			}
			if filters.MemberType != "" && u.MemberType != filters.MemberType {
				continue
			}
			kw := strings.ToLower(filters.Keyword)
			if kw != "" && !strings.Contains(strings.ToLower(u.Name), kw) && !strings.Contains(strings.ToLower(u.Email), kw) {
				continue
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

// ── Mock AccommodationRepository ──

type mockAccommodationRepo struct {
	items  map[string]*model.Accommodation
	locked []string
}

func newMockAccommodationRepo() *mockAccommodationRepo {
	return &mockAccommodationRepo{items: make(map[string]*model.Accommodation)}
}

func (m *mockAccommodationRepo) Create(_ context.Context, a *model.Accommodation) error {
	if a.AccommodationID == "" {
		a.AccommodationID = fmt.Sprintf("acc-%d", len(m.items)+1)
	}
	m.items[a.AccommodationID] = a
	return nil
}

func (m *mockAccommodationRepo) Update(_ context.Context, a *model.Accommodation) error {
	if _, ok := m.items[a.AccommodationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *a
	m.items[a.AccommodationID] = &cp
	return nil
}

func (m *mockAccommodationRepo) GetByID(_ context.Context, id string) (*model.Accommodation, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccommodationRepo) GetForUpdate(ctx context.Context, id string) (*model.Accommodation, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *mockAccommodationRepo) List(_ context.Context, accommodationType string, includeInactive bool) ([]model.Accommodation, error) {
	var result []model.Accommodation
	for _, a := range m.items {
		if !includeInactive && !a.IsActive {
			continue
		}
		if accommodationType == "" || a.Type == accommodationType {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays map[time.Time]*model.Holiday
	rangeErr error
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[time.Time]*model.Holiday)}
}

func (m *mockHolidayRepo) FindByDate(_ context.Context, date time.Time) (*pricing.Holiday, error) {
	h, ok := m.holidays[pricing.DateOf(date)]
	if !ok {
		return nil, nil
	}
	return &pricing.Holiday{
		Date:       pricing.DateOf(h.Date),
		Name:       h.Name,
		SeasonType: pricing.SeasonType(h.SeasonType),
		IsActive:   h.IsActive,
	}, nil
}

func (m *mockHolidayRepo) FindByDateRange(_ context.Context, from, to time.Time) ([]pricing.Holiday, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	var result []pricing.Holiday
	for d, h := range m.holidays {
		if !d.Before(pricing.DateOf(from)) && d.Before(pricing.DateOf(to)) {
			result = append(result, pricing.Holiday{
				Date:       d,
				Name:       h.Name,
				SeasonType: pricing.SeasonType(h.SeasonType),
				IsActive:   h.IsActive,
			})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockHolidayRepo) GetByDate(_ context.Context, date time.Time) (*model.Holiday, error) {
	if h, ok := m.holidays[pricing.DateOf(date)]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHolidayRepo) ListByYear(_ context.Context, year int) ([]model.Holiday, error) {
	var result []model.Holiday
	for d, h := range m.holidays {
		if d.Year() == year {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockHolidayRepo) Upsert(_ context.Context, h *model.Holiday) error {
	d := pricing.DateOf(h.Date)
	if existing, ok := m.holidays[d]; ok {
		existing.Name = h.Name
		existing.SeasonType = h.SeasonType
		existing.IsActive = h.IsActive
		return nil
	}
	cp := *h
	cp.Date = d
	m.holidays[d] = &cp
	return nil
}

func (m *mockHolidayRepo) Deactivate(_ context.Context, date time.Time) error {
	h, ok := m.holidays[pricing.DateOf(date)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.IsActive = false
	return nil
}

// ── Mock ReservationRepository ──

// mockReservationRepo enforces the no-overlap constraint and optimistic
// versions the way PostgreSQL does.
type mockReservationRepo struct {
	items     map[string]*model.Reservation
	accs      *mockAccommodationRepo
	locks     []string
	createErr error
}

func newMockReservationRepo(accs *mockAccommodationRepo) *mockReservationRepo {
	return &mockReservationRepo{items: make(map[string]*model.Reservation), accs: accs}
}

func isActiveStatus(s string) bool { return s == "pending" || s == "confirmed" }

func (m *mockReservationRepo) overlaps(r *model.Reservation) bool {
	if !isActiveStatus(r.Status) {
		return false
	}
	for _, other := range m.items {
		if other.ReservationID == r.ReservationID || other.AccommodationID != r.AccommodationID || !isActiveStatus(other.Status) {
			continue
		}
		if pricing.Overlaps(other.CheckIn, other.CheckOut, r.CheckIn, r.CheckOut) {
			return true
		}
	}
	return false
}

func (m *mockReservationRepo) Create(_ context.Context, r *model.Reservation) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.overlaps(r) {
		return repository.ErrReservationOverlap
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Date(2025, 7, 4, 16, 0, 0, 0, time.UTC)
	}
	cp := *r
	cp.Accommodation = nil
	m.items[r.ReservationID] = &cp
	return nil
}

func (m *mockReservationRepo) withAccommodation(r model.Reservation) *model.Reservation {
	if a, ok := m.accs.items[r.AccommodationID]; ok {
		acc := *a
		r.Accommodation = &acc
	}
	return &r
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	if r, ok := m.items[id]; ok {
		return m.withAccommodation(*r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) sorted(keep func(*model.Reservation) bool) []model.Reservation {
	var result []model.Reservation
	for _, r := range m.items {
		if keep(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckIn.Before(result[j].CheckIn) })
	return result
}

func (m *mockReservationRepo) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	list := m.sorted(func(r *model.Reservation) bool { return r.UserID == userID })
	for i := range list {
		list[i] = *m.withAccommodation(list[i])
	}
	return list, nil
}

func (m *mockReservationRepo) ListActiveByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	return m.sorted(func(r *model.Reservation) bool {
		return r.UserID == userID && isActiveStatus(r.Status)
	}), nil
}

func (m *mockReservationRepo) ListActiveOverlapping(_ context.Context, checkIn, checkOut time.Time) ([]model.Reservation, error) {
	return m.sorted(func(r *model.Reservation) bool {
		return isActiveStatus(r.Status) && pricing.Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut)
	}), nil
}

func (m *mockReservationRepo) AdvisoryLock(_ context.Context, key string) error {
	m.locks = append(m.locks, key)
	return nil
}

func (m *mockReservationRepo) UpdateStatus(_ context.Context, r *model.Reservation) error {
	stored, ok := m.items[r.ReservationID]
	if !ok || stored.Version != r.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = r.Status
	stored.CancelReason = r.CancelReason
	stored.Version++
	r.Version = stored.Version
	return nil
}

func (m *mockReservationRepo) UpdateStay(_ context.Context, r *model.Reservation) error {
	stored, ok := m.items[r.ReservationID]
	if !ok || stored.Version != r.Version {
		return pkgerrors.ErrOptimisticLock
	}
	if m.overlaps(r) {
		return repository.ErrReservationOverlap
	}
	version := stored.Version + 1
	cp := *r
	cp.Accommodation = nil
	cp.Version = version
	m.items[r.ReservationID] = &cp
	r.Version = version
	return nil
}

// ── Mock KeyHandoverRepository ──

type mockKeyHandoverRepo struct {
	handovers []model.KeyHandover
}

func (m *mockKeyHandoverRepo) Create(_ context.Context, h *model.KeyHandover) error {
	m.handovers = append(m.handovers, *h)
	return nil
}

func (m *mockKeyHandoverRepo) ListByReservation(_ context.Context, reservationID string) ([]model.KeyHandover, error) {
	var result []model.KeyHandover
	for _, h := range m.handovers {
		if h.ReservationID == reservationID {
			result = append(result, h)
		}
	}
	return result, nil
}

// ── Mock TokenStore and cache ──

type mockTokenStore struct {
	revoked map[string]time.Duration
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{revoked: make(map[string]time.Duration)}
}

func (m *mockTokenStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *mockTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}
