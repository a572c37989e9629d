package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"club-lodging/backend/internal/model"
	pkgerrors "club-lodging/backend/pkg/errors"
)

var activeStatuses = []string{"pending", "confirmed"}

// ErrReservationOverlap is returned when the reservations_no_overlap
// exclusion constraint rejects a write.
var ErrReservationOverlap = errors.New("reservation overlaps an active reservation")

const exclusionViolation = "23P01"

func translateOverlap(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return ErrReservationOverlap
	}
	return err
}

type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	// ListByUser returns every reservation of the user, newest check-in first.
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	// ListActiveByUser returns the user's pending and confirmed reservations.
	ListActiveByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	// ListActiveOverlapping returns pending and confirmed reservations of any
	// accommodation whose nights intersect [checkIn, checkOut).
	ListActiveOverlapping(ctx context.Context, checkIn, checkOut time.Time) ([]model.Reservation, error)
	// AdvisoryLock takes a transaction-scoped PostgreSQL advisory lock on key.
	AdvisoryLock(ctx context.Context, key string) error
	// UpdateStatus and UpdateStay are optimistic: they fail with
	// ErrOptimisticLock when r.Version is stale.
	UpdateStatus(ctx context.Context, r *model.Reservation) error
	UpdateStay(ctx context.Context, r *model.Reservation) error
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	return translateOverlap(r.db.WithContext(ctx).Create(res).Error)
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Accommodation").
		Where("reservation_id = ?", id).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Accommodation").
		Where("user_id = ?", userID).
		Order("check_in DESC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListActiveByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, activeStatuses).
		Order("check_in").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListActiveOverlapping(ctx context.Context, checkIn, checkOut time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("status IN ? AND check_in < ? AND check_out > ?", activeStatuses, checkOut, checkIn).
		Order("check_in").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) AdvisoryLock(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, res *model.Reservation) error {
	return r.update(ctx, res, map[string]interface{}{
		"status":        res.Status,
		"cancel_reason": res.CancelReason,
	})
}

func (r *reservationRepo) UpdateStay(ctx context.Context, res *model.Reservation) error {
	return r.update(ctx, res, map[string]interface{}{
		"check_in":                 res.CheckIn,
		"check_out":                res.CheckOut,
		"status":                   res.Status,
		"total_before_tax":         res.TotalBeforeTax,
		"tax":                      res.Tax,
		"total_price":              res.TotalPrice,
		"payment_required":         res.PaymentRequired,
		"payment_due_at":           res.PaymentDueAt,
		"manager_approval_pending": res.ManagerApprovalPending,
		"requested_check_in":       res.RequestedCheckIn,
		"requested_check_out":      res.RequestedCheckOut,
	})
}

func (r *reservationRepo) update(ctx context.Context, res *model.Reservation, updates map[string]interface{}) error {
	oldVersion := res.Version
	updates["version"] = oldVersion + 1
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_id = ? AND version = ?", res.ReservationID, oldVersion).
		Updates(updates)
	if result.Error != nil {
		return translateOverlap(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	res.Version = oldVersion + 1
	return nil
}
