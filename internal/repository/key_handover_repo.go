package repository

import (
	"context"

	"gorm.io/gorm"

	"club-lodging/backend/internal/model"
)

type KeyHandoverRepository interface {
	Create(ctx context.Context, h *model.KeyHandover) error
	ListByReservation(ctx context.Context, reservationID string) ([]model.KeyHandover, error)
}

type keyHandoverRepo struct {
	db *gorm.DB
}

func NewKeyHandoverRepo(db *gorm.DB) KeyHandoverRepository {
	return &keyHandoverRepo{db: db}
}

func (r *keyHandoverRepo) Create(ctx context.Context, h *model.KeyHandover) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *keyHandoverRepo) ListByReservation(ctx context.Context, reservationID string) ([]model.KeyHandover, error) {
	var list []model.KeyHandover
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("handed_over_at").
		Find(&list).Error
	return list, err
}
