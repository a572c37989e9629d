package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"club-lodging/backend/internal/model"
)

type AccommodationRepository interface {
	Create(ctx context.Context, a *model.Accommodation) error
	GetByID(ctx context.Context, id string) (*model.Accommodation, error)
	// GetForUpdate reads the row with FOR UPDATE; only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, id string) (*model.Accommodation, error)
	List(ctx context.Context, accommodationType string, includeInactive bool) ([]model.Accommodation, error)
	Update(ctx context.Context, a *model.Accommodation) error
}

type accommodationRepo struct {
	db *gorm.DB
}

func NewAccommodationRepo(db *gorm.DB) AccommodationRepository {
	return &accommodationRepo{db: db}
}

func (r *accommodationRepo) Create(ctx context.Context, a *model.Accommodation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accommodationRepo) GetByID(ctx context.Context, id string) (*model.Accommodation, error) {
	var a model.Accommodation
	err := r.db.WithContext(ctx).
		Where("accommodation_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accommodationRepo) GetForUpdate(ctx context.Context, id string) (*model.Accommodation, error) {
	var a model.Accommodation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("accommodation_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns accommodations ordered by type and name, optionally of one
// type.
func (r *accommodationRepo) List(ctx context.Context, accommodationType string, includeInactive bool) ([]model.Accommodation, error) {
	var list []model.Accommodation
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if accommodationType != "" {
		db = db.Where("type = ?", accommodationType)
	}
	err := db.Order("type, name").Find(&list).Error
	return list, err
}

func (r *accommodationRepo) Update(ctx context.Context, a *model.Accommodation) error {
	return r.db.WithContext(ctx).Save(a).Error
}
