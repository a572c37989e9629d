package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
)

// HolidayRepository persists the holiday registry. It is also the
// pricing.HolidayRegistry the engine reads.
type HolidayRepository interface {
	pricing.HolidayRegistry
	GetByDate(ctx context.Context, date time.Time) (*model.Holiday, error)
	ListByYear(ctx context.Context, year int) ([]model.Holiday, error)
	// Upsert inserts or replaces the holiday of h.Date.
	Upsert(ctx context.Context, h *model.Holiday) error
	Deactivate(ctx context.Context, date time.Time) error
}

type holidayRepo struct {
	db *gorm.DB
}

func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func toPricingHoliday(h model.Holiday) pricing.Holiday {
	return pricing.Holiday{
		Date:       pricing.DateOf(h.Date),
		Name:       h.Name,
		SeasonType: pricing.SeasonType(h.SeasonType),
		IsActive:   h.IsActive,
	}
}

func (r *holidayRepo) FindByDate(ctx context.Context, date time.Time) (*pricing.Holiday, error) {
	h, err := r.GetByDate(ctx, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ph := toPricingHoliday(*h)
	return &ph, nil
}

func (r *holidayRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]pricing.Holiday, error) {
	var rows []model.Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", pricing.DateOf(from), pricing.DateOf(to)).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]pricing.Holiday, 0, len(rows))
	for _, h := range rows {
		result = append(result, toPricingHoliday(h))
	}
	return result, nil
}

func (r *holidayRepo) GetByDate(ctx context.Context, date time.Time) (*model.Holiday, error) {
	var h model.Holiday
	err := r.db.WithContext(ctx).
		Where("date = ?", pricing.DateOf(date)).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *holidayRepo) ListByYear(ctx context.Context, year int) ([]model.Holiday, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	var rows []model.Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, from.AddDate(1, 0, 0)).
		Order("date").
		Find(&rows).Error
	return rows, err
}

func (r *holidayRepo) Upsert(ctx context.Context, h *model.Holiday) error {
	h.Date = pricing.DateOf(h.Date)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "season_type", "is_active", "updated_at"}),
		}).
		Create(h).Error
}

func (r *holidayRepo) Deactivate(ctx context.Context, date time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Holiday{}).
		Where("date = ?", pricing.DateOf(date)).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
