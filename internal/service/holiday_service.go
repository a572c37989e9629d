package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/repository"
)

var (
	ErrHolidayNotFound    = errors.New("feriado no encontrado")
	ErrInvalidSeasonType  = errors.New("tipo de temporada inválido")
	ErrInvalidCalendar    = errors.New("el calendario ICS no es válido")
	ErrCalendarFetch      = errors.New("no se pudo descargar el calendario ICS")
	ErrEmptyCalendarInput = errors.New("el calendario ICS no contiene feriados")
)

// CacheInvalidator drops cached holiday lookups after the registry changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// HolidayService administers the holiday registry.
type HolidayService interface {
	// List returns the holidays of year, or of the current year when 0.
	List(ctx context.Context, year int) ([]dto.HolidayResponse, error)
	Upsert(ctx context.Context, req *dto.UpsertHolidayRequest) (*dto.HolidayResponse, error)
	Deactivate(ctx context.Context, date string) error
	ImportICS(ctx context.Context, r io.Reader, seasonType string) (*dto.ImportHolidaysResponse, error)
	ImportICSFromURL(ctx context.Context, url, seasonType string) (*dto.ImportHolidaysResponse, error)
}

type holidayService struct {
	repo   *repository.Repository
	cache  CacheInvalidator
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewHolidayService(repo *repository.Repository, cache CacheInvalidator, loc *time.Location, logger *zap.Logger) HolidayService {
	if loc == nil {
		loc = time.UTC
	}
	return &holidayService{repo: repo, cache: cache, loc: loc, now: time.Now, logger: logger}
}

func (s *holidayService) List(ctx context.Context, year int) ([]dto.HolidayResponse, error) {
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}
	rows, err := s.repo.Holiday.ListByYear(ctx, year)
	if err != nil {
		s.logger.Error("failed to list holidays", zap.Int("year", year), zap.Error(err))
		return nil, err
	}
	result := make([]dto.HolidayResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toHolidayResponse(&rows[i]))
	}
	return result, nil
}

func (s *holidayService) Upsert(ctx context.Context, req *dto.UpsertHolidayRequest) (*dto.HolidayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	season, err := seasonOrDefault(req.SeasonType)
	if err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	h := &model.Holiday{
		HolidayID:  uuid.NewString(),
		Date:       date,
		Name:       req.Name,
		SeasonType: string(season),
		IsActive:   active,
	}
	if err := s.repo.Holiday.Upsert(ctx, h); err != nil {
		s.logger.Error("failed to upsert holiday", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)

	stored, err := s.repo.Holiday.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("failed to reload holiday", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	resp := toHolidayResponse(stored)
	return &resp, nil
}

func (s *holidayService) Deactivate(ctx context.Context, date string) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}
	if err := s.repo.Holiday.Deactivate(ctx, d); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("failed to deactivate holiday", zap.String("date", date), zap.Error(err))
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *holidayService) ImportICS(ctx context.Context, r io.Reader, seasonType string) (*dto.ImportHolidaysResponse, error) {
	season, err := seasonOrDefault(seasonType)
	if err != nil {
		return nil, err
	}
	days, skipped, err := ParseHolidayICS(r, s.loc)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrEmptyCalendarInput
	}

	resp := &dto.ImportHolidaysResponse{Skipped: skipped, Dates: make([]string, 0, len(days))}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, d := range days {
			h := &model.Holiday{
				HolidayID:  uuid.NewString(),
				Date:       d.Date,
				Name:       d.Name,
				SeasonType: string(season),
				IsActive:   true,
			}
			if err := tx.Holiday.Upsert(ctx, h); err != nil {
				return err
			}
			resp.Dates = append(resp.Dates, d.Date.Format(pricing.DateLayout))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to import holidays", zap.Error(err))
		return nil, err
	}
	resp.Imported = len(resp.Dates)
	s.invalidate(ctx)

	s.logger.Info("holiday calendar imported", zap.Int("imported", resp.Imported), zap.Int("skipped", skipped))
	return resp, nil
}

func (s *holidayService) ImportICSFromURL(ctx context.Context, url, seasonType string) (*dto.ImportHolidaysResponse, error) {
	body, err := FetchICSContent(ctx, url)
	if err != nil {
		s.logger.Warn("failed to fetch holiday calendar", zap.String("url", url), zap.Error(err))
		return nil, ErrCalendarFetch
	}
	defer body.Close()
	return s.ImportICS(ctx, body, seasonType)
}

func (s *holidayService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate holiday cache", zap.Error(err))
	}
}

func seasonOrDefault(s string) (pricing.SeasonType, error) {
	if s == "" {
		return pricing.SeasonHoliday, nil
	}
	season, err := pricing.ParseSeasonType(s)
	if err != nil {
		return "", ErrInvalidSeasonType
	}
	return season, nil
}
