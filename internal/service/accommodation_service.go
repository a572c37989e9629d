package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/model"
	"club-lodging/backend/internal/repository"
)

var ErrInvalidRate = errors.New("las tarifas no pueden ser negativas")

// AccommodationService manages the club's properties and their nightly
// rates. Deactivated properties stay visible to admins and keep their
// reservations but cannot be booked.
type AccommodationService interface {
	Create(ctx context.Context, req *dto.CreateAccommodationRequest) (*dto.AccommodationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AccommodationResponse, error)
	// GetActive is the catalogue view: deactivated properties are not found.
	GetActive(ctx context.Context, id string) (*dto.AccommodationResponse, error)
	List(ctx context.Context, req *dto.AccommodationListRequest) ([]dto.AccommodationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAccommodationRequest) (*dto.AccommodationResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type accommodationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewAccommodationService(repo *repository.Repository, logger *zap.Logger) AccommodationService {
	return &accommodationService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *accommodationService) Create(ctx context.Context, req *dto.CreateAccommodationRequest) (*dto.AccommodationResponse, error) {
	if err := checkRates(req.RateLow, req.RateHigh, req.RateHoliday); err != nil {
		return nil, err
	}

	acc := &model.Accommodation{
		Name:        req.Name,
		Type:        req.Type,
		RateLow:     req.RateLow,
		RateHigh:    req.RateHigh,
		RateHoliday: req.RateHoliday,
		IsActive:    true,
	}
	if err := s.repo.Accommodation.Create(ctx, acc); err != nil {
		s.logger.Error("failed to create accommodation", zap.Error(err))
		return nil, err
	}

	resp := toAccommodationResponse(acc)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *accommodationService) GetByID(ctx context.Context, id string) (*dto.AccommodationResponse, error) {
	acc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toAccommodationResponse(acc)
	return &resp, nil
}

func (s *accommodationService) GetActive(ctx context.Context, id string) (*dto.AccommodationResponse, error) {
	acc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive {
		return nil, ErrAccommodationNotFound
	}
	resp := toAccommodationResponse(acc)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *accommodationService) List(ctx context.Context, req *dto.AccommodationListRequest) ([]dto.AccommodationResponse, error) {
	list, err := s.repo.Accommodation.List(ctx, req.Type, req.IncludeInactive)
	if err != nil {
		s.logger.Error("failed to list accommodations", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AccommodationResponse, 0, len(list))
	for i := range list {
		result = append(result, toAccommodationResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *accommodationService) Update(ctx context.Context, id string, req *dto.UpdateAccommodationRequest) (*dto.AccommodationResponse, error) {
	acc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		acc.Name = *req.Name
	}
	if req.RateLow != nil {
		acc.RateLow = *req.RateLow
	}
	if req.RateHigh != nil {
		acc.RateHigh = *req.RateHigh
	}
	if req.RateHoliday != nil {
		acc.RateHoliday = *req.RateHoliday
	}
	if req.IsActive != nil {
		acc.IsActive = *req.IsActive
	}
	if err := checkRates(acc.RateLow, acc.RateHigh, acc.RateHoliday); err != nil {
		return nil, err
	}

	if err := s.repo.Accommodation.Update(ctx, acc); err != nil {
		s.logger.Error("failed to update accommodation", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toAccommodationResponse(acc)
	return &resp, nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *accommodationService) Deactivate(ctx context.Context, id string) error {
	acc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !acc.IsActive {
		return nil
	}

	acc.IsActive = false
	if err := s.repo.Accommodation.Update(ctx, acc); err != nil {
		s.logger.Error("failed to deactivate accommodation", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *accommodationService) load(ctx context.Context, id string) (*model.Accommodation, error) {
	acc, err := s.repo.Accommodation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccommodationNotFound
		}
		s.logger.Error("failed to load accommodation", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return acc, nil
}

func checkRates(rates ...decimal.Decimal) error {
	for _, r := range rates {
		if r.IsNegative() {
			return ErrInvalidRate
		}
	}
	return nil
}

func toAccommodationResponse(a *model.Accommodation) dto.AccommodationResponse {
	return dto.AccommodationResponse{
		ID:          a.AccommodationID,
		Name:        a.Name,
		Type:        a.Type,
		RateLow:     a.RateLow,
		RateHigh:    a.RateHigh,
		RateHoliday: a.RateHoliday,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}
