package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/pricing"
	"club-lodging/backend/internal/repository"
)

// PricingService quotes stays and classifies dates.
type PricingService interface {
	Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error)
	Season(ctx context.Context, date string) (*dto.SeasonResponse, error)
	// ValidateDates checks a date pair against today in the club's timezone.
	ValidateDates(checkIn, checkOut string) (*pricing.DateCheck, error)
}

type pricingService struct {
	repo   *repository.Repository
	engine *Engine
	logger *zap.Logger
}

func NewPricingService(repo *repository.Repository, engine *Engine, logger *zap.Logger) PricingService {
	return &pricingService{repo: repo, engine: engine, logger: logger}
}

func (s *pricingService) Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error) {
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.Accommodation.GetByID(ctx, req.AccommodationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccommodationNotFound
		}
		s.logger.Error("failed to load accommodation", zap.String("accommodation_id", req.AccommodationID), zap.Error(err))
		return nil, err
	}
	if !acc.IsActive {
		return nil, ErrAccommodationInactive
	}

	price, err := s.engine.Calculator.CalculateStayPrice(ctx, checkIn, checkOut, ratesOf(acc), s.engine.TaxRate)
	if err != nil {
		if !errors.Is(err, pricing.ErrInvalidDateRange) {
			s.logger.Error("failed to price stay", zap.Error(err))
		}
		return nil, err
	}

	return &dto.QuoteResponse{
		AccommodationID:   acc.AccommodationID,
		AccommodationName: acc.Name,
		AccommodationType: acc.Type,
		Price:             price,
	}, nil
}

func (s *pricingService) Season(ctx context.Context, date string) (*dto.SeasonResponse, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	h, err := s.engine.Classifier.Holiday(ctx, d)
	if err != nil {
		s.logger.Error("failed to look up holiday", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	resp := &dto.SeasonResponse{
		Date:       d.Format(pricing.DateLayout),
		SeasonType: pricing.ClassifyWith(d, h),
	}
	if h != nil {
		resp.HolidayName = h.Name
	}
	return resp, nil
}

func (s *pricingService) ValidateDates(checkIn, checkOut string) (*pricing.DateCheck, error) {
	in, out, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	v := s.engine.Validator
	check := pricing.ValidateReservationDates(in, out, v.Now(), v.Location())
	return &check, nil
}
