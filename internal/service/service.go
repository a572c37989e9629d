package service

import (
	"fmt"

	"go.uber.org/zap"

	"club-lodging/backend/config"
	"club-lodging/backend/internal/repository"
	"club-lodging/backend/internal/rules"
	"club-lodging/backend/internal/validator"
	"club-lodging/backend/pkg/jwt"
	"club-lodging/backend/pkg/redis"
)

// Service aggregates every service.
type Service struct {
	Auth          AuthService
	Member        MemberService
	Accommodation AccommodationService
	Pricing       PricingService
	Reservation   ReservationService
	Holiday       HolidayService
	Rule          RuleService
	Export        ExportService
}

// NewService wires the services. rdb may be nil; holidays are then read
// straight from the database and tokens cannot be revoked.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) (*Service, error) {
	taxRate, err := cfg.Pricing.TaxRateDecimal()
	if err != nil {
		return nil, fmt.Errorf("pricing.tax_rate: %w", err)
	}
	loc, err := cfg.Pricing.Location()
	if err != nil {
		return nil, fmt.Errorf("pricing.timezone: %w", err)
	}

	cacheClient := rdb
	if !cfg.Feature.HolidayCacheEnabled {
		cacheClient = nil
	}
	holidays := redis.NewHolidayCache(cacheClient, repo.Holiday, cfg.Redis.HolidayCacheTTL, logger)

	table := rules.Default()
	engine := NewEngine(holidays, taxRate,
		validator.WithLocation(loc),
		validator.WithRules(table),
	)

	var tokens TokenStore
	if rdb != nil {
		tokens = rdb
	}

	pricingSvc := NewPricingService(repo, engine, logger)
	holidaySvc := NewHolidayService(repo, holidays, loc, logger)
	return &Service{
		Auth:          NewAuthService(repo, jwtMgr, tokens, logger),
		Member:        NewMemberService(repo, logger),
		Accommodation: NewAccommodationService(repo, logger),
		Pricing:       pricingSvc,
		Reservation:   NewReservationService(repo, engine, logger),
		Holiday:       holidaySvc,
		Rule:          NewRuleService(table),
		Export:        NewExportService(pricingSvc, holidaySvc, logger),
	}, nil
}
