package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"club-lodging/backend/internal/pricing"
)

const (
	holidayVersionKey = "holiday:version"
	holidayKeyPrefix  = "holiday:v"
)

// HolidayCache is a read-through pricing.HolidayRegistry in front of the
// database. Keys embed a generation number; Invalidate bumps it so every
// cached day and range is dropped at once.
//
// With a nil client every call goes straight to the backing registry.
// Cache failures are logged and never fail a lookup.
type HolidayCache struct {
	client  *Client
	backing pricing.HolidayRegistry
	ttl     time.Duration
	logger  *zap.Logger
}

func NewHolidayCache(client *Client, backing pricing.HolidayRegistry, ttl time.Duration, logger *zap.Logger) *HolidayCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HolidayCache{client: client, backing: backing, ttl: ttl, logger: logger}
}

var _ pricing.HolidayRegistry = (*HolidayCache)(nil)

func (h *HolidayCache) FindByDate(ctx context.Context, date time.Time) (*pricing.Holiday, error) {
	if h.client == nil {
		return h.backing.FindByDate(ctx, date)
	}
	key, ok := h.key(ctx, "day:"+pricing.DateOf(date).Format(pricing.DateLayout))
	if ok {
		var cached *pricing.Holiday
		if h.get(ctx, key, &cached) {
			return cached, nil
		}
	}

	holiday, err := h.backing.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if ok {
		h.set(ctx, key, holiday)
	}
	return holiday, nil
}

func (h *HolidayCache) FindByDateRange(ctx context.Context, from, to time.Time) ([]pricing.Holiday, error) {
	if h.client == nil {
		return h.backing.FindByDateRange(ctx, from, to)
	}
	key, ok := h.key(ctx, fmt.Sprintf("range:%s:%s",
		pricing.DateOf(from).Format(pricing.DateLayout), pricing.DateOf(to).Format(pricing.DateLayout)))
	if ok {
		var cached []pricing.Holiday
		if h.get(ctx, key, &cached) {
			return cached, nil
		}
	}

	holidays, err := h.backing.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if ok {
		h.set(ctx, key, holidays)
	}
	return holidays, nil
}

// Invalidate drops every cached entry. Call it after any holiday write.
func (h *HolidayCache) Invalidate(ctx context.Context) error {
	if h.client == nil {
		return nil
	}
	if err := h.client.rdb.Incr(ctx, holidayVersionKey).Err(); err != nil {
		return fmt.Errorf("invalidate holiday cache: %w", err)
	}
	return nil
}

func (h *HolidayCache) key(ctx context.Context, suffix string) (string, bool) {
	version, err := h.client.rdb.Get(ctx, holidayVersionKey).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		h.logger.Warn("holiday cache version read failed", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s%d:%s", holidayKeyPrefix, version, suffix), true
}

func (h *HolidayCache) get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := h.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			h.logger.Warn("holiday cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		h.logger.Warn("holiday cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (h *HolidayCache) set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := h.client.rdb.Set(ctx, key, raw, h.ttl).Err(); err != nil {
		h.logger.Warn("holiday cache write failed", zap.String("key", key), zap.Error(err))
	}
}
