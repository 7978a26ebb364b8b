package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/metrics"
)

// CacheTTL is the lifetime of every cached read.
const CacheTTL = 60 * time.Second

// Cache keys. Every key lives under one of the two invalidation prefixes.
const (
	keyFishTypes     = "fish-types"
	keyLatestAll     = "fish-prices:all"
	keyLatestPerType = "fish-prices:type:"

	prefixPrices = "fish-prices:"
	prefixTypes  = "fish-types"
)

// PriceService serves fish price reads through the cache and writes straight
// to the store, invalidating the cache after each successful write.
type PriceService struct {
	store ports.RecordStore
	cache ports.Cache
	log   zerolog.Logger

	// epoch counts invalidations. A read only caches what it loaded when no
	// write invalidated in between; fill holds off the bump while a read
	// compares and stores.
	epoch atomic.Uint64
	fill  sync.RWMutex
}

// NewPriceService returns a PriceService. In fallback mode the cache is never
// consulted, so the in-memory store is always read directly.
func NewPriceService(store ports.RecordStore, cache ports.Cache, mode domain.Mode, log zerolog.Logger) *PriceService {
	if mode.IsDemo() {
		cache = nil
	}
	return &PriceService{store: store, cache: cache, log: log}
}

// TypeCacheKey returns the cache key of a per-type lookup.
func TypeCacheKey(fishType string) string {
	return keyLatestPerType + strings.ToLower(fishType)
}

func (s *PriceService) ListFishTypes(ctx context.Context) ([]string, error) {
	types, err := readThrough(ctx, s, keyFishTypes, "fish_types", s.store.ListFishTypes, nil)
	if err != nil {
		return nil, fmt.Errorf("list fish types: %w", err)
	}
	return types, nil
}

func (s *PriceService) ListLatest(ctx context.Context) ([]domain.FishPrice, error) {
	rows, err := readThrough(ctx, s, keyLatestAll, "latest", s.store.ListLatestByType, nil)
	if err != nil {
		return nil, fmt.Errorf("list latest prices: %w", err)
	}
	return rows, nil
}

// GetLatest returns the latest record of an exact fish type. The cache key is
// case-folded, so a hit is only served when the cached type matches exactly.
func (s *PriceService) GetLatest(ctx context.Context, fishType string) (*domain.FishPrice, error) {
	fishType = domain.NormalizeFishType(fishType)

	load := func(ctx context.Context) (*domain.FishPrice, error) {
		return s.store.GetLatestByType(ctx, fishType)
	}
	exact := func(p *domain.FishPrice) bool {
		return p != nil && p.FishType == fishType
	}

	row, err := readThrough(ctx, s, TypeCacheKey(fishType), "by_type", load, exact)
	if err != nil {
		return nil, fmt.Errorf("get latest price %q: %w", fishType, err)
	}
	return row, nil
}

func (s *PriceService) Create(ctx context.Context, in domain.PriceInput) (*domain.FishPrice, error) {
	row, err := s.store.Create(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Str("fish_type", in.FishType).Msg("failed to create fish price")
		return nil, fmt.Errorf("create fish price: %w", err)
	}

	s.invalidate(ctx)
	metrics.PriceWritesTotal.WithLabelValues("create").Inc()
	s.log.Info().Int64("id", row.ID).Str("fish_type", row.FishType).Msg("fish price created")
	return row, nil
}

func (s *PriceService) Update(ctx context.Context, id int64, in domain.PriceInput) (*domain.FishPrice, error) {
	row, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update fish price %d: %w", id, err)
	}

	s.invalidate(ctx)
	metrics.PriceWritesTotal.WithLabelValues("update").Inc()
	s.log.Info().Int64("id", row.ID).Str("fish_type", row.FishType).Msg("fish price updated")
	return row, nil
}

func (s *PriceService) Delete(ctx context.Context, id int64) error {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete fish price %d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("delete fish price %d: %w", id, domain.ErrPriceNotFound)
	}

	s.invalidate(ctx)
	metrics.PriceWritesTotal.WithLabelValues("delete").Inc()
	s.log.Info().Int64("id", id).Msg("fish price deleted")
	return nil
}

// invalidate clears every read that a write may have affected. Failures are
// logged; the write itself has already succeeded.
func (s *PriceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.fill.Lock()
	s.epoch.Add(1)
	s.fill.Unlock()

	for _, prefix := range []string{prefixPrices, prefixTypes} {
		if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
			metrics.CacheInvalidationsTotal.WithLabelValues("error").Inc()
			s.log.Error().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
			continue
		}
		metrics.CacheInvalidationsTotal.WithLabelValues("ok").Inc()
	}
}

// readThrough serves key from the cache when possible, otherwise loads it from
// the store and caches the result. accept, when set, rejects cached values that
// must not be served for this request. Cache errors degrade to a miss.
func readThrough[T any](ctx context.Context, s *PriceService, key, query string, load func(context.Context) (T, error), accept func(T) bool) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues(query, "error").Inc()
		s.log.Warn().Err(err).Str("key", key).Msg("cache get failed, reading from store")
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil && (accept == nil || accept(cached)) {
			metrics.CacheLookupsTotal.WithLabelValues(query, "hit").Inc()
			return cached, nil
		}
		metrics.CacheLookupsTotal.WithLabelValues(query, "miss").Inc()
	} else {
		metrics.CacheLookupsTotal.WithLabelValues(query, "miss").Inc()
	}

	epoch := s.epoch.Load()
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return value, nil
	}
	s.fill.RLock()
	defer s.fill.RUnlock()
	if s.epoch.Load() != epoch {
		metrics.CacheLookupsTotal.WithLabelValues(query, "stale_fill").Inc()
		return value, nil
	}
	if err := s.cache.Set(ctx, key, raw, CacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return value, nil
}
