package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// stubStore keeps every record and answers latest-per-type queries by scan.
type stubStore struct {
	mu     sync.Mutex
	rows   []domain.FishPrice
	nextID int64
	reads  int
}

func (s *stubStore) latest() map[string]domain.FishPrice {
	out := make(map[string]domain.FishPrice)
	for _, r := range s.rows {
		if cur, ok := out[r.FishType]; !ok || r.IsNewerThan(cur) {
			out[r.FishType] = r
		}
	}
	return out
}

func (s *stubStore) ListLatestByType(context.Context) ([]domain.FishPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	out := make([]domain.FishPrice, 0)
	for _, r := range s.latest() {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FishType < out[j].FishType })
	return out, nil
}

func (s *stubStore) ListFishTypes(ctx context.Context) ([]string, error) {
	rows, _ := s.ListLatestByType(ctx)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.FishType)
	}
	return out, nil
}

func (s *stubStore) GetLatestByType(_ context.Context, fishType string) (*domain.FishPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	r, ok := s.latest()[fishType]
	if !ok {
		return nil, domain.ErrPriceNotFound
	}
	return &r, nil
}

func (s *stubStore) Create(_ context.Context, in domain.PriceInput) (*domain.FishPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r := domain.FishPrice{ID: s.nextID, FishType: in.FishType, MinPrice: in.MinPrice, MaxPrice: in.MaxPrice, AvgPrice: in.AvgPrice, DateUpdated: in.DateUpdated}
	s.rows = append(s.rows, r)
	return &r, nil
}

func (s *stubStore) Update(_ context.Context, id int64, in domain.PriceInput) (*domain.FishPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i] = domain.FishPrice{ID: id, FishType: in.FishType, MinPrice: in.MinPrice, MaxPrice: in.MaxPrice, AvgPrice: in.AvgPrice, DateUpdated: in.DateUpdated}
			r := s.rows[i]
			return &r, nil
		}
	}
	return nil, domain.ErrPriceNotFound
}

func (s *stubStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) Ping(context.Context) error { return nil }

// stubCache is a map cache without expiry.
type stubCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newStubCache() *stubCache { return &stubCache{entries: make(map[string][]byte)} }

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *stubCache) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func input(fishType string, min, max, avg float64, date string) domain.PriceInput {
	return domain.PriceInput{FishType: fishType, MinPrice: min, MaxPrice: max, AvgPrice: avg, DateUpdated: date}
}

func TestPriceService_ReadsAreCached(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	svc := NewPriceService(store, cache, domain.ModeDurable, zerolog.Nop())
	ctx := context.Background()

	if _, err := store.Create(ctx, input("Galunggong", 120, 160, 140, "2026-01-22")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 3; i++ {
		rows, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest returned error: %v", err)
		}
		if len(rows) != 1 || rows[0].FishType != "Galunggong" {
			t.Fatalf("unexpected rows: %+v", rows)
		}
	}
	if store.reads != 1 {
		t.Fatalf("expected 1 store read, got %d", store.reads)
	}
	if _, ok := cache.entries["fish-prices:all"]; !ok {
		t.Fatalf("expected fish-prices:all to be cached")
	}
}

func TestPriceService_WritesInvalidate(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	svc := NewPriceService(store, cache, domain.ModeDurable, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Create(ctx, input("Tamban", 80, 110, 95, "2026-01-22"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.ListFishTypes(ctx); err != nil {
		t.Fatalf("ListFishTypes returned error: %v", err)
	}
	if _, err := svc.GetLatest(ctx, "Tamban"); err != nil {
		t.Fatalf("GetLatest returned error: %v", err)
	}
	if len(cache.entries) != 2 {
		t.Fatalf("expected 2 cache entries, got %d", len(cache.entries))
	}

	if _, err := svc.Create(ctx, input("Bangus", 150, 200, 175, "2026-01-23")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("expected cache to be empty after write, got %v", cache.entries)
	}

	types, err := svc.ListFishTypes(ctx)
	if err != nil {
		t.Fatalf("ListFishTypes returned error: %v", err)
	}
	if len(types) != 2 || types[0] != "Bangus" || types[1] != "Tamban" {
		t.Fatalf("unexpected types after write: %v", types)
	}

	if _, err := svc.GetLatest(ctx, "Tamban"); err != nil {
		t.Fatalf("GetLatest returned error: %v", err)
	}
	if _, err := svc.Update(ctx, first.ID, input("Tamban", 90, 120, 100, "2026-01-22")); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, err := svc.GetLatest(ctx, "Tamban")
	if err != nil {
		t.Fatalf("GetLatest returned error: %v", err)
	}
	if got.AvgPrice != 100 {
		t.Fatalf("stale read after update: %+v", got)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetLatest(ctx, "Tamban"); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound after delete, got %v", err)
	}
}

func TestPriceService_DeleteMissing(t *testing.T) {
	svc := NewPriceService(&stubStore{}, newStubCache(), domain.ModeDurable, zerolog.Nop())
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}

func TestPriceService_PerTypeCacheIsCaseExact(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	svc := NewPriceService(store, cache, domain.ModeDurable, zerolog.Nop())
	ctx := context.Background()

	if _, err := store.Create(ctx, input("Galunggong", 120, 160, 140, "2026-01-22")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.GetLatest(ctx, "Galunggong"); err != nil {
		t.Fatalf("GetLatest returned error: %v", err)
	}

	// Same cache key, different spelling: must go to the store and miss.
	if _, err := svc.GetLatest(ctx, "galunggong"); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound for different case, got %v", err)
	}
}

func TestPriceService_FallbackSkipsCache(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	svc := NewPriceService(store, cache, domain.ModeFallback, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.ListLatest(ctx); err != nil {
			t.Fatalf("ListLatest returned error: %v", err)
		}
	}
	if store.reads != 2 {
		t.Fatalf("expected every read to hit the store, got %d reads", store.reads)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("cache must not be used in fallback mode")
	}
}

func TestPriceService_CacheErrorFallsThrough(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	cache.getErr = errors.New("connection refused")
	svc := NewPriceService(store, cache, domain.ModeDurable, zerolog.Nop())

	if _, err := svc.ListFishTypes(context.Background()); err != nil {
		t.Fatalf("cache failure should not fail the read: %v", err)
	}
}

// pausingStore holds the first ListFishTypes after it has read the store,
// until release is closed.
type pausingStore struct {
	*stubStore
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *pausingStore) ListFishTypes(ctx context.Context) ([]string, error) {
	types, err := s.stubStore.ListFishTypes(ctx)
	s.once.Do(func() {
		close(s.loaded)
		<-s.release
	})
	return types, err
}

func TestPriceService_ReadRacingWriteDoesNotCacheStaleData(t *testing.T) {
	store := &pausingStore{stubStore: &stubStore{}, loaded: make(chan struct{}), release: make(chan struct{})}
	cache := newStubCache()
	svc := NewPriceService(store, cache, domain.ModeDurable, zerolog.Nop())
	ctx := context.Background()

	if _, err := store.Create(ctx, input("Tamban", 80, 110, 95, "2026-01-22")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	done := make(chan []string)
	go func() {
		types, _ := svc.ListFishTypes(ctx)
		done <- types
	}()
	<-store.loaded

	if _, err := svc.Create(ctx, input("Bangus", 100, 150, 125, "2026-01-23")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	close(store.release)

	if stale := <-done; len(stale) != 1 || stale[0] != "Tamban" {
		t.Fatalf("in-flight read should return what it loaded, got %v", stale)
	}
	if _, ok := cache.entries["fish-types"]; ok {
		t.Fatalf("read that loaded before the write must not fill the cache")
	}

	types, err := svc.ListFishTypes(ctx)
	if err != nil {
		t.Fatalf("ListFishTypes returned error: %v", err)
	}
	if len(types) != 2 || types[0] != "Bangus" || types[1] != "Tamban" {
		t.Fatalf("stale read after write: %v", types)
	}
}
