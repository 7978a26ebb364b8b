// Package memory holds the in-process demo RecordStore. Records are lost on
// restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// SeedRecords are loaded into every new PriceStore.
var SeedRecords = []domain.FishPrice{
	{ID: 1, FishType: "Galunggong", MinPrice: 120, MaxPrice: 160, AvgPrice: 140, DateUpdated: "2026-01-22"},
	{ID: 2, FishType: "Tamban", MinPrice: 80, MaxPrice: 110, AvgPrice: 95, DateUpdated: "2026-01-22"},
}

// PriceStore is a mutex-guarded RecordStore with the same ordering and
// tie-break rules as the relational store.
type PriceStore struct {
	mu     sync.RWMutex
	rows   []domain.FishPrice
	nextID int64
	now    func() time.Time
}

// NewPriceStore returns a store holding seed. A nil clock means time.Now.
func NewPriceStore(seed []domain.FishPrice, now func() time.Time) *PriceStore {
	if now == nil {
		now = time.Now
	}
	s := &PriceStore{now: now, rows: make([]domain.FishPrice, 0, len(seed))}
	for _, r := range seed {
		s.rows = append(s.rows, r)
		if r.ID > s.nextID {
			s.nextID = r.ID
		}
	}
	return s
}

// NewSeededPriceStore returns a store holding SeedRecords.
func NewSeededPriceStore(now func() time.Time) *PriceStore {
	return NewPriceStore(SeedRecords, now)
}

func (s *PriceStore) latest() map[string]domain.FishPrice {
	out := make(map[string]domain.FishPrice)
	for _, r := range s.rows {
		if cur, ok := out[r.FishType]; !ok || r.IsNewerThan(cur) {
			out[r.FishType] = r
		}
	}
	return out
}

func (s *PriceStore) ListLatestByType(context.Context) ([]domain.FishPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latest()
	out := make([]domain.FishPrice, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FishType < out[j].FishType })
	return out, nil
}

func (s *PriceStore) ListFishTypes(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range s.rows {
		if _, ok := seen[r.FishType]; ok {
			continue
		}
		seen[r.FishType] = struct{}{}
		out = append(out, r.FishType)
	}
	sort.Strings(out)
	return out, nil
}

func (s *PriceStore) GetLatestByType(_ context.Context, fishType string) (*domain.FishPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  domain.FishPrice
		found bool
	)
	for _, r := range s.rows {
		if r.FishType != fishType {
			continue
		}
		if !found || r.IsNewerThan(best) {
			best, found = r, true
		}
	}
	if !found {
		return nil, domain.ErrPriceNotFound
	}
	return &best, nil
}

func (s *PriceStore) Create(_ context.Context, in domain.PriceInput) (*domain.FishPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r := domain.FishPrice{
		ID:          s.nextID,
		FishType:    domain.NormalizeFishType(in.FishType),
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		AvgPrice:    in.AvgPrice,
		DateUpdated: domain.NormalizeDate(in.DateUpdated, s.now()),
	}
	s.rows = append(s.rows, r)
	return &r, nil
}

func (s *PriceStore) Update(_ context.Context, id int64, in domain.PriceInput) (*domain.FishPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		r := s.rows[i]
		r.FishType = domain.NormalizeFishType(in.FishType)
		r.MinPrice = in.MinPrice
		r.MaxPrice = in.MaxPrice
		r.AvgPrice = in.AvgPrice
		if in.DateUpdated != "" {
			r.DateUpdated = domain.NormalizeDate(in.DateUpdated, s.now())
		}
		s.rows[i] = r
		return &r, nil
	}
	return nil, domain.ErrPriceNotFound
}

func (s *PriceStore) Delete(_ context.Context, id int64) (bool, error) {
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

func (s *PriceStore) Ping(context.Context) error { return nil }
