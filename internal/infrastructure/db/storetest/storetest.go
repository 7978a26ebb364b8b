// Package storetest is a behavioural contract for ports.RecordStore. Every
// backend runs the same suite so they stay interchangeable.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
)

// Now is the fixed clock handed to every store under test.
var Now = time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)

// Factory returns an empty store using the given clock.
type Factory func(t *testing.T, now func() time.Time) ports.RecordStore

// Run executes the contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	clock := func() time.Time { return Now }

	t.Run("EmptyStore", func(t *testing.T) {
		s := newStore(t, clock)
		ctx := context.Background()

		rows, err := s.ListLatestByType(ctx)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)

		types, err := s.ListFishTypes(ctx)
		require.NoError(t, err)
		assert.Empty(t, types)

		_, err = s.GetLatestByType(ctx, "Bangus")
		assert.ErrorIs(t, err, domain.ErrPriceNotFound)
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("CreateAssignsIDsAndNormalizes", func(t *testing.T) {
		s := newStore(t, clock)
		ctx := context.Background()

		a, err := s.Create(ctx, domain.PriceInput{FishType: "  Bangus ", MinPrice: 100, MaxPrice: 150, AvgPrice: 125})
		require.NoError(t, err)
		b, err := s.Create(ctx, domain.PriceInput{FishType: "Tilapia", MinPrice: 90, MaxPrice: 120, AvgPrice: 100, DateUpdated: "2026-01-22T23:30:00-05:00"})
		require.NoError(t, err)
		c, err := s.Create(ctx, domain.PriceInput{FishType: "Dalagang Bukid", MinPrice: 1, MaxPrice: 3, AvgPrice: 2, DateUpdated: "not a date"})
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
		assert.NotEqual(t, b.ID, c.ID)
		assert.NotEqual(t, a.ID, c.ID)

		assert.Equal(t, "Bangus", a.FishType)
		assert.Equal(t, "2026-03-04", a.DateUpdated)
		assert.Equal(t, "2026-01-23", b.DateUpdated)
		assert.Equal(t, "2026-03-04", c.DateUpdated)
		assert.Equal(t, 125.0, a.AvgPrice)
	})

	t.Run("LatestPerTypeTieBreak", func(t *testing.T) {
		s := newStore(t, clock)
		ctx := context.Background()

		newer, err := s.Create(ctx, domain.PriceInput{FishType: "Tamban", MinPrice: 80, MaxPrice: 110, AvgPrice: 95, DateUpdated: "2026-01-23"})
		require.NoError(t, err)
		_, err = s.Create(ctx, domain.PriceInput{FishType: "Tamban", MinPrice: 70, MaxPrice: 100, AvgPrice: 90, DateUpdated: "2026-01-22"})
		require.NoError(t, err)

		_, err = s.Create(ctx, domain.PriceInput{FishType: "Galunggong", MinPrice: 120, MaxPrice: 160, AvgPrice: 140, DateUpdated: "2026-01-22"})
		require.NoError(t, err)
		sameDay, err := s.Create(ctx, domain.PriceInput{FishType: "Galunggong", MinPrice: 125, MaxPrice: 165, AvgPrice: 145, DateUpdated: "2026-01-22"})
		require.NoError(t, err)

		rows, err := s.ListLatestByType(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, sameDay.ID, rows[0].ID, "equal dates: greatest id wins")
		assert.Equal(t, newer.ID, rows[1].ID, "greatest date wins over greater id")

		got, err := s.GetLatestByType(ctx, "Tamban")
		require.NoError(t, err)
		assert.Equal(t, newer.ID, got.ID)

		got, err = s.GetLatestByType(ctx, "Galunggong")
		require.NoError(t, err)
		assert.Equal(t, sameDay.ID, got.ID)
	})

	t.Run("OrderingIsByteWiseAndCaseSensitive", func(t *testing.T) {
		s := newStore(t, clock)
		ctx := context.Background()

		for _, name := range []string{"bangus", "Tamban", "Galunggong", "Tamban"} {
			_, err := s.Create(ctx, domain.PriceInput{FishType: name, MinPrice: 1, MaxPrice: 2, AvgPrice: 1.5, DateUpdated: "2026-01-22"})
			require.NoError(t, err)
		}

		types, err := s.ListFishTypes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Galunggong", "Tamban", "bangus"}, types)

		rows, err := s.ListLatestByType(ctx)
		require.NoError(t, err)
		got := make([]string, 0, len(rows))
		for _, r := range rows {
			got = append(got, r.FishType)
		}
		assert.Equal(t, []string{"Galunggong", "Tamban", "bangus"}, got)

		_, err = s.GetLatestByType(ctx, "tamban")
		assert.ErrorIs(t, err, domain.ErrPriceNotFound)
		_, err = s.GetLatestByType(ctx, "Bangus")
		assert.ErrorIs(t, err, domain.ErrPriceNotFound)
	})

	t.Run("UpdateReplacesAndPreservesDate", func(t *testing.T) {
		s := newStore(t, clock)
		ctx := context.Background()

		orig, err := s.Create(ctx, domain.PriceInput{FishType: "Bangus", MinPrice: 100, MaxPrice: 150, AvgPrice: 125, DateUpdated: "2026-01-10"})
		require.NoError(t, err)

		upd, err := s.Update(ctx, orig.ID, domain.PriceInput{FishType: " Bangus (farmed) ", MinPrice: 110, MaxPrice: 160, AvgPrice: 130})
		require.NoError(t, err)
		assert.Equal(t, orig.ID, upd.ID)
		assert.Equal(t, "Bangus (farmed)", upd.FishType)
		assert.Equal(t, 130.0, upd.AvgPrice)
		assert.Equal(t, "2026-01-10", upd.DateUpdated)

		upd, err = s.Update(ctx, orig.ID, domain.PriceInput{FishType: "Bangus", MinPrice: 110, MaxPrice: 160, AvgPrice: 130, DateUpdated: "2026-02-01"})
		require.NoError(t, err)
		assert.Equal(t, "2026-02-01", upd.DateUpdated)

		got, err := s.GetLatestByType(ctx, "Bangus")
		require.NoError(t, err)
		assert.Equal(t, *upd, *got)

		_, err = s.Update(ctx, orig.ID+1000, domain.PriceInput{FishType: "Bangus", MinPrice: 1, MaxPrice: 2, AvgPrice: 1})
		assert.ErrorIs(t, err, domain.ErrPriceNotFound)
	})

	t.Run("DeleteIsPermanent", func(t *testing.T) {
		s := newStore(t, clock)
		ctx := context.Background()

		row, err := s.Create(ctx, domain.PriceInput{FishType: "Bangus", MinPrice: 100, MaxPrice: 150, AvgPrice: 125})
		require.NoError(t, err)

		removed, err := s.Delete(ctx, row.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Delete(ctx, row.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = s.GetLatestByType(ctx, "Bangus")
		assert.ErrorIs(t, err, domain.ErrPriceNotFound)

		next, err := s.Create(ctx, domain.PriceInput{FishType: "Bangus", MinPrice: 100, MaxPrice: 150, AvgPrice: 125})
		require.NoError(t, err)
		assert.NotEqual(t, row.ID, next.ID, "ids are never reused")
	})
}
