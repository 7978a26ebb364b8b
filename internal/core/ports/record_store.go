package ports

import (
	"context"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// RecordStore is the persistence contract for fish price records. The
// relational and in-memory backends must be indistinguishable through it.
type RecordStore interface {
	// ListLatestByType returns one record per fish type: the greatest
	// date_updated, ties broken by the greatest id, ordered by fish_type.
	ListLatestByType(ctx context.Context) ([]domain.FishPrice, error)
	// ListFishTypes returns the distinct fish types in ascending order.
	ListFishTypes(ctx context.Context) ([]string, error)
	// GetLatestByType returns the most recent record for an exact,
	// case-sensitive fish type, or domain.ErrPriceNotFound.
	GetLatestByType(ctx context.Context, fishType string) (*domain.FishPrice, error)
	Create(ctx context.Context, in domain.PriceInput) (*domain.FishPrice, error)
	// Update replaces fish_type and prices of record id. date_updated is kept
	// when in.DateUpdated is empty. Unknown ids yield domain.ErrPriceNotFound.
	Update(ctx context.Context, id int64, in domain.PriceInput) (*domain.FishPrice, error)
	// Delete reports whether a record with that id existed and was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}
