package ports

import (
	"context"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// PriceService defines the read and write use cases for fish prices.
type PriceService interface {
	ListFishTypes(ctx context.Context) ([]string, error)
	ListLatest(ctx context.Context) ([]domain.FishPrice, error)
	GetLatest(ctx context.Context, fishType string) (*domain.FishPrice, error)
	Create(ctx context.Context, in domain.PriceInput) (*domain.FishPrice, error)
	Update(ctx context.Context, id int64, in domain.PriceInput) (*domain.FishPrice, error)
	Delete(ctx context.Context, id int64) error
}
