package ports

import (
	"context"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// PrincipalRepository stores admin credentials.
type PrincipalRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.AdminPrincipal, error)
	// Upsert creates the principal or replaces its password hash.
	Upsert(ctx context.Context, username, passwordHash string) (*domain.AdminPrincipal, error)
}
