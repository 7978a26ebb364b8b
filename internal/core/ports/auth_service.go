package ports

import (
	"context"
	"time"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
	DemoMode  bool
}

// AuthService authenticates admins and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// TokenVerifier checks an admin session token.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
