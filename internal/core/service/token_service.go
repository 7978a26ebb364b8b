package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

const defaultTokenTTL = 8 * time.Hour

// sessionClaims is the JWT payload of an admin session.
type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Demo     bool   `json:"demo,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 admin session tokens.
// Verification depends only on the token, the clock and the signing key.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService. A nil clock means time.Now and a
// non-positive ttl falls back to 8h.
func NewTokenService(secret string, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: now}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject. The returned time is the token expiry.
func (s *TokenService) Issue(subject, username, role string, demo bool) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("token: signing secret is not configured")
	}

	now := s.now()
	exp := jwt.NewNumericDate(now.Add(s.ttl))
	claims := sessionClaims{
		Username: username,
		Role:     role,
		Demo:     demo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, exp.Time, nil
}

// Verify checks signature, algorithm, expiry and role. Every failure is a
// *domain.DenialError; a token is valid strictly before its exp second.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.Deny(domain.DenialAuthMissing, "")
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, domain.Deny(domain.DenialAuthInvalidToken, err.Error())
	}
	if !parsed.Valid {
		return nil, domain.Deny(domain.DenialAuthInvalidToken, "token is not valid")
	}
	if claims.Role != domain.RoleAdmin {
		return nil, domain.Deny(domain.DenialAuthInvalidRole, "role="+claims.Role)
	}

	out := &domain.Claims{
		Subject:  claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		Demo:     claims.Demo,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
