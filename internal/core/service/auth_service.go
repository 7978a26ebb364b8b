package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/metrics"
)

// DemoCredentials is the fixed login accepted in fallback mode.
type DemoCredentials struct {
	Username string
	Password string
}

// AuthService implements admin login for both operating modes.
type AuthService struct {
	principals ports.PrincipalRepository
	tokens     *TokenService
	mode       domain.Mode
	demo       DemoCredentials
	log        zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService returns an AuthService. principals may be nil in fallback
// mode, where only the demo credentials are accepted.
func NewAuthService(principals ports.PrincipalRepository, tokens *TokenService, mode domain.Mode, demo DemoCredentials, log zerolog.Logger) *AuthService {
	return &AuthService{
		principals: principals,
		tokens:     tokens,
		mode:       mode,
		demo:       demo,
		log:        log,
	}
}

// Login checks the credentials and issues a session token. Bad credentials
// always surface as a *domain.DenialError.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if s.mode.IsDemo() {
		return s.loginDemo(username, password)
	}
	if s.principals == nil {
		return nil, errors.New("login: no principal repository configured")
	}

	principal, err := s.principals.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		// Burn the same bcrypt cost as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, domain.Deny(domain.DenialLoginFailed, "unknown_user")
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)) != nil {
		return nil, domain.Deny(domain.DenialLoginFailed, "bad_password")
	}

	token, exp, err := s.tokens.Issue(strconv.FormatInt(principal.ID, 10), principal.Username, domain.RoleAdmin, false)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(string(s.mode)).Inc()
	s.log.Info().Str("username", principal.Username).Msg("admin logged in")
	return &ports.LoginResult{Token: token, Username: principal.Username, ExpiresAt: exp}, nil
}

func (s *AuthService) loginDemo(username, password string) (*ports.LoginResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.demo.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.demo.Password)) == 1
	if !userOK || !passOK {
		return nil, domain.Deny(domain.DenialLoginFailedDemo, "bad_demo_credentials")
	}

	token, exp, err := s.tokens.Issue(domain.DemoSubject, s.demo.Username, domain.RoleAdmin, true)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(string(s.mode)).Inc()
	s.log.Info().Str("username", s.demo.Username).Msg("demo admin logged in")
	return &ports.LoginResult{Token: token, Username: s.demo.Username, ExpiresAt: exp, DemoMode: true}, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// HashPassword hashes a password for storage in a PrincipalRepository.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
