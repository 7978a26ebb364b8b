package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

type stubPrincipalRepo struct {
	principals map[string]*domain.AdminPrincipal
	err        error
}

func newStubPrincipalRepo(t *testing.T, username, password string) *stubPrincipalRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &stubPrincipalRepo{principals: map[string]*domain.AdminPrincipal{
		username: {ID: 42, Username: username, PasswordHash: string(hash)},
	}}
}

func (r *stubPrincipalRepo) FindByUsername(_ context.Context, username string) (*domain.AdminPrincipal, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.principals[username]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPrincipalRepo) Upsert(_ context.Context, username, passwordHash string) (*domain.AdminPrincipal, error) {
	p := &domain.AdminPrincipal{ID: int64(len(r.principals) + 1), Username: username, PasswordHash: passwordHash}
	r.principals[username] = p
	return p, nil
}

func TestAuthService_Login_Durable(t *testing.T) {
	repo := newStubPrincipalRepo(t, "alice", "s3cret")
	tokens := NewTokenService("secret", time.Hour, nil)
	svc := NewAuthService(repo, tokens, domain.ModeDurable, DemoCredentials{}, zerolog.Nop())

	res, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Username != "alice" || res.DemoMode {
		t.Fatalf("unexpected result: %+v", res)
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "42" || claims.Role != domain.RoleAdmin || claims.Demo {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_DurableFailures(t *testing.T) {
	repo := newStubPrincipalRepo(t, "alice", "s3cret")
	svc := NewAuthService(repo, NewTokenService("secret", time.Hour, nil), domain.ModeDurable, DemoCredentials{}, zerolog.Nop())

	cases := []struct {
		name, username, password, detail string
	}{
		{"unknown user", "mallory", "s3cret", "unknown_user"},
		{"bad password", "alice", "wrong", "bad_password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			var d *domain.DenialError
			if !errors.As(err, &d) {
				t.Fatalf("expected denial, got %v", err)
			}
			if d.Kind != domain.DenialLoginFailed || d.Detail != tc.detail {
				t.Fatalf("unexpected denial: %+v", d)
			}
			if !errors.Is(err, domain.ErrAccessDenied) {
				t.Fatalf("denial should unwrap to ErrAccessDenied")
			}
		})
	}
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	repo := newStubPrincipalRepo(t, "alice", "s3cret")
	repo.err = errors.New("disk gone")
	svc := NewAuthService(repo, NewTokenService("secret", time.Hour, nil), domain.ModeDurable, DemoCredentials{}, zerolog.Nop())

	_, err := svc.Login(context.Background(), "alice", "s3cret")
	if err == nil || errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuthService_Login_Demo(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour, nil)
	demo := DemoCredentials{Username: "admin", Password: "admin123"}
	svc := NewAuthService(nil, tokens, domain.ModeFallback, demo, zerolog.Nop())

	res, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !res.DemoMode || res.Username != "admin" {
		t.Fatalf("unexpected result: %+v", res)
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != domain.DemoSubject || !claims.Demo {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	_, err = svc.Login(context.Background(), "admin", "nope")
	var d *domain.DenialError
	if !errors.As(err, &d) || d.Kind != domain.DenialLoginFailedDemo {
		t.Fatalf("expected %s denial, got %v", domain.DenialLoginFailedDemo, err)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pass123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("pass123")) != nil {
		t.Fatalf("hash does not match password")
	}
}
