package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func denialKind(t *testing.T, err error) string {
	t.Helper()
	var d *domain.DenialError
	if !errors.As(err, &d) {
		t.Fatalf("expected *domain.DenialError, got %T (%v)", err, err)
	}
	return d.Kind
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)}
	svc := NewTokenService("secret", time.Hour, clock.Now)

	token, exp, err := svc.Issue("7", "alice", domain.RoleAdmin, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if !exp.Equal(clock.t.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", exp)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "7" || claims.Username != "alice" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Demo {
		t.Fatalf("expected non-demo token")
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issued}
	svc := NewTokenService("secret", time.Hour, clock.Now)

	token, _, err := svc.Issue("1", "alice", domain.RoleAdmin, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	clock.t = issued.Add(time.Hour - time.Second)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid one second before expiry: %v", err)
	}

	clock.t = issued.Add(time.Hour)
	if kind := denialKind(t, mustFail(svc.Verify(token))); kind != domain.DenialAuthInvalidToken {
		t.Fatalf("expected %s at expiry, got %s", domain.DenialAuthInvalidToken, kind)
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)}
	svc := NewTokenService("secret", time.Hour, clock.Now)
	other := NewTokenService("other-secret", time.Hour, clock.Now)

	foreign, _, err := other.Issue("1", "alice", domain.RoleAdmin, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims := jwt.MapClaims{
		"sub":  "1",
		"role": domain.RoleAdmin,
		"exp":  clock.t.Add(time.Hour).Unix(),
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "role": domain.RoleAdmin}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign without exp: %v", err)
	}

	cases := map[string]string{
		"wrong key":     foreign,
		"wrong alg":     hs512,
		"alg none":      none,
		"missing exp":   noExp,
		"malformed":     "not.a.token",
		"truncated sig": foreign[:len(foreign)-4],
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if kind := denialKind(t, mustFail(svc.Verify(token))); kind != domain.DenialAuthInvalidToken {
				t.Fatalf("expected %s, got %s", domain.DenialAuthInvalidToken, kind)
			}
		})
	}
}

func TestTokenService_RejectsNonAdminRole(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, nil)

	token, _, err := svc.Issue("1", "bob", "viewer", false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if kind := denialKind(t, mustFail(svc.Verify(token))); kind != domain.DenialAuthInvalidRole {
		t.Fatalf("expected %s, got %s", domain.DenialAuthInvalidRole, kind)
	}
}

func TestTokenService_EmptyToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, nil)
	if kind := denialKind(t, mustFail(svc.Verify(""))); kind != domain.DenialAuthMissing {
		t.Fatalf("expected %s, got %s", domain.DenialAuthMissing, kind)
	}
}

func TestTokenService_IssueWithoutSecret(t *testing.T) {
	svc := NewTokenService("", time.Hour, nil)
	if _, _, err := svc.Issue("1", "alice", domain.RoleAdmin, false); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
}

func mustFail(_ *domain.Claims, err error) error {
	return err
}
