package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func newLoginContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != " s3cret " {
				t.Fatalf("unexpected args: %q %q", username, password)
			}
			return &ports.LoginResult{Token: "tok", Username: username}, nil
		},
	}
	c, rec := newLoginContext(`{"username":"  alice\t","password":" s3cret "}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" || resp["username"] != "alice" {
		t.Fatalf("unexpected body: %v", resp)
	}
	if _, ok := resp["demoMode"]; ok {
		t.Fatalf("demoMode must be omitted outside fallback mode: %v", resp)
	}
}

func TestAuthHandler_Login_Demo(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return &ports.LoginResult{Token: "tok", Username: "admin", DemoMode: true}, nil
		},
	}
	c, rec := newLoginContext(`{"username":"admin","password":"admin123"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"demoMode":true`) {
		t.Fatalf("expected demoMode flag, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.Deny(domain.DenialLoginFailed, "bad_password")
		},
	}
	c, _ := newLoginContext(`{"username":"alice","password":"nope"}`)

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("service must not be called for invalid input")
			return nil, nil
		},
	}

	cases := []struct {
		name   string
		body   string
		fields []string
	}{
		{"blank username", `{"username":"   ","password":"x"}`, []string{"username"}},
		{"missing both", `{}`, []string{"username", "password"}},
		{"username too long", `{"username":"` + strings.Repeat("a", 101) + `","password":"x"}`, []string{"username"}},
		{"numeric username", `{"username":42,"password":"x"}`, []string{"username"}},
		{"object password", `{"username":"a","password":{"p":1}}`, []string{"password"}},
		{"password too long", `{"username":"a","password":"` + strings.Repeat("p", 201) + `"}`, []string{"password"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newLoginContext(tc.body)
			err := NewAuthHandler(stub).Login(c)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(ve.Fields) != len(tc.fields) {
				t.Fatalf("fields = %+v, want %v", ve.Fields, tc.fields)
			}
			for i, f := range tc.fields {
				if ve.Fields[i].Field != f {
					t.Fatalf("field %d = %q, want %q", i, ve.Fields[i].Field, f)
				}
			}
		})
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	c, _ := newLoginContext(`{"username":`)
	err := NewAuthHandler(&stubAuthService{}).Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
