package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/api/handler"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
)

// RequireAdmin verifies the Bearer token and stores the claims in the echo
// context under handler.ClaimsKey. Every failure is returned as a
// *domain.DenialError; the error handler audits it and answers with one
// uniform 403.
func RequireAdmin(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.Deny(domain.DenialAuthMissing, "")
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return err
			}

			c.Set(handler.ClaimsKey, claims)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
