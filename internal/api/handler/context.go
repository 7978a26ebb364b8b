package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// ClaimsKey is the echo context key under which the admin guard stores the
// verified *domain.Claims.
const ClaimsKey = "admin_claims"

// adminClaims returns the claims stored by the admin guard, if any.
func adminClaims(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

// actor names the admin behind a request for write logs.
func actor(c echo.Context) string {
	claims, ok := adminClaims(c)
	if !ok {
		return ""
	}
	if claims.Username != "" {
		return claims.Username
	}
	return claims.Subject
}
