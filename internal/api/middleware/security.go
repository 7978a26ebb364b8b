package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SecureHeaders sets the browser hardening headers. HSTS is only sent when
// hsts is true.
func SecureHeaders(hsts bool) echo.MiddlewareFunc {
	cfg := echomiddleware.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; base-uri 'self'; font-src 'self' https: data:; form-action 'self'; frame-ancestors 'self'; img-src 'self' data:; object-src 'none'; script-src 'self'; style-src 'self' https: 'unsafe-inline'",
	}
	if hsts {
		cfg.HSTSMaxAge = 15552000
	}
	return echomiddleware.SecureWithConfig(cfg)
}

// ForwardedHTTPSRedirect answers 301 to the https URL when a proxy reports the
// original request as plain http through X-Forwarded-Proto. Requests without
// the header pass through.
func ForwardedHTTPSRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			proto := req.Header.Get(echo.HeaderXForwardedProto)
			if proto != "" && proto != "https" {
				return c.Redirect(http.StatusMovedPermanently, "https://"+req.Host+req.RequestURI)
			}
			return next(c)
		}
	}
}
