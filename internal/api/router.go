package api

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/docs"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/api/handler"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/api/middleware"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
)

const bodyLimit = "64K"

// Options are the HTTP surface settings taken from configuration.
type Options struct {
	Production     bool
	EnforceHTTPS   bool
	FrontendOrigin string
	ServeFrontend  bool
	FrontendDir    string
	AdminPath      string

	RateLimitAPI    int
	RateLimitLogin  int
	RateLimitWindow time.Duration
}

// Deps are the collaborators the routes are served by.
type Deps struct {
	Mode   domain.Mode
	Prices ports.PriceService
	Auth   ports.AuthService
	Tokens ports.TokenVerifier
	Audit  ports.AuditRecorder
	// Health maps a dependency name to its readiness ping.
	Health map[string]handler.Pinger
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Audit)
	// Client IP comes from X-Forwarded-For when the peer is a trusted proxy.
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	// --- Global middleware ---
	if opts.EnforceHTTPS && opts.Production {
		e.Pre(middleware.ForwardedHTTPSRedirect())
	}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(middleware.SecureHeaders(opts.Production))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(opts.FrontendOrigin)))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// Each router owns its HTTP metric collectors; /metrics also exposes the
	// process-wide service metrics.
	httpMetrics := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "fishprice",
		Registerer: httpMetrics,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	}))

	// --- Dependencies ---
	priceHandler := handler.NewPriceHandler(deps.Prices, deps.Log)
	authHandler := handler.NewAuthHandler(deps.Auth)
	healthHandler := handler.NewHealthHandler(deps.Mode.IsDemo(), deps.Health)
	requireAdmin := middleware.RequireAdmin(deps.Tokens)

	api := e.Group("/api", middleware.RateLimit(opts.RateLimitAPI, opts.RateLimitWindow, nil))

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthHandler.Readiness)

	// --- Public reads ---
	api.GET("/fish-types", priceHandler.ListFishTypes)
	api.GET("/fish-prices", priceHandler.ListLatest)
	api.GET("/fish-prices/:type", priceHandler.GetLatest)

	// --- Admin ---
	api.POST("/admin/login", authHandler.Login, middleware.RateLimit(opts.RateLimitLogin, opts.RateLimitWindow, nil))
	api.POST("/fish-prices", priceHandler.Create, requireAdmin)
	api.PUT("/fish-prices/:id", priceHandler.Update, requireAdmin)
	api.DELETE("/fish-prices/:id", priceHandler.Delete, requireAdmin)

	if !opts.Production {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	if opts.ServeFrontend {
		registerFrontend(e, opts.FrontendDir, opts.AdminPath)
	}

	return e
}

func corsConfig(origin string) echomiddleware.CORSConfig {
	cfg := echomiddleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}
	if origin = strings.TrimSpace(origin); origin != "" {
		cfg.AllowOrigins = []string{origin}
	} else {
		cfg.AllowOrigins = []string{"*"}
	}
	return cfg
}

// registerFrontend serves the public UI at / and the admin UI at adminPath.
func registerFrontend(e *echo.Echo, dir, adminPath string) {
	if dir == "" {
		dir = "frontend"
	}
	if adminPath == "" {
		adminPath = "/admin"
	}
	e.Static("/", dir)
	e.File(adminPath, filepath.Join(dir, "admin", "index.html"))
	e.File("/", filepath.Join(dir, "index.html"))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
