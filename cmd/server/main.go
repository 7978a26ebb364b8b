package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/api"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/api/handler"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/service"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/audit"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/cache"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/config"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/db/memory"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/db/mongo"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/db/redis"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/db/sqlite"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/queue"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/pkg/logger"
)

const (
	serviceName     = "fish-price-service"
	shutdownTimeout = 10 * time.Second
	auditWorkers    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	mode := cfg.Mode()
	secret := cfg.JWTSecret
	if mode.IsDemo() && secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
	}

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("close resource")
			}
		}
	}()

	health := make(map[string]handler.Pinger)

	// --- Record Store ---
	var (
		store      ports.RecordStore
		principals ports.PrincipalRepository
	)
	switch mode {
	case domain.ModeDurable:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("open database")
			return err
		}
		closers = append(closers, db.Close)
		store = sqlite.NewPriceStore(db, nil)
		principals = sqlite.NewPrincipalRepository(db)
	default:
		store = memory.NewSeededPriceStore(nil)
		warnDemoMode(log, cfg)
	}
	health["store"] = store

	// --- Cache ---
	var c ports.Cache = cache.NewMemoryCache(nil)
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-process cache")
		} else {
			closers = append(closers, client.Close)
			rc := redis.NewCache(client)
			c = rc
			health["redis"] = rc
		}
	}

	// --- Audit ---
	var sinks []queue.Sink
	fileSink, err := audit.OpenFileSink(cfg.Audit.LogPath)
	if err != nil {
		log.Warn().Err(err).Msg("audit log file unavailable")
	} else {
		closers = append(closers, fileSink.Close)
		sinks = append(sinks, queue.Sink{Name: "file", AuditSink: fileSink})
	}
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Warn().Err(err).Msg("mongodb unavailable, audit events go to the log file only")
		} else {
			closers = append(closers, func() error { return mongo.Disconnect(client) })
			repo := mongo.NewAuditRepository(db)
			if err := repo.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("mongodb audit indexes")
			}
			sinks = append(sinks, queue.Sink{Name: "mongodb", AuditSink: repo})
			health["mongodb"] = repo
		}
	}

	// Workers outlive the request context so queued events are flushed after
	// the HTTP server has drained.
	auditCtx, stopAudit := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher := queue.NewDispatcher(auditWorkers, sinks, log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	// --- Services ---
	tokens := service.NewTokenService(secret, cfg.JWTExpiresIn.Std(), nil)
	prices := service.NewPriceService(store, c, mode, log)
	auth := service.NewAuthService(principals, tokens, mode, service.DemoCredentials{
		Username: cfg.DemoAdminUser,
		Password: cfg.DemoAdminPass,
	}, log)

	e := api.NewRouter(api.Options{
		Production:      cfg.IsProduction(),
		EnforceHTTPS:    cfg.HTTP.EnforceHTTPS,
		FrontendOrigin:  cfg.HTTP.FrontendOrigin,
		ServeFrontend:   cfg.HTTP.ServeFrontend,
		FrontendDir:     cfg.HTTP.FrontendDir,
		AdminPath:       cfg.HTTP.AdminPath,
		RateLimitAPI:    cfg.RateLimit.API,
		RateLimitLogin:  cfg.RateLimit.Login,
		RateLimitWindow: cfg.RateLimit.Window,
	}, api.Deps{
		Mode:   mode,
		Prices: prices,
		Auth:   auth,
		Tokens: tokens,
		Audit:  dispatcher,
		Health: health,
		Log:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("mode", string(mode)).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
		return err
	}
	return nil
}

func warnDemoMode(log zerolog.Logger, cfg *config.Config) {
	log.Warn().Msg("DATABASE_URL not set: running in DEMO mode with an in-memory store, data is lost on restart")
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set: using a random secret, tokens are invalidated on restart")
	}
	log.Warn().
		Str("username", cfg.DemoAdminUser).
		Msg("demo admin login enabled (DEMO_ADMIN_USER / DEMO_ADMIN_PASS)")
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
