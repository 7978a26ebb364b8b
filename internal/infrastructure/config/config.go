package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

const EnvProduction = "production"

type Config struct {
	Port         string   `env:"PORT,            default=3000"`
	Env          string   `env:"ENV,             default=development"`
	LogLevel     string   `env:"LOG_LEVEL,       default=info"`
	JWTSecret    string   `env:"JWT_SECRET"`
	JWTExpiresIn Duration `env:"JWT_EXPIRES_IN,  default=8h"`
	DatabaseURL  string   `env:"DATABASE_URL"`

	DemoAdminUser string `env:"DEMO_ADMIN_USER, default=admin"`
	DemoAdminPass string `env:"DEMO_ADMIN_PASS, default=admin123"`

	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type HTTPConfig struct {
	FrontendOrigin string `env:"FRONTEND_ORIGIN"`
	EnforceHTTPS   bool   `env:"ENFORCE_HTTPS,  default=false"`
	ServeFrontend  bool   `env:"SERVE_FRONTEND, default=true"`
	FrontendDir    string `env:"FRONTEND_DIR,   default=frontend"`
	AdminPath      string `env:"ADMIN_PATH,     default=/admin"`
}

type RateLimitConfig struct {
	API    int           `env:"RATE_LIMIT_API,    default=200"`
	Login  int           `env:"RATE_LIMIT_LOGIN,  default=20"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

type AuditConfig struct {
	LogPath string `env:"AUDIT_LOG_PATH, default=logs/audit.log"`
}

// MongoConfig is optional; audit events also go to MongoDB when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=fish_prices"`
}

// RedisConfig is optional; the cache is shared through Redis when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file, then configuration from the environment
// using go-envconfig. Variables already set win over the .env file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	return &cfg, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Mode selects the Record Store backend: durable when a database is
// configured, otherwise the in-memory demo fallback.
func (c *Config) Mode() domain.Mode {
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return domain.ModeDurable
	}
	return domain.ModeFallback
}

// Validate enforces the production requirements and reports every missing
// variable at once.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required in production"))
		}
	}
	if c.Mode() == domain.ModeDurable && strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when DATABASE_URL is set"))
	}
	if c.RateLimit.API <= 0 || c.RateLimit.Login <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if !strings.HasPrefix(c.HTTP.AdminPath, "/") {
		errs = append(errs, fmt.Errorf("ADMIN_PATH must start with '/': %q", c.HTTP.AdminPath))
	}
	return errors.Join(errs...)
}

// Duration is a time.Duration that also accepts a bare number of seconds and
// a "d" day suffix, e.g. "3600", "8h", "1d".
type Duration time.Duration

func (d *Duration) EnvDecode(val string) error {
	val = strings.TrimSpace(val)
	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	if days, ok := strings.CutSuffix(val, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return fmt.Errorf("invalid duration %q", val)
		}
		*d = Duration(time.Duration(n * float64(24*time.Hour)))
		return nil
	}
	v, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid duration %q", val)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }
