// Package createadmin provisions admin principals in the relational database.
package createadmin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/service"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/db/sqlite"
)

// BcryptCost is the hashing cost for stored admin passwords.
const BcryptCost = 12

// Config holds the parsed command line.
type Config struct {
	DBPath   string
	Username string
	Password string
}

// ParseConfig parses `-db <path> <username> <password>`. The database path
// defaults to fallbackDB, normally DATABASE_URL.
func ParseConfig(fs *flag.FlagSet, args []string, fallbackDB string) (Config, error) {
	cfg := Config{DBPath: fallbackDB}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path (default: DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() != 2 {
		return Config{}, errors.New("usage: create-admin [-db <path>] <username> <password>")
	}
	cfg.Username = strings.TrimSpace(fs.Arg(0))
	cfg.Password = fs.Arg(1)
	return cfg, nil
}

// Run hashes the password and upserts the principal.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("database path is required (-db or DATABASE_URL)")
	}
	if n := len([]rune(cfg.Username)); n == 0 || n > 100 {
		return errors.New("username must be between 1 and 100 characters")
	}
	if n := len([]rune(cfg.Password)); n == 0 || n > 200 {
		return errors.New("password must be between 1 and 200 characters")
	}

	hash, err := service.HashPassword(cfg.Password, BcryptCost)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	principal, err := sqlite.NewPrincipalRepository(db).Upsert(ctx, cfg.Username, hash)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "admin %q saved (id %d)\n", principal.Username, principal.ID)
	return err
}
