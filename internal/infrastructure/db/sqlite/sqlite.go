package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens (creating when needed) the SQLite database at path and applies
// the schema. path may carry a "sqlite://" or "file:" prefix as found in a
// DATABASE_URL.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "sqlite://")
	path = strings.TrimPrefix(path, "file:")
	if path == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}
	clean := filepath.Clean(path)

	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create db dir: %w", err)
		}
	}

	// WAL with a lock wait; NORMAL sync is safe under WAL.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", clean)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// One connection serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS fish_prices (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			fish_type    TEXT    NOT NULL,
			min_price    REAL    NOT NULL CHECK (min_price >= 0),
			max_price    REAL    NOT NULL CHECK (max_price >= 0),
			avg_price    REAL    NOT NULL CHECK (avg_price >= 0),
			date_updated TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_fish_prices_latest
			ON fish_prices (fish_type, date_updated DESC, id DESC);

		CREATE TABLE IF NOT EXISTS admin (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			username   TEXT    NOT NULL UNIQUE,
			password   TEXT    NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: init schema: %w", err)
	}
	return nil
}
