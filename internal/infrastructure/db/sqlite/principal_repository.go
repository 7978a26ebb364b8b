package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// PrincipalRepository stores admin credentials in the admin table.
type PrincipalRepository struct {
	db *sql.DB
}

func NewPrincipalRepository(db *sql.DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

func (r *PrincipalRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminPrincipal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, created_at FROM admin WHERE username = ?
	`, username)

	p, err := scanPrincipal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find admin %q: %w", username, err)
	}
	return p, nil
}

// Upsert creates the principal or replaces its password, keeping id and
// created_at of an existing row.
func (r *PrincipalRepository) Upsert(ctx context.Context, username, passwordHash string) (*domain.AdminPrincipal, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return nil, fmt.Errorf("sqlite: upsert admin: username and password hash are required")
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admin (username, password, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET password = excluded.password
		RETURNING id, username, password, created_at
	`, username, passwordHash, time.Now().UTC().UnixMilli())

	p, err := scanPrincipal(row)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upsert admin %q: %w", username, err)
	}
	return p, nil
}

func scanPrincipal(sc scanner) (*domain.AdminPrincipal, error) {
	var (
		p         domain.AdminPrincipal
		createdAt int64
	)
	if err := sc.Scan(&p.ID, &p.Username, &p.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &p, nil
}
