package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

const priceColumns = `id, fish_type, min_price, max_price, avg_price, date_updated`

// PriceStore is the relational RecordStore.
type PriceStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPriceStore returns a PriceStore over an opened database. now supplies
// "today" for records created without a date.
func NewPriceStore(db *sql.DB, now func() time.Time) *PriceStore {
	if now == nil {
		now = time.Now
	}
	return &PriceStore{db: db, now: now}
}

func (s *PriceStore) ListLatestByType(ctx context.Context) ([]domain.FishPrice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+priceColumns+` FROM (
			SELECT `+priceColumns+`,
				ROW_NUMBER() OVER (PARTITION BY fish_type ORDER BY date_updated DESC, id DESC) AS rn
			FROM fish_prices
		)
		WHERE rn = 1
		ORDER BY fish_type COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list latest: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FishPrice, 0)
	for rows.Next() {
		var p domain.FishPrice
		if err := scanPrice(rows, &p); err != nil {
			return nil, fmt.Errorf("sqlite: list latest: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list latest: %w", err)
	}
	return out, nil
}

func (s *PriceStore) ListFishTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT fish_type FROM fish_prices ORDER BY fish_type COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list fish types: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("sqlite: list fish types: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list fish types: %w", err)
	}
	return out, nil
}

func (s *PriceStore) GetLatestByType(ctx context.Context, fishType string) (*domain.FishPrice, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+priceColumns+`
		FROM fish_prices
		WHERE fish_type = ?
		ORDER BY date_updated DESC, id DESC
		LIMIT 1
	`, fishType)

	var p domain.FishPrice
	if err := scanPrice(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPriceNotFound
		}
		return nil, fmt.Errorf("sqlite: get latest %q: %w", fishType, err)
	}
	return &p, nil
}

func (s *PriceStore) Create(ctx context.Context, in domain.PriceInput) (*domain.FishPrice, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO fish_prices (fish_type, min_price, max_price, avg_price, date_updated)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+priceColumns,
		domain.NormalizeFishType(in.FishType),
		in.MinPrice, in.MaxPrice, in.AvgPrice,
		domain.NormalizeDate(in.DateUpdated, s.now()),
	)

	var p domain.FishPrice
	if err := scanPrice(row, &p); err != nil {
		return nil, fmt.Errorf("sqlite: create: %w", err)
	}
	return &p, nil
}

func (s *PriceStore) Update(ctx context.Context, id int64, in domain.PriceInput) (*domain.FishPrice, error) {
	// NULL keeps the stored date.
	var date any
	if in.DateUpdated != "" {
		date = domain.NormalizeDate(in.DateUpdated, s.now())
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE fish_prices
		SET fish_type    = ?,
		    min_price    = ?,
		    max_price    = ?,
		    avg_price    = ?,
		    date_updated = COALESCE(?, date_updated)
		WHERE id = ?
		RETURNING `+priceColumns,
		domain.NormalizeFishType(in.FishType),
		in.MinPrice, in.MaxPrice, in.AvgPrice,
		date, id,
	)

	var p domain.FishPrice
	if err := scanPrice(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPriceNotFound
		}
		return nil, fmt.Errorf("sqlite: update %d: %w", id, err)
	}
	return &p, nil
}

func (s *PriceStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted int64
	err := s.db.QueryRowContext(ctx, `DELETE FROM fish_prices WHERE id = ? RETURNING id`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: delete %d: %w", id, err)
	}
	return true, nil
}

func (s *PriceStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrice(sc scanner, p *domain.FishPrice) error {
	return sc.Scan(&p.ID, &p.FishType, &p.MinPrice, &p.MaxPrice, &p.AvgPrice, &p.DateUpdated)
}
