package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/ports"
)

// PostgresStore persists reference values in a reference_rates table,
// one row per series.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	once    sync.Once
	initErr error
}

var _ ports.ReferenceStore = (*PostgresStore)(nil)

// NewPostgresStore opens the connection pool. The database is not
// contacted until the first query.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.once.Do(func() {
		_, s.initErr = s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS reference_rates (
				series     TEXT PRIMARY KEY,
				value      NUMERIC NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`)
	})
	if s.initErr != nil {
		return fmt.Errorf("ensure schema: %w", s.initErr)
	}
	return nil
}

func (s *PostgresStore) Previous(ctx context.Context, series string) (decimal.Decimal, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return decimal.Zero, false, err
	}

	query, args, err := s.builder.
		Select("value").
		From("reference_rates").
		Where(sq.Eq{"series": series}).
		ToSql()
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("build select: %w", err)
	}

	var value decimal.Decimal
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("query series %s: %w", series, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Store(ctx context.Context, series string, value decimal.Decimal) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	query, args, err := s.builder.
		Insert("reference_rates").
		Columns("series", "value").
		Values(series, value).
		Suffix("ON CONFLICT (series) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert series %s: %w", series, err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
