package recordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresKV persists each collection as one row in a collections table.
// The upsert replaces the payload in a single statement, preserving the
// atomic single-key write guarantee.
type PostgresKV struct {
	db *sql.DB
}

func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

// EnsureSchema creates the collections table if it does not exist.
func (s *PostgresKV) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS collections (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure collections schema: %w", err)
	}
	return nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) (string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM collections WHERE key = $1`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select collection %s: %w", key, err)
	}
	return payload, nil
}

func (s *PostgresKV) Set(ctx context.Context, key string, value string) error {
	query := `
		INSERT INTO collections (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = $3
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("upsert collection %s: %w", key, err)
	}
	return nil
}

func (s *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM collections WHERE key = $1`, key,
	); err != nil {
		return fmt.Errorf("delete collection %s: %w", key, err)
	}
	return nil
}
