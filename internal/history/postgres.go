package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS predictions (
	id            UUID PRIMARY KEY,
	created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	model         TEXT,
	neighbourhood TEXT,
	room_type     TEXT,
	accommodates  NUMERIC(6,2),
	price         NUMERIC(10,2) NOT NULL,
	input         JSONB         NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created_at    ON predictions (created_at);
CREATE INDEX IF NOT EXISTS idx_predictions_neighbourhood ON predictions (neighbourhood);
`

const insertSQL = `
INSERT INTO predictions (id, created_at, model, neighbourhood, room_type, accommodates, price, input)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

// PostgresStore stores predictions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to connStr, pings the database and creates the
// predictions table if needed.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.CreateTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("Connected to PostgreSQL")
	return s, nil
}

// CreateTable creates the predictions table and its indexes.
func (s *PostgresStore) CreateTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create predictions table: %w", err)
	}
	return nil
}

// Save inserts rec. A record whose id already exists is ignored.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, insertSQL,
		rec.ID, rec.CreatedAt, rec.Model, rec.Neighbourhood, rec.RoomType,
		rec.Accommodates, rec.Price, string(rec.Input))
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
