// Package postgres persists scan records in a Postgres table, for
// deployments that prefer a relational store over a document database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/aviscan-ph/aviscan/internal/model"
	"github.com/aviscan-ph/aviscan/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id           BIGSERIAL PRIMARY KEY,
	user_id      TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL,
	prediction   TEXT NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	municipality TEXT NOT NULL DEFAULT '',
	barangay     TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS scans_created_at_idx ON scans (created_at DESC, id DESC);
`

// Store is a Postgres-backed ScanStore.
type Store struct {
	db *sql.DB
}

// New opens a connection pool, verifies connectivity, and ensures the scans
// table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres store: ensure schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save inserts a new record; id and created_at come back from the database.
func (s *Store) Save(ctx context.Context, p store.SaveParams) (model.ScanRecord, error) {
	const q = `
insert into scans (user_id, image_url, prediction, confidence, latitude, longitude, municipality, barangay, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, now())
returning id, created_at`

	var (
		id        int64
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx, q,
		p.UserID, p.ImageURL, p.Prediction, p.Confidence,
		p.Latitude, p.Longitude, p.Municipality, p.Barangay,
	).Scan(&id, &createdAt)
	if err != nil {
		return model.ScanRecord{}, fmt.Errorf("%w: insert: %v", store.ErrUnavailable, err)
	}

	return model.ScanRecord{
		ID:           strconv.FormatInt(id, 10),
		UserID:       p.UserID,
		ImageURL:     p.ImageURL,
		Prediction:   p.Prediction,
		Confidence:   p.Confidence,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Municipality: p.Municipality,
		Barangay:     p.Barangay,
		CreatedAt:    createdAt.UTC(),
	}, nil
}

// ListRecent returns records newest-first, id descending within equal
// timestamps.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.ScanRecord, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	const q = `
select id, user_id, image_url, prediction, confidence, latitude, longitude, municipality, barangay, created_at
from scans
order by created_at desc, id desc
limit $1`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	records := make([]model.ScanRecord, 0, limit)
	for rows.Next() {
		var (
			id  int64
			rec model.ScanRecord
		)
		if err := rows.Scan(&id, &rec.UserID, &rec.ImageURL, &rec.Prediction,
			&rec.Confidence, &rec.Latitude, &rec.Longitude,
			&rec.Municipality, &rec.Barangay, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres store: scan row: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", store.ErrUnavailable, err)
	}
	return records, nil
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
