// Package memory provides an in-process ScanStore used for development mode
// and handler tests. Records live only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aviscan-ph/aviscan/internal/model"
	"github.com/aviscan-ph/aviscan/internal/store"
)

// Store is a mutex-guarded in-memory ScanStore.
type Store struct {
	mu      sync.Mutex
	records []model.ScanRecord
	nextID  int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{nextID: 1}
}

// Save appends a record with a store-assigned ID and UTC timestamp.
func (s *Store) Save(ctx context.Context, p store.SaveParams) (model.ScanRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ScanRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.ScanRecord{
		ID:           fmt.Sprintf("%012d", s.nextID),
		UserID:       p.UserID,
		ImageURL:     p.ImageURL,
		Prediction:   p.Prediction,
		Confidence:   p.Confidence,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Municipality: p.Municipality,
		Barangay:     p.Barangay,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.records = append(s.records, rec)
	return rec, nil
}

// ListRecent returns records newest-first, ID descending within equal
// timestamps.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.ScanRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	s.mu.Lock()
	out := make([]model.ScanRecord, len(s.records))
	copy(out, s.records)
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Close is a no-op.
func (s *Store) Close(ctx context.Context) error { return nil }
