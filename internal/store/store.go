package store

import (
	"context"
	"errors"

	"github.com/aviscan-ph/aviscan/internal/model"
)

// ErrUnavailable indicates the record store could not be reached.
var ErrUnavailable = errors.New("store: unavailable")

// DefaultListLimit bounds ListRecent when the caller passes no limit.
const DefaultListLimit = 100

// SaveParams are the caller-supplied fields of a scan record. ID and
// CreatedAt are always assigned by the store, never trusted from input.
type SaveParams struct {
	UserID       string
	ImageURL     string
	Prediction   string
	Confidence   float64
	Latitude     float64
	Longitude    float64
	Municipality string
	Barangay     string
}

// ScanStore persists scan records. Save is append-only: records are never
// updated. Implementations must propagate save failures to the caller: a
// request whose record was not persisted has not succeeded.
type ScanStore interface {
	// Save persists a new record, stamping CreatedAt server-side, and
	// returns the stored record including its assigned ID.
	Save(ctx context.Context, p SaveParams) (model.ScanRecord, error)

	// ListRecent returns up to limit records in descending CreatedAt order,
	// ties broken by descending ID so the ordering is deterministic.
	// limit <= 0 means DefaultListLimit.
	ListRecent(ctx context.Context, limit int) ([]model.ScanRecord, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
