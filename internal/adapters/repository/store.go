// Package repository defines the dataset snapshot store interface and
// errors.
package repository

import (
	"context"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// Store provides access to versioned, immutable dataset snapshots. One
// snapshot may be active at a time; concurrent readers always observe
// either the previous or the next active snapshot, never a partial one.
type Store interface {
	// Put stores a snapshot under its id. Storing does not activate it.
	Put(ctx context.Context, snap model.Snapshot) error

	// Get returns the snapshot with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Snapshot, error)

	// SetActive atomically makes the snapshot with the given id the one
	// served to analytics calls.
	SetActive(ctx context.Context, id string) error

	// Active returns the currently active snapshot.
	// Returns ErrNoActiveDataset when nothing has been activated yet.
	Active(ctx context.Context) (model.Snapshot, error)

	// IDs lists stored snapshot ids, oldest first.
	IDs(ctx context.Context) []string

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) int
}
