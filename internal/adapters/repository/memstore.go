package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxSnapshots = 16
)

// MemStore implements Store with an in-memory snapshot map and an
// atomic active pointer. Snapshots are treated as immutable values:
// the store never touches their record slices, so handing the same
// snapshot to concurrent readers is safe.
type MemStore struct {
	mu           sync.RWMutex
	snapshots    map[string]model.Snapshot
	order        []string // insertion order, oldest first
	activeID     string
	maxSnapshots int
}

// NewMemStore creates an in-memory snapshot store with configuration
// options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		snapshots:    make(map[string]model.Snapshot),
		maxSnapshots: defaultMaxSnapshots,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a snapshot, evicting the oldest inactive snapshot when the
// retention bound is exceeded.
func (s *MemStore) Put(ctx context.Context, snap model.Snapshot) error {
	if snap.ID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots[snap.ID]; !exists {
		s.order = append(s.order, snap.ID)
	}
	s.snapshots[snap.ID] = snap

	for s.maxSnapshots > 0 && len(s.snapshots) > s.maxSnapshots {
		if !s.evictOldestLocked() {
			break
		}
	}

	metrics.UpdateDatasetCount(len(s.snapshots))
	return nil
}

// evictOldestLocked drops the oldest snapshot that is not active.
// Returns false when nothing can be evicted.
func (s *MemStore) evictOldestLocked() bool {
	for i, id := range s.order {
		if id == s.activeID {
			continue
		}
		delete(s.snapshots, id)
		s.order = append(s.order[:i], s.order[i+1:]...)
		return true
	}
	return false
}

// Get returns the snapshot with the given id.
func (s *MemStore) Get(ctx context.Context, id string) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("dataset %q: %w", id, ErrNotFound)
	}
	return snap, nil
}

// SetActive swaps the active snapshot. Readers that already hold the
// previous snapshot keep a consistent view; new readers see the new one.
func (s *MemStore) SetActive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("dataset %q: %w", id, ErrNotFound)
	}
	s.activeID = id
	return nil
}

// Active returns the currently active snapshot.
func (s *MemStore) Active(ctx context.Context) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == "" {
		return model.Snapshot{}, ErrNoActiveDataset
	}
	snap, ok := s.snapshots[s.activeID]
	if !ok {
		return model.Snapshot{}, ErrNoActiveDataset
	}
	return snap, nil
}

// IDs lists stored snapshot ids, oldest first.
func (s *MemStore) IDs(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Count returns the number of stored snapshots.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
