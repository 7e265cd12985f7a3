// Package dedupe tracks uploaded dataset fingerprints so re-uploading
// identical content returns the existing dataset instead of re-ingesting
// it.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default registry configuration constants.
const (
	defaultMaxSize = 1024
)

// Registry maps content fingerprints to dataset ids.
type Registry interface {
	// Lookup returns the dataset id previously recorded for a
	// fingerprint, if any.
	Lookup(ctx context.Context, fingerprint string) (string, bool)

	// Record associates a fingerprint with a dataset id.
	Record(ctx context.Context, fingerprint, datasetID string)

	// Forget removes a fingerprint, e.g. after a failed ingestion, so
	// the same content can be submitted again.
	Forget(ctx context.Context, fingerprint string)

	// Size returns the number of tracked fingerprints.
	Size() int64
}

// inMemoryRegistry implements Registry with a bounded map evicting the
// oldest fingerprints first.
type inMemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]string
	order   []string // insertion order, oldest first
	maxSize int
	size    atomic.Int64
}

// NewInMemoryRegistry creates a fingerprint registry with configuration
// options.
func NewInMemoryRegistry(opts ...Option) Registry {
	r := &inMemoryRegistry{
		entries: make(map[string]string),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the dataset id recorded for a fingerprint.
func (r *inMemoryRegistry) Lookup(ctx context.Context, fingerprint string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.entries[fingerprint]
	return id, ok
}

// Record associates a fingerprint with a dataset id, evicting the
// oldest entry when the bound is reached.
func (r *inMemoryRegistry) Record(ctx context.Context, fingerprint, datasetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[fingerprint]; !exists {
		if r.maxSize > 0 && len(r.entries) >= r.maxSize {
			oldest := r.order[0]
			r.order = r.order[1:]
			delete(r.entries, oldest)
		}
		r.order = append(r.order, fingerprint)
	}
	r.entries[fingerprint] = datasetID
	r.size.Store(int64(len(r.entries)))
}

// Forget removes a fingerprint from the registry.
func (r *inMemoryRegistry) Forget(ctx context.Context, fingerprint string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[fingerprint]; !exists {
		return
	}
	delete(r.entries, fingerprint)
	for i, fp := range r.order {
		if fp == fingerprint {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.size.Store(int64(len(r.entries)))
}

// Size returns the number of tracked fingerprints.
func (r *inMemoryRegistry) Size() int64 {
	return r.size.Load()
}
