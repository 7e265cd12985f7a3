package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxSnapshots bounds how many snapshots are retained. The active
// snapshot is never evicted. Zero or negative disables the bound.
func WithMaxSnapshots(n int) Option {
	return func(s *MemStore) {
		s.maxSnapshots = n
	}
}
