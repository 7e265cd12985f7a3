package dedupe

// Option applies a configuration option to the in-memory registry.
type Option func(*inMemoryRegistry)

// WithMaxSize bounds the number of fingerprints kept in memory. Zero or
// negative disables the bound.
func WithMaxSize(n int) Option {
	return func(r *inMemoryRegistry) {
		r.maxSize = n
	}
}
