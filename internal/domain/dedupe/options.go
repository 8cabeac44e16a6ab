// Package dedupe tracks content digests of already-extracted documents.
package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of digests to keep in memory.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
