// Package dedupe tracks content digests of already-extracted documents so a
// re-uploaded document reuses its stored profile instead of paying for a
// second LLM call.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen document digests.
type Deduper interface {
	// SeenAndRecord atomically checks if digest was seen and records it if
	// not. Returns true if the digest was already seen, false if it was
	// newly recorded. Thread-safe and atomic.
	SeenAndRecord(ctx context.Context, digest string) bool

	// Unrecord removes a digest from the seen set, allowing the document
	// to be extracted again. Used when an extraction that was marked as
	// seen ultimately failed.
	Unrecord(ctx context.Context, digest string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded FIFO window: once the
// window is full, the oldest digests fall out and their documents would be
// re-extracted. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	window  []string
	cursor  int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 10_000, // default window
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.window = make([]string, d.maxSize)
	}
	return d
}

// SeenAndRecord atomically checks if digest was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, digest string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[digest]; exists {
		return true
	}

	if d.maxSize > 0 {
		if evicted := d.window[d.cursor]; evicted != "" {
			delete(d.seen, evicted)
			d.size.Add(-1)
		}
		d.window[d.cursor] = digest
		d.cursor = (d.cursor + 1) % d.maxSize
	}
	d.seen[digest] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes a digest from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, digest string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[digest]; !exists {
		return
	}
	delete(d.seen, digest)
	for i, w := range d.window {
		if w == digest {
			d.window[i] = ""
			break
		}
	}
	d.size.Add(-1)
}

// Size returns the current number of tracked digests.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
