// Package repository defines the profile and match-run store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxRuns sets how many recent match runs are retained.
func WithMaxRuns(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}
