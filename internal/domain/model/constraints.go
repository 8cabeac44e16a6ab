package model

import "fmt"

// Default class size bounds.
const (
	DefaultMaxClassSize = 25
	DefaultMinClassSize = 10
)

// Constraints bounds the size of every class produced by the balancer.
type Constraints struct {
	MaxClassSize int `json:"max_class_size" yaml:"max_class_size" koanf:"max_class_size"`
	MinClassSize int `json:"min_class_size" yaml:"min_class_size" koanf:"min_class_size"`
}

// DefaultConstraints returns the documented defaults (25 / 10).
func DefaultConstraints() Constraints {
	return Constraints{
		MaxClassSize: DefaultMaxClassSize,
		MinClassSize: DefaultMinClassSize,
	}
}

// Validate rejects non-positive sizes and inverted bounds. Silent coercion
// of bad constraints has previously produced unbounded classes, so the
// engine fails fast instead.
func (c Constraints) Validate() error {
	if c.MaxClassSize <= 0 {
		return fmt.Errorf("%w: max_class_size must be positive, got %d", ErrInvalidConstraints, c.MaxClassSize)
	}
	if c.MinClassSize <= 0 {
		return fmt.Errorf("%w: min_class_size must be positive, got %d", ErrInvalidConstraints, c.MinClassSize)
	}
	if c.MinClassSize > c.MaxClassSize {
		return fmt.Errorf("%w: min_class_size %d exceeds max_class_size %d",
			ErrInvalidConstraints, c.MinClassSize, c.MaxClassSize)
	}
	return nil
}

// Clamp bounds a proposed class size to [MinClassSize, MaxClassSize].
func (c Constraints) Clamp(size int) int {
	if size < c.MinClassSize {
		size = c.MinClassSize
	}
	if size > c.MaxClassSize {
		size = c.MaxClassSize
	}
	return size
}
