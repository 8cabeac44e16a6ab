package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrInvalidConstraints = errors.New("invalid class size constraints")
)
