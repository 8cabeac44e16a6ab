package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("profile not found")
	ErrRunNotFound = errors.New("match run not found")
)
