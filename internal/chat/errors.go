package chat

import "errors"

// Sentinel kinds for assistant errors.
var (
	ErrEmptyQuestion  = errors.New("question text is required")
	ErrNothingToIndex = errors.New("no profiles to index")
	ErrNoSnapshot     = errors.New("no index snapshot")
)
