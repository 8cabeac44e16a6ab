package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document has no text")
	ErrMissingNameColumn = errors.New("csv is missing the Name column")
	ErrEmptyCompletion   = errors.New("empty completion content")
)
