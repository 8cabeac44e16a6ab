package extract

import (
	"github.com/okian/classmatch/pkg/logger"
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithCompleter sets the chat-completions client used for extraction.
// Without one the extractor always returns fallback profiles.
func WithCompleter(c Completer) Option {
	return func(e *Extractor) {
		e.completer = c
	}
}

// WithLogger sets a custom logger for the extractor.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}
