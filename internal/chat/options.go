package chat

import (
	"github.com/okian/classmatch/pkg/logger"
)

// Option applies a configuration option to the Assistant.
type Option func(*Assistant)

// WithCompleter sets the chat-completions client used for answers.
// Without one the assistant answers locally from retrieved summaries.
func WithCompleter(c Completer) Option {
	return func(a *Assistant) {
		a.completer = c
	}
}

// WithTopK sets how many summaries ground each answer.
func WithTopK(k int) Option {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithSnapshotDir enables index persistence under dir.
func WithSnapshotDir(dir string) Option {
	return func(a *Assistant) {
		a.dir = dir
	}
}

// WithLogger sets a custom logger for the assistant.
func WithLogger(l logger.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}
