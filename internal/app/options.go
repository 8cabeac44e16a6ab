package service

import (
	"context"

	"github.com/okian/classmatch/internal/adapters/extract"
	"github.com/okian/classmatch/internal/chat"
	"github.com/okian/classmatch/internal/domain/engine"
	"github.com/okian/classmatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of extraction worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the extraction job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the document digest cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxRuns sets how many recent match runs are retained.
func WithMaxRuns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}

// WithEngineOptions configures the matching engine, typically with a scorer
// carrying the configured weights.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithExtractionCompleter sets the chat-completions client used for profile
// extraction. Without one extraction falls back to deterministic profiles.
func WithExtractionCompleter(c extract.Completer) Option {
	return func(s *Service) {
		s.extractCompleter = c
	}
}

// WithChatCompleter sets the chat-completions client used by the assistant.
func WithChatCompleter(c chat.Completer) Option {
	return func(s *Service) {
		s.chatCompleter = c
	}
}

// WithChatTopK sets how many summaries ground each chat answer.
func WithChatTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.chatTopK = k
		}
	}
}

// WithSnapshotDir enables chat index persistence under dir.
func WithSnapshotDir(dir string) Option {
	return func(s *Service) {
		s.snapshotDir = dir
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewChatCompleter adapts the OpenRouter client to the assistant's message
// type.
func NewChatCompleter(client *extract.Client) chat.Completer {
	return chatCompleterAdapter{client: client}
}

type chatCompleterAdapter struct {
	client *extract.Client
}

func (a chatCompleterAdapter) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	converted := make([]extract.Message, len(messages))
	for i, m := range messages {
		converted[i] = extract.Message{Role: m.Role, Content: m.Content}
	}
	return a.client.Complete(ctx, converted)
}
