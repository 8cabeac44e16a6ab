// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layered loading happens in Load: defaults -> optional YAML file -> env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"

	"github.com/okian/classmatch/internal/domain/model"
)

// Default configuration constants.
const (
	defaultAddr              = ":9080"
	defaultQueueSize         = 1024
	defaultDedupeSize        = 10_000
	defaultMaxRuns           = 50
	defaultChatTopK          = 5
	defaultRequestTimeoutMS  = 60_000
	defaultHighNeedThreshold = 7.0
	defaultHighNeedBoost     = 1.25
	defaultTextBlendWeight   = 0.2
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultExtractModel      = "openai/gpt-4o"
	defaultChatModel         = "openai/gpt-4o-mini"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory extraction job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of extraction workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the document-digest cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRuns caps how many match runs the repository retains.
	MaxRuns int `koanf:"max_runs"`

	// MaxClassSize and MinClassSize are the default balancer bounds used
	// when a match request carries no constraints of its own.
	MaxClassSize int `koanf:"max_class_size"`
	MinClassSize int `koanf:"min_class_size"`

	// DimensionWeights overrides individual scoring weights by dimension
	// name (subject, patience, innovation, structure, communication,
	// special_needs, engagement, behavior).
	DimensionWeights map[string]float64 `koanf:"dimension_weights"`

	// HighNeedThreshold and HighNeedBoost tune the acute-need emphasis.
	HighNeedThreshold float64 `koanf:"high_need_threshold"`
	HighNeedBoost     float64 `koanf:"high_need_boost"`

	// TextBlendWeight is the share of a pair score taken from the
	// archetype/ideal-teacher text overlap. Zero disables the blend.
	TextBlendWeight float64 `koanf:"text_blend_weight"`

	// OpenRouterAPIKey and OpenRouterBaseURL configure the LLM client.
	// An empty key switches extraction and chat to deterministic local
	// fallbacks.
	OpenRouterAPIKey  string `koanf:"openrouter_api_key"`
	OpenRouterBaseURL string `koanf:"openrouter_base_url"`

	// ExtractModel and ChatModel pick the upstream models.
	ExtractModel string `koanf:"extract_model"`
	ChatModel    string `koanf:"chat_model"`

	// RequestTimeoutMS bounds a single upstream LLM call.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// ChatTopK is the number of context documents retrieved per query.
	ChatTopK int `koanf:"chat_top_k"`

	// SnapshotDir, when set, enables chat index snapshots on disk.
	SnapshotDir string `koanf:"snapshot_dir"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              defaultAddr,
		QueueSize:         defaultQueueSize,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        defaultDedupeSize,
		MaxRuns:           defaultMaxRuns,
		MaxClassSize:      model.DefaultMaxClassSize,
		MinClassSize:      model.DefaultMinClassSize,
		DimensionWeights:  map[string]float64{},
		HighNeedThreshold: defaultHighNeedThreshold,
		HighNeedBoost:     defaultHighNeedBoost,
		TextBlendWeight:   defaultTextBlendWeight,
		OpenRouterBaseURL: defaultOpenRouterBaseURL,
		ExtractModel:      defaultExtractModel,
		ChatModel:         defaultChatModel,
		RequestTimeoutMS:  defaultRequestTimeoutMS,
		ChatTopK:          defaultChatTopK,
	}
}

// Constraints returns the configured default class size bounds.
func (c *Config) Constraints() model.Constraints {
	return model.Constraints{
		MaxClassSize: c.MaxClassSize,
		MinClassSize: c.MinClassSize,
	}
}
