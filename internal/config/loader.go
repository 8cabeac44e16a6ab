package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/classmatch/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CLASSMATCH_CONFIG is set
//  3. env (prefix CLASSMATCH_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv("CLASSMATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CLASSMATCH_ADDR, CLASSMATCH_QUEUE_SIZE, ...
	// Map env keys like CLASSMATCH_QUEUE_SIZE -> queue_size (flat keys);
	// underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("CLASSMATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "classmatch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if err := cfg.Constraints().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.TextBlendWeight < 0 || cfg.TextBlendWeight > 1 {
		return fmt.Errorf("%w: text_blend_weight must be in [0,1]", ErrInvalidConfig)
	}
	for name := range cfg.DimensionWeights {
		if !knownDimension(name) {
			return fmt.Errorf("%w: unknown dimension %q in dimension_weights", ErrInvalidConfig, name)
		}
	}
	return nil
}

func knownDimension(name string) bool {
	for _, d := range model.Dimensions() {
		if string(d) == name {
			return true
		}
	}
	return false
}
