package main

import (
	"context"
	"testing"

	"github.com/okian/classmatch/internal/config"
	"github.com/okian/classmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestServiceOptions(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		Convey("When no API key is configured", func() {
			opts := serviceOptions(ctx, cfg, logger.Get())

			Convey("Then the service runs without completers", func() {
				// Logger, workers, queue, dedupe, runs, topK, engine.
				So(opts, ShouldHaveLength, 7)
			})
		})

		Convey("When an API key and snapshot dir are configured", func() {
			cfg.OpenRouterAPIKey = "sk-test"
			cfg.SnapshotDir = t.TempDir()
			opts := serviceOptions(ctx, cfg, logger.Get())

			Convey("Then completer and snapshot options are added", func() {
				So(opts, ShouldHaveLength, 10)
			})
		})
	})
}

func TestScorerOptions(t *testing.T) {
	Convey("Given a configuration with weight overrides", t, func() {
		cfg := config.New()
		cfg.DimensionWeights = map[string]float64{"patience": 2.0}

		Convey("Then boost, blend and weight options are produced", func() {
			So(scorerOptions(cfg), ShouldHaveLength, 3)
		})
	})

	Convey("Given a configuration without overrides", t, func() {
		cfg := config.New()

		Convey("Then only boost and blend options are produced", func() {
			So(scorerOptions(cfg), ShouldHaveLength, 2)
		})
	})
}
