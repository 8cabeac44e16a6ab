package logger

import (
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	log := Get().Named("test")
	log.Info(ctx, "info message", String("key", "value"), Int("count", 2))
	log.Debug(ctx, "debug message", Float64("score", 7.5))
	log.Warn(ctx, "warn message", Any("payload", map[string]int{"a": 1}))
	log.Error(ctx, "error message", Error(nil))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) returned error: %v", level, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
