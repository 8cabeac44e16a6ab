package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/classmatch/internal/adapters/extract"
	"github.com/okian/classmatch/internal/adapters/http/api"
	app "github.com/okian/classmatch/internal/app"
	"github.com/okian/classmatch/internal/config"
	"github.com/okian/classmatch/internal/domain/engine"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/internal/domain/scoring"
	"github.com/okian/classmatch/pkg/logger"
	"github.com/okian/classmatch/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 120 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Load a local .env when present so the OpenRouter key can live
	// outside the shell profile. Absence is not an error.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(serviceOptions(ctx, cfg, loggerInstance)...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// serviceOptions translates the loaded configuration into service options.
func serviceOptions(ctx context.Context, cfg *config.Config, log logger.Logger) []app.Option {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxRuns(cfg.MaxRuns),
		app.WithChatTopK(cfg.ChatTopK),
		app.WithEngineOptions(engine.WithScorer(scoring.New(scorerOptions(cfg)...))),
	}

	if cfg.SnapshotDir != "" {
		opts = append(opts, app.WithSnapshotDir(cfg.SnapshotDir))
	}

	if cfg.OpenRouterAPIKey == "" {
		log.Warn(ctx, "no OpenRouter API key configured; extraction and chat run in local fallback mode")
		return opts
	}

	timeout := time.Duration(cfg.RequestTimeoutMS) * time.Millisecond
	extractClient := extract.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.ExtractModel, timeout)
	chatClient := extract.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.ChatModel, timeout)
	opts = append(opts,
		app.WithExtractionCompleter(extractClient),
		app.WithChatCompleter(app.NewChatCompleter(chatClient)),
	)
	return opts
}

// scorerOptions builds the scoring options from configuration.
func scorerOptions(cfg *config.Config) []scoring.Option {
	opts := []scoring.Option{
		scoring.WithHighNeedBoost(cfg.HighNeedThreshold, cfg.HighNeedBoost),
		scoring.WithTextBlendWeight(cfg.TextBlendWeight),
	}
	if len(cfg.DimensionWeights) > 0 {
		weights := make(map[model.Dimension]float64, len(cfg.DimensionWeights))
		for name, w := range cfg.DimensionWeights {
			weights[model.Dimension(name)] = w
		}
		opts = append(opts, scoring.WithDimensionWeights(weights))
	}
	return opts
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// queue gauges from the live service.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerActiveCount(workerCount)
	}
}
