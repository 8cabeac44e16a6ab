// Package metrics provides Prometheus metrics for the classmatch service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the classmatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core Business Metrics - matching engine activity
	matchRuns       prometheus.Counter
	matchErrors     prometheus.Counter
	matchDuration   prometheus.Histogram
	pairsScored     prometheus.Counter
	studentsMatched prometheus.Counter
	classCount      prometheus.Gauge
	classSize       prometheus.Histogram

	// Extraction Metrics - LLM profile extraction
	extractionRequests   prometheus.Counter
	extractionDuplicates prometheus.Counter
	extractionErrors     prometheus.Counter
	extractionLatency    prometheus.Histogram

	// Chat Assistant Metrics
	chatQueries     prometheus.Counter
	chatIndexedDocs prometheus.Gauge
	chatLatency     prometheus.Histogram

	// Queue Metrics - extraction job queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics - extraction workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Repository Metrics
	profilesTotal *prometheus.GaugeVec
	runsStored    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking by component
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "classmatch",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metrics registration is naturally long
	auto := promauto.With(m.registry)

	m.matchRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_runs_total",
		Help:      "Total number of completed matching runs",
	})
	m.matchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_errors_total",
		Help:      "Total number of matching runs that failed",
	})
	m.matchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_duration_milliseconds",
		Help:      "Histogram of end-to-end matching pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.pairsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_scored_total",
		Help:      "Total number of teacher/student pairs scored",
	})
	m.studentsMatched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "students_matched_total",
		Help:      "Total number of students placed into classes",
	})
	m.classCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "class_count",
		Help:      "Number of classes produced by the most recent matching run",
	})
	m.classSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "class_size",
		Help:      "Distribution of final class sizes",
		Buckets:   []float64{1, 5, 10, 15, 20, 25, 30, 40},
	})

	m.extractionRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "extract",
		Name:      "requests_total",
		Help:      "Total number of profile extraction requests",
	})
	m.extractionDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "extract",
		Name:      "duplicates_total",
		Help:      "Total number of duplicate documents served from the profile cache",
	})
	m.extractionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "extract",
		Name:      "errors_total",
		Help:      "Total number of failed profile extractions",
	})
	m.extractionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "extract",
		Name:      "latency_milliseconds",
		Help:      "Histogram of profile extraction latency in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.chatQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "chat",
		Name:      "queries_total",
		Help:      "Total number of chat assistant queries",
	})
	m.chatIndexedDocs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "chat",
		Name:      "indexed_documents",
		Help:      "Number of profile summaries in the chat vector index",
	})
	m.chatLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "chat",
		Name:      "latency_milliseconds",
		Help:      "Histogram of chat answer latency in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "size",
		Help:      "Current size of the extraction job queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "capacity",
		Help:      "Configured capacity of the extraction job queue",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "utilization",
		Help:      "Queue fill ratio between 0 and 1",
	})
	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueue_total",
		Help:      "Total number of jobs enqueued",
	})
	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "dequeue_total",
		Help:      "Total number of jobs dequeued",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueue_errors_total",
		Help:      "Total number of rejected enqueue attempts",
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "active_count",
		Help:      "Number of running extraction workers",
	})
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "processing_latency_milliseconds",
		Help:      "Histogram of per-job worker processing latency in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "errors_total",
		Help:      "Total number of worker processing errors",
	})

	m.profilesTotal = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: "repository",
			Name:      "profiles_total",
			Help:      "Number of stored profiles by kind",
		},
		[]string{"kind"},
	)
	m.runsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "repository",
		Name:      "runs_stored",
		Help:      "Number of match runs retained in memory",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "errors",
			Name:      "by_component_total",
			Help:      "Errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current allocated memory in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// Matching engine helpers.

// RecordMatchRun records a completed matching run and its outcome shape.
func RecordMatchRun(durationMs float64, classCount, studentsMatched int) {
	globalManager.matchRuns.Inc()
	globalManager.matchDuration.Observe(durationMs)
	globalManager.classCount.Set(float64(classCount))
	globalManager.studentsMatched.Add(float64(studentsMatched))
}

// RecordMatchError records a failed matching run.
func RecordMatchError() {
	globalManager.matchErrors.Inc()
}

// RecordPairsScored adds to the scored-pair counter.
func RecordPairsScored(pairs int) {
	globalManager.pairsScored.Add(float64(pairs))
}

// ObserveClassSize records one final class size.
func ObserveClassSize(size int) {
	globalManager.classSize.Observe(float64(size))
}

// Extraction helpers.

func RecordExtractionRequest() { globalManager.extractionRequests.Inc() }
func RecordExtractionDuplicate() { globalManager.extractionDuplicates.Inc() }
func RecordExtractionError() { globalManager.extractionErrors.Inc() }
func RecordExtractionLatency(latencyMs float64) { globalManager.extractionLatency.Observe(latencyMs) }

// Chat helpers.

func RecordChatQuery() { globalManager.chatQueries.Inc() }
func UpdateChatIndexedDocs(count int) { globalManager.chatIndexedDocs.Set(float64(count)) }
func RecordChatLatency(latencyMs float64) { globalManager.chatLatency.Observe(latencyMs) }

// Queue helpers.

func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }
func UpdateQueueUtilization(u float64) { globalManager.queueUtilization.Set(u) }
func RecordQueueEnqueue() { globalManager.queueEnqueueRate.Inc() }
func RecordQueueDequeue() { globalManager.queueDequeueRate.Inc() }
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// Worker helpers.

func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }
func RecordWorkerError() { globalManager.workerErrorRate.Inc() }

// RecordWorkerProcessingLatency records per-job worker latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// Repository helpers.

// UpdateProfileCount sets the stored-profile gauge for a kind ("teacher"/"student").
func UpdateProfileCount(kind string, count int) {
	globalManager.profilesTotal.WithLabelValues(kind).Set(float64(count))
}

// UpdateRunsStored sets the retained-run gauge.
func UpdateRunsStored(count int) {
	globalManager.runsStored.Set(float64(count))
}

// HTTP helpers.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System helpers.

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// GetRegistry returns the custom registry used for all service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
