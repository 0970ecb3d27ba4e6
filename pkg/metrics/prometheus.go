// Package metrics provides Prometheus metrics for the playbook modeling service.
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

// Run outcomes used as label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Modeling metrics
	modelRuns         *prometheus.CounterVec
	modelRunDuration  *prometheus.HistogramVec
	cohortSize        *prometheus.GaugeVec
	recommendedK      *prometheus.GaugeVec
	silhouette        *prometheus.GaugeVec
	similarityQueries *prometheus.CounterVec
	domainErrors      *prometheus.CounterVec

	// Dataset metrics
	datasetCacheHits   prometheus.Counter
	datasetCacheMisses prometheus.Counter
	datasetLoads       *prometheus.CounterVec
	datasetLoadLatency prometheus.Histogram
	datasetRows        prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh custom
// registry. Call it once at startup, before metrics are served or recorded.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// RefreshInterval is how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// Enabled reports whether the global helpers record anything.
func Enabled() bool {
	return active()
}

func active() bool {
	return globalManager != nil && globalManager.enabled
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "playbook",
		subsystem:        "engine",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.modelRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_runs_total"),
		Help:        "Total number of archetype modeling runs by position class and outcome",
		ConstLabels: labels,
	}, []string{"position", "outcome"})

	m.modelRunDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_run_duration_milliseconds"),
		Help:        "Duration of a full modeling run (sweep, projection, profiles) in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"position"})

	m.cohortSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cohort_size"),
		Help:        "Number of player-seasons in the most recent cohort per position class",
		ConstLabels: labels,
	}, []string{"position"})

	m.recommendedK = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("recommended_k"),
		Help:        "Recommended cluster count of the most recent run per position class",
		ConstLabels: labels,
	}, []string{"position"})

	m.silhouette = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("silhouette"),
		Help:        "Silhouette coefficient at the recommended k of the most recent run",
		ConstLabels: labels,
	}, []string{"position"})

	m.similarityQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("similarity_queries_total"),
		Help:        "Total number of similar-player searches by position class and outcome",
		ConstLabels: labels,
	}, []string{"position", "outcome"})

	m.domainErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("domain_errors_total"),
		Help:        "Recoverable modeling errors by kind (insufficient_data, player_not_found, invalid_k, ...)",
		ConstLabels: labels,
	}, []string{"kind"})

	m.datasetCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_cache_hits_total"),
		Help:        "Dataset cache hits",
		ConstLabels: labels,
	})

	m.datasetCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_cache_misses_total"),
		Help:        "Dataset cache misses (including stale entries)",
		ConstLabels: labels,
	})

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_loads_total"),
		Help:        "Dataset loads from source by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.datasetLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_load_latency_milliseconds"),
		Help:        "Time to load and parse a dataset source in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_rows"),
		Help:        "Rows in the most recently loaded dataset",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_errors_total"),
		Help:        "HTTP error responses by endpoint, method and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordModelRun records a finished modeling run.
func RecordModelRun(position, outcome string, durationMs float64) {
	if !active() {
		return
	}
	globalManager.modelRuns.WithLabelValues(position, outcome).Inc()
	globalManager.modelRunDuration.WithLabelValues(position).Observe(durationMs)
}

// UpdateCohortSize sets the cohort size of the latest run.
func UpdateCohortSize(position string, size int) {
	if !active() {
		return
	}
	globalManager.cohortSize.WithLabelValues(position).Set(float64(size))
}

// UpdateRecommendedK sets the recommended k and its silhouette for the latest run.
func UpdateRecommendedK(position string, k int, silhouette float64) {
	if !active() {
		return
	}
	globalManager.recommendedK.WithLabelValues(position).Set(float64(k))
	globalManager.silhouette.WithLabelValues(position).Set(silhouette)
}

// RecordSimilarityQuery counts a similar-player search.
func RecordSimilarityQuery(position, outcome string) {
	if !active() {
		return
	}
	globalManager.similarityQueries.WithLabelValues(position, outcome).Inc()
}

// RecordDomainError counts a recoverable modeling error by kind.
func RecordDomainError(kind string) {
	if !active() {
		return
	}
	globalManager.domainErrors.WithLabelValues(kind).Inc()
}

// RecordDatasetCacheHit counts a dataset cache hit.
func RecordDatasetCacheHit() {
	if !active() {
		return
	}
	globalManager.datasetCacheHits.Inc()
}

// RecordDatasetCacheMiss counts a dataset cache miss.
func RecordDatasetCacheMiss() {
	if !active() {
		return
	}
	globalManager.datasetCacheMisses.Inc()
}

// RecordDatasetLoad records a dataset load attempt and its latency.
func RecordDatasetLoad(outcome string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.datasetLoads.WithLabelValues(outcome).Inc()
	globalManager.datasetLoadLatency.Observe(latencyMs)
}

// UpdateDatasetRows sets the row count of the loaded dataset.
func UpdateDatasetRows(rows int) {
	if !active() {
		return
	}
	globalManager.datasetRows.Set(float64(rows))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !active() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !active() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !active() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !active() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !active() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !active() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
