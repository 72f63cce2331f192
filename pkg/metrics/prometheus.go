// Package metrics provides Prometheus metrics for the engiv indicator
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engiv service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Computation metrics
	computationRuns     prometheus.Counter
	computationDuration prometheus.Histogram
	indicatorNoData     *prometheus.CounterVec
	indicatorErrors     *prometheus.CounterVec
	indicatorDuration   prometheus.Histogram

	// Snapshot metrics
	snapshotReplaces prometheus.Counter
	snapshotRecords  prometheus.Gauge

	// Import metrics
	importsAccepted  prometheus.Counter
	importsRejected  prometheus.Counter
	importsDuplicate prometheus.Counter

	// Worker metrics
	workerCount prometheus.Gauge
	jobLatency  prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "engiv",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.computationRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computation_runs_total",
		Help:      "Total number of full indicator computation passes",
	})
	m.computationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computation_duration_ms",
		Help:      "Duration of a full computation pass in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.indicatorNoData = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "indicator_no_data_total",
		Help:      "Yearly indicator evaluations that yielded NoData",
	}, []string{"indicator"})
	m.indicatorErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "indicator_errors_total",
		Help:      "Yearly indicator evaluations that failed",
	}, []string{"indicator"})
	m.indicatorDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "indicator_duration_ms",
		Help:      "Duration of one indicator's period evaluation in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotReplaces = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_replaces_total",
		Help:      "Total number of snapshot replacements",
	})
	m.snapshotRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_records",
		Help:      "Number of records in the current snapshot",
	})

	m.importsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imports_accepted_total",
		Help:      "Accepted record imports",
	})
	m.importsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imports_rejected_total",
		Help:      "Imports rejected at the record store boundary",
	})
	m.importsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imports_duplicate_total",
		Help:      "Imports skipped because their batch id was already seen",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of computation workers",
	})
	m.jobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_latency_ms",
		Help:      "Latency of one indicator job in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// RecordComputation increments the computation pass counter.
func RecordComputation() {
	globalManager.computationRuns.Inc()
}

// RecordComputationDuration records a full pass duration in milliseconds.
func RecordComputationDuration(durationMs float64) {
	globalManager.computationDuration.Observe(durationMs)
}

// RecordIndicatorNoData counts a NoData yearly evaluation.
func RecordIndicatorNoData(indicator string) {
	globalManager.indicatorNoData.WithLabelValues(indicator).Inc()
}

// RecordIndicatorError counts a failed yearly evaluation.
func RecordIndicatorError(indicator string) {
	globalManager.indicatorErrors.WithLabelValues(indicator).Inc()
}

// RecordIndicatorDuration records one indicator's evaluation duration.
func RecordIndicatorDuration(durationMs float64) {
	globalManager.indicatorDuration.Observe(durationMs)
}

// RecordSnapshotReplace increments the snapshot replacement counter.
func RecordSnapshotReplace() {
	globalManager.snapshotReplaces.Inc()
}

// UpdateSnapshotRecords sets the current snapshot record count.
func UpdateSnapshotRecords(count int) {
	globalManager.snapshotRecords.Set(float64(count))
}

// RecordImportAccepted increments the accepted imports counter.
func RecordImportAccepted() {
	globalManager.importsAccepted.Inc()
}

// RecordImportRejected increments the rejected imports counter.
func RecordImportRejected() {
	globalManager.importsRejected.Inc()
}

// RecordImportDuplicate increments the duplicate imports counter.
func RecordImportDuplicate() {
	globalManager.importsDuplicate.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordJobLatency records one indicator job's latency in milliseconds.
func RecordJobLatency(latencyMs float64) {
	globalManager.jobLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
