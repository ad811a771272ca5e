// Package metrics provides Prometheus metrics for the SHINNY pool service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the SHINNY service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingest metrics
	snapshotsIngested prometheus.Counter
	tradesRecorded    prometheus.Counter
	rostersUpdated    prometheus.Counter

	// Recompute pipeline metrics
	recomputeTotal     prometheus.Counter
	recomputeErrors    prometheus.Counter
	recomputeCoalesced prometheus.Counter
	recomputeDuration  prometheus.Histogram

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount prometheus.Gauge

	// Pool state gauges
	participants prometheus.Gauge
	snapshotDays prometheus.Gauge

	// Read-side metrics
	standingsServed prometheus.Counter

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
		namespace:        "shinny",
		subsystem:        "pool",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.snapshotsIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshots_ingested_total",
		Help: "Daily snapshots accepted into the store.",
	})
	m.tradesRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "trades_recorded_total",
		Help: "Accepted trades recorded.",
	})
	m.rostersUpdated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rosters_updated_total",
		Help: "Roster composition updates applied.",
	})

	m.recomputeTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recompute_total",
		Help: "Standings recompute jobs completed.",
	})
	m.recomputeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recompute_errors_total",
		Help: "Standings recompute jobs that failed.",
	})
	m.recomputeCoalesced = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recompute_coalesced_total",
		Help: "Recompute requests coalesced into an in-flight job.",
	})
	m.recomputeDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "recompute_duration_ms",
		Help:    "Standings recompute duration in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Recompute jobs currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Recompute queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Recompute queue fill ratio.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Recompute jobs rejected at enqueue.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Recompute workers running.",
	})

	m.participants = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "participants",
		Help: "Participants with a roster composition.",
	})
	m.snapshotDays = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_days",
		Help: "Distinct days with a stored snapshot.",
	})

	m.standingsServed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "standings_served_total",
		Help: "Standings responses served.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the registry all global metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global helpers mirroring the manager's metrics.

func RecordSnapshotIngested() { globalManager.snapshotsIngested.Inc() }
func RecordTradeRecorded()    { globalManager.tradesRecorded.Inc() }
func RecordRosterUpdated()    { globalManager.rostersUpdated.Inc() }

func RecordRecompute()                    { globalManager.recomputeTotal.Inc() }
func RecordRecomputeError()               { globalManager.recomputeErrors.Inc() }
func RecordRecomputeCoalesced()           { globalManager.recomputeCoalesced.Inc() }
func RecordRecomputeDuration(ms float64)  { globalManager.recomputeDuration.Observe(ms) }

func UpdateQueueSize(n int)           { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)       { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(f float64) { globalManager.queueUtilization.Set(f) }
func RecordQueueEnqueueError()        { globalManager.queueEnqueueErrors.Inc() }

func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

func UpdateParticipants(n int) { globalManager.participants.Set(float64(n)) }
func UpdateSnapshotDays(n int) { globalManager.snapshotDays.Set(float64(n)) }

func RecordStandingsServed() { globalManager.standingsServed.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
