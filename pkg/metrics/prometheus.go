// Package metrics provides Prometheus metrics for the SynthOrbit session journal.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event types that get their own label value; anything else is counted as "other"
// so free-form client input cannot blow up label cardinality.
var knownEventTypes = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup table
	"note":       {},
	"hit":        {},
	"spawn_ball": {},
}

// Session end outcomes.
const (
	OutcomeUpdated = "updated"
	OutcomeNoop    = "noop"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Journal metrics
	performersRegistered prometheus.Counter
	sessionsStarted      prometheus.Counter
	sessionsEnded        *prometheus.CounterVec
	eventsAppended       *prometheus.CounterVec
	compositionsSaved    prometheus.Counter
	validationFailures   *prometheus.CounterVec

	// Totals refreshed from the aggregation queries
	totalPerformers   prometheus.Gauge
	totalCompositions prometheus.Gauge
	totalSessions     prometheus.Gauge
	totalEvents       prometheus.Gauge

	// Storage
	storageLatency *prometheus.HistogramVec
	storageErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "synthorbit",
		subsystem:        "journal",
		histogramBuckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	// Disabled managers still hand out working collectors; they just live on a
	// registry nobody scrapes.
	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.performersRegistered = auto.NewCounter(m.counterOpts(
		"performers_registered_total", "Total number of performers registered"))
	m.sessionsStarted = auto.NewCounter(m.counterOpts(
		"sessions_started_total", "Total number of jam sessions opened"))
	m.sessionsEnded = auto.NewCounterVec(m.counterOpts(
		"sessions_ended_total", "Total number of end-session calls by outcome (updated or noop)"),
		[]string{"outcome"})
	m.eventsAppended = auto.NewCounterVec(m.counterOpts(
		"events_appended_total", "Total number of performance events appended by event type"),
		[]string{"event_type"})
	m.compositionsSaved = auto.NewCounter(m.counterOpts(
		"compositions_saved_total", "Total number of compositions saved"))
	m.validationFailures = auto.NewCounterVec(m.counterOpts(
		"validation_failures_total", "Total number of rejected requests by operation"),
		[]string{"op"})

	m.totalPerformers = auto.NewGauge(m.gaugeOpts("performers", "Performers currently stored"))
	m.totalCompositions = auto.NewGauge(m.gaugeOpts("compositions", "Compositions currently stored"))
	m.totalSessions = auto.NewGauge(m.gaugeOpts("sessions", "Jam sessions currently stored"))
	m.totalEvents = auto.NewGauge(m.gaugeOpts("events", "Performance events currently stored"))

	m.storageLatency = auto.NewHistogramVec(m.histogramOpts(
		"storage_latency_milliseconds", "Storage operation latency in milliseconds", m.histogramBuckets),
		[]string{"op"})
	m.storageErrors = auto.NewCounterVec(m.counterOpts(
		"storage_errors_total", "Total number of failed storage operations"),
		[]string{"op"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// EventTypeLabel maps a client event type to a bounded label value.
func EventTypeLabel(eventType string) string {
	t := strings.ToLower(strings.TrimSpace(eventType))
	if _, ok := knownEventTypes[t]; ok {
		return t
	}
	return "other"
}

// RecordPerformerRegistered increments the registered performers counter.
func RecordPerformerRegistered() {
	globalManager.performersRegistered.Inc()
}

// RecordSessionStarted increments the opened sessions counter.
func RecordSessionStarted() {
	globalManager.sessionsStarted.Inc()
}

// RecordSessionEnded counts an end-session call; rowsAffected 0 is a noop.
func RecordSessionEnded(rowsAffected int64) {
	outcome := OutcomeUpdated
	if rowsAffected == 0 {
		outcome = OutcomeNoop
	}
	globalManager.sessionsEnded.WithLabelValues(outcome).Inc()
}

// RecordEventAppended counts one appended performance event.
func RecordEventAppended(eventType string) {
	globalManager.eventsAppended.WithLabelValues(EventTypeLabel(eventType)).Inc()
}

// RecordCompositionSaved increments the saved compositions counter.
func RecordCompositionSaved() {
	globalManager.compositionsSaved.Inc()
}

// RecordValidationFailure counts a rejected call for op.
func RecordValidationFailure(op string) {
	globalManager.validationFailures.WithLabelValues(op).Inc()
}

// UpdateTotals sets the stored-row gauges.
func UpdateTotals(performers, compositions, sessions, events int64) {
	globalManager.totalPerformers.Set(float64(performers))
	globalManager.totalCompositions.Set(float64(compositions))
	globalManager.totalSessions.Set(float64(sessions))
	globalManager.totalEvents.Set(float64(events))
}

// ObserveStorage records the latency of a storage operation started at start,
// and counts it as an error when err is non-nil.
func ObserveStorage(op string, start time.Time, err error) {
	globalManager.storageLatency.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		globalManager.storageErrors.WithLabelValues(op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
