package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Conversion Metrics
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	TriplesConverted   prometheus.Counter
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	UntypedNodes       prometheus.Gauge

	// Focus Metrics
	FocusTotal    *prometheus.CounterVec
	FocusTriples  prometheus.Histogram
	FocusDuration prometheus.Histogram

	// View Metrics
	RecomputesTotal   *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	VisibleNodes      prometheus.Gauge
	VisibleEdges      prometheus.Gauge
	PaletteExhausted  prometheus.Counter

	// System Metrics
	UptimeSeconds prometheus.Gauge
	GoRoutines    prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initConversionMetrics()
	r.initFocusMetrics()
	r.initViewMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
