package metrics

import (
	"runtime"
	"time"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordConversion records a finished conversion. Graph gauges are only
// updated when the conversion succeeded.
func (r *Registry) RecordConversion(err error, duration time.Duration, triples, nodes, edges, untyped int) {
	if err != nil {
		r.ConversionsTotal.WithLabelValues(StatusError).Inc()
		return
	}
	r.ConversionsTotal.WithLabelValues(StatusSuccess).Inc()
	r.ConversionDuration.Observe(duration.Seconds())
	r.TriplesConverted.Add(float64(triples))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.UntypedNodes.Set(float64(untyped))
}

// RecordFocus records a focus extraction and the size of its result
func (r *Registry) RecordFocus(err error, duration time.Duration, triples int) {
	if err != nil {
		r.FocusTotal.WithLabelValues(StatusError).Inc()
		return
	}
	r.FocusTotal.WithLabelValues(StatusSuccess).Inc()
	r.FocusDuration.Observe(duration.Seconds())
	r.FocusTriples.Observe(float64(triples))
}

// RecordRecompute records a view model recomputation
func (r *Registry) RecordRecompute(err error, duration time.Duration, visibleNodes, visibleEdges int) {
	if err != nil {
		r.RecomputesTotal.WithLabelValues(StatusError).Inc()
		return
	}
	r.RecomputesTotal.WithLabelValues(StatusSuccess).Inc()
	r.RecomputeDuration.Observe(duration.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.VisibleNodes.Set(float64(visibleNodes))
	r.VisibleEdges.Set(float64(visibleEdges))
}

// RecordPaletteExhausted counts a refused view computation
func (r *Registry) RecordPaletteExhausted() {
	r.PaletteExhausted.Inc()
}

// UpdateSystemMetrics refreshes process gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
}

// OrDefault returns r, or the default registry when r is nil
func OrDefault(r *Registry) *Registry {
	if r == nil {
		return DefaultRegistry()
	}
	return r
}
