package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sizeBuckets = []float64{10, 100, 1000, 10000, 100000, 1000000}

func (r *Registry) initConversionMetrics() {
	r.ConversionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rdfgraph_conversions_total",
			Help: "Total number of RDF to property graph conversions",
		},
		[]string{"status"},
	)

	r.ConversionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rdfgraph_conversion_duration_seconds",
			Help:    "Conversion duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.TriplesConverted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rdfgraph_triples_converted_total",
			Help: "Total number of triples consumed by successful conversions",
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rdfgraph_graph_nodes",
			Help: "Number of nodes in the most recently converted graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rdfgraph_graph_edges",
			Help: "Number of edges in the most recently converted graph",
		},
	)

	r.UntypedNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rdfgraph_graph_untyped_nodes",
			Help: "Number of nodes without an rdf:type in the most recently converted graph",
		},
	)
}

func (r *Registry) initFocusMetrics() {
	r.FocusTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rdfgraph_focus_total",
			Help: "Total number of focus subgraph extractions",
		},
		[]string{"status"},
	)

	r.FocusTriples = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rdfgraph_focus_triples",
			Help:    "Number of triples in each extracted focus subgraph",
			Buckets: sizeBuckets,
		},
	)

	r.FocusDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rdfgraph_focus_duration_seconds",
			Help:    "Focus extraction duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)
}

func (r *Registry) initViewMetrics() {
	r.RecomputesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rdfgraph_view_recomputes_total",
			Help: "Total number of view model recomputations",
		},
		[]string{"status"},
	)

	r.RecomputeDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rdfgraph_view_recompute_duration_seconds",
			Help:    "View model recomputation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.VisibleNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rdfgraph_view_visible_nodes",
			Help: "Number of visible nodes in the current view model",
		},
	)

	r.VisibleEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rdfgraph_view_visible_edges",
			Help: "Number of visible edges in the current view model",
		},
	)

	r.PaletteExhausted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rdfgraph_palette_exhausted_total",
			Help: "Total number of view computations refused because the graph has more types than colours",
		},
	)
}
