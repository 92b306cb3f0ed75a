package convert

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/google/uuid"
)

// Config configures a Converter
type Config struct {
	Table   *namespace.Table  // used for session labels; may be nil
	Logger  logging.Logger    // defaults to a no-op logger
	Metrics *metrics.Registry // nil disables metrics
	// LinkAttributes also keeps resource-valued predicates as node
	// attributes. They always become edges.
	LinkAttributes bool
}

// Converter turns triple stores into property graphs. It holds no
// per-conversion state and is safe for concurrent use.
type Converter struct {
	config *Config
	logger logging.Logger
}

// New creates a converter
func New(config *Config) *Converter {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Converter{
		config: config,
		logger: logger.With(logging.Component("converter")),
	}
}

// Convert converts a store with a default converter
func Convert(store *rdf.Store) (*propgraph.Graph, error) {
	return New(nil).Convert(store)
}

// Convert converts a store into a property graph
func (c *Converter) Convert(store *rdf.Store) (*propgraph.Graph, error) {
	s, err := c.Run(store)
	if err != nil {
		return nil, err
	}
	return s.Graph, nil
}

// ConvertTriples validates triples and converts them. A malformed triple
// aborts the whole conversion before anything is built.
func (c *Converter) ConvertTriples(triples []rdf.Triple) (*propgraph.Graph, error) {
	store, err := rdf.NewStore(triples...)
	if err != nil {
		c.record(err, 0, 0, nil)
		c.logger.Error("conversion rejected", logging.Error(err))
		return nil, err
	}
	return c.Convert(store)
}

// Run converts a store in a new session and returns the session
func (c *Converter) Run(store *rdf.Store) (*Session, error) {
	s := newSession(uuid.NewString(), c.config.Table)
	log := c.logger.With(logging.Session(s.ID))
	log.Debug("conversion started", logging.Triples(store.Len()))

	g, err := c.build(s, store)
	s.Duration = time.Since(s.Started)
	s.Triples = store.Len()
	if err != nil {
		c.record(err, s.Duration, s.Triples, nil)
		log.Error("conversion failed", logging.Error(err), logging.Latency(s.Duration))
		return nil, err
	}
	s.Graph = g

	stats := g.GetStatistics()
	c.record(nil, s.Duration, s.Triples, &stats)
	log.Info("conversion finished",
		logging.Triples(s.Triples),
		logging.Nodes(stats.NodeCount),
		logging.Edges(stats.EdgeCount),
		logging.Int("untyped", stats.UntypedNodes),
		logging.Latency(s.Duration),
	)
	return s, nil
}

func (c *Converter) build(s *Session, store *rdf.Store) (*propgraph.Graph, error) {
	b := propgraph.NewBuilder()

	for _, subject := range store.Subjects() {
		n := aggregate(subject, store.BySubject(subject), c.config.LinkAttributes)
		if err := b.AddNode(n); err != nil {
			return nil, fmt.Errorf("subject %s: %w", subject, err)
		}
		s.register(n)
	}

	var edges []propgraph.Edge
	store.Each(func(t rdf.Triple) bool {
		if t.IsType() || !t.Object.IsResource() {
			return true
		}
		target := t.Object.ID()
		if !b.HasNode(target) {
			n := propgraph.NewNode(t.Object, nil, nil)
			_ = b.AddNode(n)
			s.register(n)
		}
		edges = append(edges, propgraph.Edge{
			Source:    t.Subject.ID(),
			Target:    target,
			Predicate: t.Predicate.Value,
		})
		return true
	})

	for _, e := range edges {
		if err := b.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func (c *Converter) record(err error, d time.Duration, triples int, stats *propgraph.Statistics) {
	if c.config.Metrics == nil {
		return
	}
	if stats == nil {
		stats = &propgraph.Statistics{}
	}
	c.config.Metrics.RecordConversion(err, d, triples, stats.NodeCount, stats.EdgeCount, stats.UntypedNodes)
}
