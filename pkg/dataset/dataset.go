// Package dataset ties a loaded triple store to its converted graph, the
// viewer that projects it, and focus extraction over it. Hosts (CLI, TUI,
// HTTP) share one Dataset.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-rdfgraph/pkg/config"
	"github.com/dd0wney/cluso-rdfgraph/pkg/convert"
	"github.com/dd0wney/cluso-rdfgraph/pkg/export"
	"github.com/dd0wney/cluso-rdfgraph/pkg/focus"
	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/pubsub"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// ErrNotLoaded is returned by operations that need a loaded store
var ErrNotLoaded = errors.New("no dataset loaded")

// Snapshot change topics
const (
	TopicLoaded    pubsub.Topic = "loaded"
	TopicSelection pubsub.Topic = "selection"
)

// Config configures a Dataset
type Config struct {
	Table            *namespace.Table
	LinkAttributes   bool
	AllowLargeGraphs bool
	Workers          int
	Logger           logging.Logger
	Metrics          *metrics.Registry
}

// FromConfig maps file configuration onto a dataset configuration
func FromConfig(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) *Config {
	return &Config{
		Table:            cfg.Table(),
		LinkAttributes:   cfg.Convert.LinkAttributes,
		AllowLargeGraphs: cfg.View.AllowLargeGraphs,
		Workers:          cfg.Focus.Workers,
		Logger:           logger,
		Metrics:          reg,
	}
}

// generation is one loaded store with its conversion and latest snapshot.
// It is replaced whole on every load and selection.
type generation struct {
	store   *rdf.Store
	session *convert.Session
	snap    *visibility.Snapshot
}

// Dataset is safe for concurrent use. Loads and selections are serialised
// and publish in the order they are applied; readers see either the previous
// or the new dataset, never a mix.
type Dataset struct {
	current   atomic.Pointer[generation]
	writeMu   sync.Mutex
	table     *namespace.Table
	converter *convert.Converter
	extractor *focus.Extractor
	viewer    *visibility.Viewer
	events    *pubsub.Broker[*visibility.Snapshot]
	logger    logging.Logger
}

// New creates an empty dataset. Close releases its focus workers.
func New(cfg *Config) (*Dataset, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	extractor, err := focus.NewExtractor(&focus.ExtractorConfig{
		Workers: cfg.Workers,
		Logger:  logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start focus workers: %w", err)
	}
	return &Dataset{
		table: cfg.Table,
		converter: convert.New(&convert.Config{
			Table:          cfg.Table,
			Logger:         logger,
			Metrics:        cfg.Metrics,
			LinkAttributes: cfg.LinkAttributes,
		}),
		extractor: extractor,
		viewer: visibility.NewViewer(&visibility.ViewerConfig{
			Options: visibility.Options{
				AllowLargeGraphs: cfg.AllowLargeGraphs,
				Labels:           visibility.TableLabeler{Table: cfg.Table},
			},
			Logger:  logger,
			Metrics: cfg.Metrics,
		}),
		events: pubsub.NewBroker[*visibility.Snapshot](0),
		logger: logger.With(logging.Component("dataset")),
	}, nil
}

// Close stops the focus workers and ends every subscription
func (d *Dataset) Close() {
	d.extractor.Close()
	d.events.Shutdown()
}

// Subscribe delivers every snapshot published on topics (all topics when
// none are given) until ctx is done. Slow subscribers miss snapshots.
func (d *Dataset) Subscribe(ctx context.Context, topics ...pubsub.Topic) (*pubsub.Subscription[*visibility.Snapshot], error) {
	if len(topics) == 0 {
		topics = []pubsub.Topic{TopicLoaded, TopicSelection}
	}
	return d.events.Subscribe(ctx, topics...)
}

// Load converts store and makes it current, selecting every type and
// predicate. A styling failure is returned but the data stays loaded; a
// conversion failure leaves the previous dataset current.
func (d *Dataset) Load(store *rdf.Store) (*visibility.Snapshot, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	session, err := d.converter.Run(store)
	if err != nil {
		return nil, err
	}
	snap, err := d.viewer.Load(session.Graph, session)
	if err != nil {
		d.logger.Warn("dataset loaded without view", logging.Session(session.ID), logging.Error(err))
	}
	d.current.Store(&generation{store: store, session: session, snap: snap})
	d.events.Publish(TopicLoaded, snap)
	return snap, err
}

// Loaded reports whether a store has been loaded
func (d *Dataset) Loaded() bool {
	return d.current.Load() != nil
}

// Store returns the current store
func (d *Dataset) Store() (*rdf.Store, error) {
	gen := d.current.Load()
	if gen == nil {
		return nil, ErrNotLoaded
	}
	return gen.store, nil
}

// Session returns the conversion session of the current store
func (d *Dataset) Session() (*convert.Session, error) {
	gen := d.current.Load()
	if gen == nil {
		return nil, ErrNotLoaded
	}
	return gen.session, nil
}

// Table returns the namespace table used for labels
func (d *Dataset) Table() *namespace.Table {
	return d.table
}

// Snapshot returns the snapshot of the current store, or the empty viewer
// snapshot before the first load
func (d *Dataset) Snapshot() *visibility.Snapshot {
	if gen := d.current.Load(); gen != nil {
		return gen.snap
	}
	return d.viewer.Current()
}

// Apply changes the selection
func (d *Dataset) Apply(ev visibility.SelectionEvent) (*visibility.Snapshot, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	snap, err := d.viewer.Apply(ev)
	if err != nil {
		return snap, err
	}
	if gen := d.current.Load(); gen != nil {
		next := *gen
		next.snap = snap
		d.current.Store(&next)
	}
	d.events.Publish(TopicSelection, snap)
	return snap, nil
}

// Document renders the current snapshot for a cytoscape renderer
func (d *Dataset) Document(labelled bool) (*export.Document, error) {
	snap := d.Snapshot()
	return export.Build(snap.State.Graph, snap.View, export.Options{
		Labels:   snap.State.Options.Labels,
		Labelled: labelled,
	})
}

// Focus converts the one-hop neighbourhood of seeds in the current store
func (d *Dataset) Focus(ctx context.Context, seeds []string) (*convert.Session, error) {
	store, err := d.Store()
	if err != nil {
		return nil, err
	}
	sub, err := d.extractor.Extract(ctx, store, seeds)
	if err != nil {
		return nil, err
	}
	return d.converter.Run(sub)
}

// FocusMany converts one neighbourhood per seed set, in order
func (d *Dataset) FocusMany(ctx context.Context, seedSets [][]string) ([]*convert.Session, error) {
	store, err := d.Store()
	if err != nil {
		return nil, err
	}
	subs, err := d.extractor.FocusMany(ctx, store, seedSets)
	if err != nil {
		return nil, err
	}
	out := make([]*convert.Session, len(subs))
	for i, sub := range subs {
		if out[i], err = d.converter.Run(sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FocusDocument renders the focus subgraph of seeds with every type and
// predicate selected. The session is returned whenever conversion succeeded.
func (d *Dataset) FocusDocument(ctx context.Context, seeds []string, labelled bool) (*convert.Session, *export.Document, error) {
	session, err := d.Focus(ctx, seeds)
	if err != nil {
		return nil, nil, err
	}
	g := session.Graph
	opts := d.Snapshot().State.Options
	opts.Labels = session
	vm, err := visibility.Compute(g, visibility.SelectAll(g), opts)
	if err != nil {
		return session, nil, err
	}
	doc, err := export.Build(g, vm, export.Options{Labels: session, Labelled: labelled})
	if err != nil {
		return session, nil, err
	}
	return session, doc, nil
}
