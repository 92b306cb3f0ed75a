package visibility

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
)

// SelectionEvent is the full type and predicate selection sent by a host
// whenever the user changes either selector.
type SelectionEvent struct {
	Types      []string `json:"types"`
	Predicates []string `json:"predicates"`
}

// State is everything a view model is derived from
type State struct {
	Graph     *propgraph.Graph
	Selection Selection
	Options   Options
}

// With returns a copy of the state with the event's selection
func (s State) With(ev SelectionEvent) State {
	s.Selection = NewSelection(ev.Types, ev.Predicates)
	return s
}

// Recompute derives the view model that results from applying ev to state.
// It has no side effects.
func Recompute(state State, ev SelectionEvent) (*ViewModel, error) {
	next := state.With(ev)
	return Compute(next.Graph, next.Selection, next.Options)
}

// Snapshot is one consistent generation of the viewer: a graph, its
// selector contents, the current selection and the view derived from them.
type Snapshot struct {
	State      State
	View       *ViewModel // nil when styling failed
	Types      []Count
	Predicates []Count
	Loaded     time.Time
}

// ViewerConfig configures a Viewer
type ViewerConfig struct {
	Options Options
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Viewer holds the current snapshot for hosts that serve or display it.
// Readers never block and always see a complete snapshot; writers are
// serialised and publish by swapping a pointer.
type Viewer struct {
	current atomic.Pointer[Snapshot]
	writeMu sync.Mutex
	options Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewViewer creates a viewer holding an empty graph
func NewViewer(config *ViewerConfig) *Viewer {
	if config == nil {
		config = &ViewerConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	v := &Viewer{
		options: config.Options,
		logger:  logger.With(logging.Component("viewer")),
		metrics: config.Metrics,
	}
	empty := propgraph.Empty()
	v.current.Store(&Snapshot{
		State: State{Graph: empty, Selection: SelectAll(empty), Options: config.Options},
		View:  &ViewModel{},
	})
	return v
}

// Current returns the current snapshot
func (v *Viewer) Current() *Snapshot {
	return v.current.Load()
}

// Load replaces the graph and selects every type and predicate. labels
// overrides the configured Labeler when non-nil. If styling fails the graph
// is still published, with a nil View, and the error is returned.
func (v *Viewer) Load(g *propgraph.Graph, labels Labeler) (*Snapshot, error) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	opts := v.options
	if labels != nil {
		opts.Labels = labels
	}
	types, diags := TypeCounts(g, opts.Labels)
	for _, d := range diags {
		v.logger.Debug("untyped node", logging.IRI(d.Node))
	}

	state := State{Graph: g, Selection: SelectAll(g), Options: opts}
	view, err := v.compute(state)
	snap := &Snapshot{
		State:      state,
		View:       view,
		Types:      types,
		Predicates: PredicateCounts(g, opts.Labels),
		Loaded:     time.Now(),
	}
	v.current.Store(snap)

	v.logger.Info("graph loaded",
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Int("types", len(types)),
		logging.Int("untyped", len(diags)),
	)
	return snap, err
}

// Apply recomputes the view for a new selection and publishes it. On error
// the previous snapshot stays current.
func (v *Viewer) Apply(ev SelectionEvent) (*Snapshot, error) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	prev := v.current.Load()
	state := prev.State.With(ev)
	view, err := v.compute(state)
	if err != nil {
		return prev, err
	}
	next := *prev
	next.State = state
	next.View = view
	v.current.Store(&next)

	v.logger.Debug("selection applied",
		logging.Int("types", len(ev.Types)),
		logging.Int("predicates", len(ev.Predicates)),
		logging.Int("visible_nodes", view.VisibleNodes()),
		logging.Int("visible_edges", view.VisibleEdges()),
	)
	return &next, nil
}

func (v *Viewer) compute(state State) (*ViewModel, error) {
	start := time.Now()
	view, err := Compute(state.Graph, state.Selection, state.Options)
	elapsed := time.Since(start)

	if err != nil {
		v.logger.Warn("view not computed", logging.Error(err))
	}
	if v.metrics == nil {
		return view, err
	}
	if errors.Is(err, ErrPaletteExhausted) {
		v.metrics.RecordPaletteExhausted()
	}
	if err != nil {
		v.metrics.RecordRecompute(err, elapsed, 0, 0)
		return nil, err
	}
	v.metrics.RecordRecompute(nil, elapsed, view.VisibleNodes(), view.VisibleEdges())
	return view, nil
}
