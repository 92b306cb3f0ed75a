package visibility

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dd0wney/cluso-rdfgraph/pkg/convert"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf/rdftest"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = rdftest.EX

var exLabels = TableLabeler{Table: namespace.NewTable(namespace.Binding{Prefix: "ex", Namespace: ex})}

// sample: a(Person) -knows-> b(Person, Agent) -near-> c(Place) -knows-> d(untyped)
func sampleGraph(t *testing.T) *propgraph.Graph {
	t.Helper()
	typ := rdftest.Type
	iri := func(s string) rdf.Term { return rdf.IRI(ex + s) }
	g, err := convert.Convert(rdftest.MustStore(
		rdf.NewTriple(iri("a"), typ, iri("Person")),
		rdf.NewTriple(iri("b"), typ, iri("Person")),
		rdf.NewTriple(iri("b"), typ, iri("Agent")),
		rdf.NewTriple(iri("c"), typ, iri("Place")),
		rdf.NewTriple(iri("a"), iri("knows"), iri("b")),
		rdf.NewTriple(iri("b"), iri("near"), iri("c")),
		rdf.NewTriple(iri("c"), iri("knows"), iri("d")),
	))
	require.NoError(t, err)
	return g
}

func nodeView(t *testing.T, vm *ViewModel, local string) NodeView {
	t.Helper()
	for _, n := range vm.Nodes {
		if n.IRI == ex+local {
			return n
		}
	}
	t.Fatalf("node %s not in view", local)
	return NodeView{}
}

func TestComputeVisibility(t *testing.T) {
	g := sampleGraph(t)

	tests := []struct {
		name         string
		types        []string
		predicates   []string
		visibleNodes []string
		visibleEdges int
	}{
		{"everything", []string{ex + "Person", ex + "Agent", ex + "Place"}, []string{ex + "knows", ex + "near"}, []string{"a", "b", "c"}, 2},
		{"nothing", nil, nil, nil, 0},
		{"one of several types is enough", []string{ex + "Agent"}, []string{ex + "knows"}, []string{"b"}, 0},
		{"edge needs its predicate", []string{ex + "Person", ex + "Place"}, []string{ex + "knows"}, []string{"a", "b", "c"}, 1},
		{"edge needs both endpoints", []string{ex + "Person"}, []string{ex + "knows", ex + "near"}, []string{"a", "b"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, err := Compute(g, NewSelection(tt.types, tt.predicates), Options{Labels: exLabels})
			require.NoError(t, err)

			var visible []string
			for _, n := range vm.Nodes {
				if n.Visible {
					visible = append(visible, n.IRI[len(ex):])
				}
			}
			assert.Equal(t, tt.visibleNodes, visible)
			assert.Equal(t, tt.visibleEdges, vm.VisibleEdges())
		})
	}
}

func TestUntypedNodesAreNeverVisible(t *testing.T) {
	g := sampleGraph(t)
	vm, err := Compute(g, SelectAll(g), Options{})
	require.NoError(t, err)

	d := nodeView(t, vm, "d")
	assert.False(t, d.Visible)
	assert.Equal(t, MultiType, d.Type)

	require.Len(t, vm.Diagnostics, 1)
	assert.Equal(t, ex+"d", vm.Diagnostics[0].Node)
	assert.True(t, errors.Is(vm.Diagnostics[0], ErrMissingType))
	assert.Equal(t, 2, vm.VisibleEdges(), "c -knows-> d is hidden with d")
}

func TestTypeLabels(t *testing.T) {
	g := sampleGraph(t)
	vm, err := Compute(g, SelectAll(g), Options{Labels: exLabels})
	require.NoError(t, err)

	a := nodeView(t, vm, "a")
	assert.Equal(t, "ex:Person", a.Type)
	assert.Equal(t, "ex-Person", a.Class)

	b := nodeView(t, vm, "b")
	assert.Equal(t, MultiType, b.Type, "two types")
	assert.Equal(t, MultiType, b.Class)

	var classes []string
	for _, s := range vm.Styles {
		classes = append(classes, s.Class)
	}
	assert.Equal(t, []string{"ex-Person", "ex-Agent", "ex-Place", MultiType}, classes)
	assert.Equal(t, "rgb(47,79,79)", vm.Styles[0].Color.CSS())
}

func manyTypes(t *testing.T, n int) *propgraph.Graph {
	t.Helper()
	b := rdf.NewBuilder()
	for i := 0; i < n; i++ {
		b.Add(rdf.NewTriple(rdf.IRI(fmt.Sprintf("%sn%d", ex, i)), rdftest.Type, rdf.IRI(fmt.Sprintf("%sT%d", ex, i))))
	}
	store, err := b.Build()
	require.NoError(t, err)
	g, err := convert.Convert(store)
	require.NoError(t, err)
	return g
}

func TestPaletteCapacity(t *testing.T) {
	fits := manyTypes(t, len(DefaultPalette)-1)
	_, err := Compute(fits, SelectAll(fits), Options{})
	require.NoError(t, err, "29 types plus multi-type fill the palette exactly")

	tooMany := manyTypes(t, len(DefaultPalette))
	_, err = Compute(tooMany, SelectAll(tooMany), Options{})
	assert.True(t, errors.Is(err, ErrPaletteExhausted))

	vm, err := Compute(tooMany, SelectAll(tooMany), Options{AllowLargeGraphs: true})
	require.NoError(t, err)
	require.Len(t, vm.Styles, len(DefaultPalette)+1)
	assert.Equal(t, Fallback, vm.Styles[len(DefaultPalette)].Color)
	assert.Equal(t, DefaultPalette[len(DefaultPalette)-1], vm.Styles[len(DefaultPalette)-1].Color)
}

func TestCounts(t *testing.T) {
	g := sampleGraph(t)

	types, diags := TypeCounts(g, exLabels)
	assert.Equal(t, []string{ex + "Person", ex + "Agent", ex + "Place"}, IRIs(types))
	assert.Equal(t, 2, types[0].Count)
	assert.Equal(t, "ex:Person  [2]", types[0].Description())
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Error(), ex+"d")

	preds := PredicateCounts(g, nil)
	assert.Equal(t, []string{ex + "knows", ex + "near"}, IRIs(preds))
	assert.Equal(t, []int{2, 1}, []int{preds[0].Count, preds[1].Count})
	assert.Equal(t, ex+"near", preds[1].Label, "no table keeps IRIs")
}

func TestRecomputeIsPure(t *testing.T) {
	g := sampleGraph(t)
	state := State{Graph: g, Selection: SelectAll(g), Options: Options{Labels: exLabels}}

	vm, err := Recompute(state, SelectionEvent{Types: []string{ex + "Place"}})
	require.NoError(t, err)
	assert.Equal(t, 1, vm.VisibleNodes())
	assert.Equal(t, 3, len(state.Selection.Types), "input state untouched")

	again, err := Recompute(state, SelectionEvent{Types: []string{ex + "Place"}})
	require.NoError(t, err)
	assert.Equal(t, vm, again)
}

func TestVisibilityMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pick := func(items []string, mask []bool) []string {
		var out []string
		for i, it := range items {
			if i < len(mask) && mask[i] {
				out = append(out, it)
			}
		}
		return out
	}

	properties.Property("shrinking the selection never reveals more", prop.ForAll(
		func(triples []rdf.Triple, outer, inner []bool) bool {
			g, err := convert.Convert(rdftest.MustStore(triples...))
			if err != nil {
				return false
			}
			types, preds := g.Types(), g.Predicates()
			all := append(append([]string{}, types...), preds...)

			bigMask := outer
			smallMask := make([]bool, len(outer))
			for i := range outer {
				smallMask[i] = outer[i] && i < len(inner) && inner[i]
			}
			big := pick(all, bigMask)
			small := pick(all, smallMask)

			vmBig, err1 := Compute(g, NewSelection(big, big), Options{})
			vmSmall, err2 := Compute(g, NewSelection(small, small), Options{})
			if err1 != nil || err2 != nil {
				return false
			}
			return vmSmall.VisibleNodes() <= vmBig.VisibleNodes() &&
				vmSmall.VisibleEdges() <= vmBig.VisibleEdges()
		},
		rdftest.GenTriples(),
		gen.SliceOfN(8, gen.Bool()),
		gen.SliceOfN(8, gen.Bool()),
	))

	properties.TestingRun(t)
}

func TestViewerLoadAndApply(t *testing.T) {
	reg := metrics.NewRegistry()
	v := NewViewer(&ViewerConfig{Metrics: reg})
	assert.Zero(t, v.Current().State.Graph.NodeCount())

	g := sampleGraph(t)
	snap, err := v.Load(g, exLabels)
	require.NoError(t, err)
	assert.Same(t, snap, v.Current())
	assert.Equal(t, 3, snap.View.VisibleNodes(), "load selects everything")
	assert.Len(t, snap.Types, 3)
	assert.Len(t, snap.Predicates, 2)

	next, err := v.Apply(SelectionEvent{Types: []string{ex + "Person"}, Predicates: []string{ex + "knows"}})
	require.NoError(t, err)
	assert.Equal(t, 2, next.View.VisibleNodes())
	assert.Equal(t, 1, next.View.VisibleEdges())
	assert.Len(t, next.Types, 3, "selector contents survive selection changes")
	assert.Equal(t, 3, snap.View.VisibleNodes(), "published snapshots are immutable")

	var m dto.Metric
	require.NoError(t, reg.VisibleNodes.Write(&m))
	assert.Equal(t, 2.0, m.Gauge.GetValue())
}

func TestViewerPaletteFailureKeepsGraph(t *testing.T) {
	reg := metrics.NewRegistry()
	v := NewViewer(&ViewerConfig{Metrics: reg})

	g := manyTypes(t, len(DefaultPalette))
	snap, err := v.Load(g, nil)
	require.ErrorIs(t, err, ErrPaletteExhausted)
	assert.Nil(t, snap.View)
	assert.Same(t, g, v.Current().State.Graph)

	prev := v.Current()
	_, err = v.Apply(SelectionEvent{})
	require.ErrorIs(t, err, ErrPaletteExhausted)
	assert.Same(t, prev, v.Current())

	var m dto.Metric
	require.NoError(t, reg.PaletteExhausted.Write(&m))
	assert.Equal(t, 2.0, m.Counter.GetValue())
}

func TestViewerConcurrentReaders(t *testing.T) {
	v := NewViewer(nil)
	g := sampleGraph(t)
	_, err := v.Load(g, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := v.Current()
				if snap.View != nil && len(snap.View.Nodes) != snap.State.Graph.NodeCount() {
					t.Error("torn snapshot")
					return
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		_, _ = v.Apply(SelectionEvent{Types: []string{ex + "Person"}})
		_, _ = v.Apply(SelectionEvent{Types: g.Types(), Predicates: g.Predicates()})
	}
	wg.Wait()
}
