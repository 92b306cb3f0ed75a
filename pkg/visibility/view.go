// Package visibility projects a property graph onto a view model according
// to the selected node types and edge predicates.
package visibility

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
)

// MultiType is the label of nodes without exactly one type
const MultiType = "multi-type"

// Labeler shortens IRIs for display
type Labeler interface {
	Label(iri string) string
}

// TableLabeler shortens with a namespace table
type TableLabeler struct {
	Table *namespace.Table
}

// Label implements Labeler
func (l TableLabeler) Label(iri string) string {
	return namespace.Shorten(iri, l.Table)
}

func orDefaultLabeler(l Labeler) Labeler {
	if l == nil {
		return TableLabeler{}
	}
	return l
}

// CSSClass makes a label usable as a style class name
func CSSClass(label string) string {
	return strings.ReplaceAll(label, ":", "-")
}

// Selection is the set of visible types and predicates
type Selection struct {
	Types      map[string]struct{}
	Predicates map[string]struct{}
}

// NewSelection builds a selection from IRI lists
func NewSelection(types, predicates []string) Selection {
	return Selection{Types: toSet(types), Predicates: toSet(predicates)}
}

// SelectAll selects every type and predicate of g
func SelectAll(g *propgraph.Graph) Selection {
	return NewSelection(g.Types(), g.Predicates())
}

// HasType reports whether the type is selected
func (s Selection) HasType(iri string) bool {
	_, ok := s.Types[iri]
	return ok
}

// HasPredicate reports whether the predicate is selected
func (s Selection) HasPredicate(iri string) bool {
	_, ok := s.Predicates[iri]
	return ok
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, i := range items {
		set[i] = struct{}{}
	}
	return set
}

// Options configures Compute
type Options struct {
	AllowLargeGraphs bool
	Palette          []Color // defaults to DefaultPalette
	Labels           Labeler // defaults to unshortened IRIs
}

// NodeView is a node as the renderer sees it
type NodeView struct {
	IRI     string
	Visible bool
	Type    string // shortened type token, or MultiType
	Class   string // Type made CSS safe
}

// EdgeView is an edge as the renderer sees it
type EdgeView struct {
	propgraph.Edge
	Visible bool
}

// ViewModel is the derived visibility and styling of a graph for one selection
type ViewModel struct {
	Nodes       []NodeView
	Edges       []EdgeView
	Styles      []ClassColor
	Diagnostics []Diagnostic
}

// VisibleNodes counts visible nodes
func (v *ViewModel) VisibleNodes() int {
	n := 0
	for _, nv := range v.Nodes {
		if nv.Visible {
			n++
		}
	}
	return n
}

// VisibleEdges counts visible edges
func (v *ViewModel) VisibleEdges() int {
	n := 0
	for _, ev := range v.Edges {
		if ev.Visible {
			n++
		}
	}
	return n
}

// Compute derives the view model of g for a selection.
//
// A node is visible when at least one of its types is selected, so untyped
// nodes are never visible; each one is reported as an ErrMissingType
// diagnostic. An edge is visible when its predicate is selected and both its
// endpoints are visible. Styling needs one colour per distinct type plus one
// for MultiType; see AssignColors for what happens when the palette is short.
func Compute(g *propgraph.Graph, sel Selection, opts Options) (*ViewModel, error) {
	labels := orDefaultLabeler(opts.Labels)
	palette := opts.Palette
	if palette == nil {
		palette = DefaultPalette
	}

	types := g.Types()
	classes := make([]string, 0, len(types)+1)
	for _, t := range types {
		classes = append(classes, CSSClass(labels.Label(t)))
	}
	classes = append(classes, MultiType)

	styles, err := AssignColors(classes, palette, opts.AllowLargeGraphs)
	if err != nil {
		return nil, fmt.Errorf("styling %d types: %w", len(types), err)
	}

	vm := &ViewModel{Styles: styles}
	visible := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		nv := NodeView{IRI: n.IRI(), Type: MultiType, Class: MultiType}
		nodeTypes := n.Types()
		if len(nodeTypes) == 0 {
			vm.Diagnostics = append(vm.Diagnostics, Diagnostic{Node: n.IRI(), Err: ErrMissingType})
		}
		if len(nodeTypes) == 1 {
			nv.Type = labels.Label(nodeTypes[0])
			nv.Class = CSSClass(nv.Type)
		}
		for _, t := range nodeTypes {
			if sel.HasType(t) {
				nv.Visible = true
				break
			}
		}
		visible[nv.IRI] = nv.Visible
		vm.Nodes = append(vm.Nodes, nv)
	}

	for _, e := range g.Edges() {
		vm.Edges = append(vm.Edges, EdgeView{
			Edge:    e,
			Visible: sel.HasPredicate(e.Predicate) && visible[e.Source] && visible[e.Target],
		})
	}
	return vm, nil
}
