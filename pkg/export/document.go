// Package export renders a property graph and its view model as a
// cytoscape document: elements with data and classes plus a style sheet.
package export

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// ErrNoView is returned when a document is requested for a graph whose view
// could not be computed
var ErrNoView = errors.New("no view model")

// Element is a cytoscape node or edge
type Element struct {
	Group   string         `json:"group"`
	Data    map[string]any `json:"data"`
	Classes string         `json:"classes"`
}

// Document is everything a renderer needs to draw one view
type Document struct {
	Elements []Element `json:"elements"`
	Style    []Style   `json:"style"`
}

// Nodes returns the node elements in graph order
func (d *Document) Nodes() []Element {
	return d.group("nodes")
}

// Edges returns the edge elements in graph order
func (d *Document) Edges() []Element {
	return d.group("edges")
}

func (d *Document) group(name string) []Element {
	var out []Element
	for _, e := range d.Elements {
		if e.Group == name {
			out = append(out, e)
		}
	}
	return out
}

// Options configures Build
type Options struct {
	Labels   visibility.Labeler // shortens predicate keys and display labels
	Labelled bool               // show _label on nodes and edges
}

// Build renders g with the visibility and styling of vm, which must have
// been computed from g.
func Build(g *propgraph.Graph, vm *visibility.ViewModel, opts Options) (*Document, error) {
	if vm == nil {
		return nil, ErrNoView
	}
	if len(vm.Nodes) != g.NodeCount() || len(vm.Edges) != g.EdgeCount() {
		return nil, fmt.Errorf("view has %d nodes and %d edges, graph has %d and %d",
			len(vm.Nodes), len(vm.Edges), g.NodeCount(), g.EdgeCount())
	}
	labels := opts.Labels
	if labels == nil {
		labels = visibility.TableLabeler{}
	}

	doc := &Document{Elements: make([]Element, 0, g.NodeCount()+g.EdgeCount())}
	for i, n := range g.Nodes() {
		doc.Elements = append(doc.Elements, nodeElement(n, vm.Nodes[i], labels))
	}

	pairs := make(map[[2]string]int, g.EdgeCount())
	for _, e := range g.Edges() {
		pairs[pairKey(e)]++
	}
	for i, ev := range vm.Edges {
		doc.Elements = append(doc.Elements, edgeElement(i, ev, pairs[pairKey(ev.Edge)] > 1, labels))
	}

	doc.Style = append(BaseStyles(opts.Labelled), ClassStyles(vm.Styles)...)
	doc.Style = append(doc.Style, InvisibleStyles()...)
	return doc, nil
}

func nodeElement(n *propgraph.Node, nv visibility.NodeView, labels visibility.Labeler) Element {
	data := map[string]any{
		KeyID:        n.IRI(),
		KeyIRI:       n.IRI(),
		KeyTypeClass: nv.Class,
		KeyLabel:     labels.Label(n.IRI()),
	}
	if n.HasTypes() {
		data[KeyType] = n.Types()
	}
	for _, a := range n.Attributes() {
		data[labels.Label(a.Predicate)] = a.Native()
	}
	if label, ok := n.Attribute(rdf.RDFSLabel); ok {
		if v, scalar := label.Scalar(); scalar {
			data[KeyLabel] = v.Value
		}
	}

	classes := ""
	if !nv.Visible {
		classes = ClassInvisible
	}
	return Element{Group: "nodes", Data: data, Classes: classes}
}

func edgeElement(i int, ev visibility.EdgeView, multiple bool, labels visibility.Labeler) Element {
	data := map[string]any{
		KeyID:        fmt.Sprintf("e%d", i),
		KeySource:    ev.Source,
		KeyTarget:    ev.Target,
		KeyPredicate: ev.Predicate,
		KeyLabel:     labels.Label(ev.Predicate),
	}
	classes := ClassInvisible
	if ev.Visible {
		classes = ClassDirected
		if multiple {
			classes += " " + ClassMultipleEdges
		}
	}
	return Element{Group: "edges", Data: data, Classes: classes}
}

// pairKey identifies the unordered node pair an edge connects
func pairKey(e propgraph.Edge) [2]string {
	if e.Source > e.Target {
		return [2]string{e.Target, e.Source}
	}
	return [2]string{e.Source, e.Target}
}
