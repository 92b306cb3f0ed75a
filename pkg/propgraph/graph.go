package propgraph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrDuplicateNode = errors.New("duplicate node")
	ErrDanglingEdge  = errors.New("edge endpoint is not a node")
)

// Graph is an immutable property graph. Node and edge order is the order in
// which they were added, which makes conversions reproducible.
type Graph struct {
	nodes     []*Node
	nodeIndex map[string]int

	edges   []Edge
	edgeSet map[Edge]struct{}

	// Indexes for fast lookups
	outgoing         map[string][]int // node IRI -> edge positions
	incoming         map[string][]int // node IRI -> edge positions
	nodesByType      map[string][]int // type IRI -> node positions
	edgesByPredicate map[string][]int // predicate IRI -> edge positions
	types            []string         // distinct types, first appearance
	predicates       []string         // distinct edge predicates, first appearance
}

// Builder assembles a Graph. It is not safe for concurrent use.
type Builder struct {
	g *Graph
}

// NewBuilder creates an empty graph builder
func NewBuilder() *Builder {
	return &Builder{g: &Graph{
		nodeIndex:        make(map[string]int),
		edgeSet:          make(map[Edge]struct{}),
		outgoing:         make(map[string][]int),
		incoming:         make(map[string][]int),
		nodesByType:      make(map[string][]int),
		edgesByPredicate: make(map[string][]int),
	}}
}

// HasNode reports whether a node with the identifier was added
func (b *Builder) HasNode(iri string) bool {
	_, ok := b.g.nodeIndex[iri]
	return ok
}

// AddNode adds a node. Node identifiers are exclusive keys.
func (b *Builder) AddNode(n *Node) error {
	iri := n.IRI()
	if _, exists := b.g.nodeIndex[iri]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, iri)
	}
	pos := len(b.g.nodes)
	b.g.nodeIndex[iri] = pos
	b.g.nodes = append(b.g.nodes, n)

	for _, t := range n.types {
		if _, seen := b.g.nodesByType[t]; !seen {
			b.g.types = append(b.g.types, t)
		}
		b.g.nodesByType[t] = append(b.g.nodesByType[t], pos)
	}
	return nil
}

// AddEdge adds an edge between two existing nodes. An identical
// (source, target, predicate) edge collapses into the existing one.
func (b *Builder) AddEdge(e Edge) error {
	if !b.HasNode(e.Source) {
		return fmt.Errorf("%w: source %s", ErrDanglingEdge, e.Source)
	}
	if !b.HasNode(e.Target) {
		return fmt.Errorf("%w: target %s", ErrDanglingEdge, e.Target)
	}
	if _, dup := b.g.edgeSet[e]; dup {
		return nil
	}
	pos := len(b.g.edges)
	b.g.edges = append(b.g.edges, e)
	b.g.edgeSet[e] = struct{}{}
	b.g.outgoing[e.Source] = append(b.g.outgoing[e.Source], pos)
	b.g.incoming[e.Target] = append(b.g.incoming[e.Target], pos)
	if _, seen := b.g.edgesByPredicate[e.Predicate]; !seen {
		b.g.predicates = append(b.g.predicates, e.Predicate)
	}
	b.g.edgesByPredicate[e.Predicate] = append(b.g.edgesByPredicate[e.Predicate], pos)
	return nil
}

// Build returns the graph. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	g := b.g
	b.g = nil
	return g
}

// Empty returns a graph with no nodes or edges
func Empty() *Graph {
	return NewBuilder().Build()
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Node returns the node with the given identifier
func (g *Graph) Node(iri string) (*Node, bool) {
	i, ok := g.nodeIndex[iri]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// HasEdge reports whether the edge exists
func (g *Graph) HasEdge(e Edge) bool {
	_, ok := g.edgeSet[e]
	return ok
}

// OutgoingEdges returns the edges whose source is iri
func (g *Graph) OutgoingEdges(iri string) []Edge {
	return g.edgesAt(g.outgoing[iri])
}

// IncomingEdges returns the edges whose target is iri
func (g *Graph) IncomingEdges(iri string) []Edge {
	return g.edgesAt(g.incoming[iri])
}

// EdgesWithPredicate returns the edges labeled with the predicate
func (g *Graph) EdgesWithPredicate(predicate string) []Edge {
	return g.edgesAt(g.edgesByPredicate[predicate])
}

// NodesOfType returns the nodes carrying the type among their rdf:type values
func (g *Graph) NodesOfType(typeIRI string) []*Node {
	idx := g.nodesByType[typeIRI]
	out := make([]*Node, len(idx))
	for i, j := range idx {
		out[i] = g.nodes[j]
	}
	return out
}

// Types returns the distinct node types in first-appearance order
func (g *Graph) Types() []string {
	return append([]string(nil), g.types...)
}

// Predicates returns the distinct edge predicates in first-appearance order
func (g *Graph) Predicates() []string {
	return append([]string(nil), g.predicates...)
}

// GetStatistics summarises the graph
func (g *Graph) GetStatistics() Statistics {
	untyped := 0
	for _, n := range g.nodes {
		if !n.HasTypes() {
			untyped++
		}
	}
	return Statistics{
		NodeCount:      len(g.nodes),
		EdgeCount:      len(g.edges),
		TypeCount:      len(g.types),
		PredicateCount: len(g.predicates),
		UntypedNodes:   untyped,
	}
}

func (g *Graph) edgesAt(idx []int) []Edge {
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}
