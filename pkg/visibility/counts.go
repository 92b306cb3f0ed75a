package visibility

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
)

// ErrMissingType marks a node that has no rdf:type where one is needed for display
var ErrMissingType = errors.New("node has no rdf:type")

// Diagnostic is a non-fatal problem found while preparing a view
type Diagnostic struct {
	Node string
	Err  error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.Node, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Count is a type or predicate IRI with the number of nodes or edges using it
type Count struct {
	IRI   string
	Label string // shortened token
	Count int
}

// Description renders the selector entry, e.g. "foaf:Person  [12]"
func (c Count) Description() string {
	if c.Count == 0 {
		return c.Label
	}
	return fmt.Sprintf("%s  [%d]", c.Label, c.Count)
}

// TypeCounts counts nodes per rdf:type, highest first with ties in first
// appearance order. Every untyped node yields an ErrMissingType diagnostic.
func TypeCounts(g *propgraph.Graph, labels Labeler) ([]Count, []Diagnostic) {
	labels = orDefaultLabeler(labels)
	var diags []Diagnostic
	for _, n := range g.Nodes() {
		if !n.HasTypes() {
			diags = append(diags, Diagnostic{Node: n.IRI(), Err: ErrMissingType})
		}
	}
	types := g.Types()
	counts := make([]Count, len(types))
	for i, t := range types {
		counts[i] = Count{IRI: t, Label: labels.Label(t), Count: len(g.NodesOfType(t))}
	}
	sortCounts(counts)
	return counts, diags
}

// PredicateCounts counts edges per predicate, highest first with ties in
// first appearance order.
func PredicateCounts(g *propgraph.Graph, labels Labeler) []Count {
	labels = orDefaultLabeler(labels)
	preds := g.Predicates()
	counts := make([]Count, len(preds))
	for i, p := range preds {
		counts[i] = Count{IRI: p, Label: labels.Label(p), Count: len(g.EdgesWithPredicate(p))}
	}
	sortCounts(counts)
	return counts
}

func sortCounts(counts []Count) {
	slices.SortStableFunc(counts, func(a, b Count) int {
		return b.Count - a.Count
	})
}

// IRIs returns the IRIs of counts in order
func IRIs(counts []Count) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.IRI
	}
	return out
}
