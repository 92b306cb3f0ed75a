// Package convert turns an RDF triple store into a property graph.
package convert

import (
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
)

// Aggregate builds the node for subject from the triples that share it.
// Triples about other subjects are ignored.
//
// Repeated triples count once, as in a triple set. rdf:type values are
// always a sequence. Every other predicate keeps its distinct values in
// first-seen order and collapses to a scalar when it has exactly one. Literal objects keep their lexical form, language
// and datatype; resource objects contribute their raw identifier. Aggregate
// never fails: a subject without types simply has no rdf:type key.
func Aggregate(subject rdf.Term, triples []rdf.Triple) *propgraph.Node {
	return aggregate(subject, triples, true)
}

// aggregate is Aggregate with control over resource-valued predicates. The
// converter turns those into edges and leaves them out of the attributes.
func aggregate(subject rdf.Term, triples []rdf.Triple, keepLinks bool) *propgraph.Node {
	var (
		types     []string
		seenType  = make(map[string]bool)
		order     []string
		collected = make(map[string][]rdf.Term)
		seen      = make(map[rdf.Triple]bool)
	)

	for _, t := range triples {
		if t.Subject != subject {
			continue
		}
		if t.IsType() {
			id := t.Object.ID()
			if !seenType[id] {
				seenType[id] = true
				types = append(types, id)
			}
			continue
		}
		if t.Object.IsResource() && !keepLinks {
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		p := t.Predicate.Value
		if _, ok := collected[p]; !ok {
			order = append(order, p)
		}
		collected[p] = append(collected[p], t.Object)
	}

	attrs := make([]propgraph.Attribute, 0, len(order))
	for _, p := range order {
		values := collected[p]
		if len(values) == 1 {
			attrs = append(attrs, propgraph.NewScalar(p, values[0]))
		} else {
			attrs = append(attrs, propgraph.NewSequence(p, values))
		}
	}
	return propgraph.NewNode(subject, types, attrs)
}
