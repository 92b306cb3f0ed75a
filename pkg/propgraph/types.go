// Package propgraph holds the labeled property graph produced from an RDF
// store: nodes keyed by resource identifier with ordered attribute maps, and
// directed edges labeled with a predicate IRI. Graphs are immutable once built.
package propgraph

import (
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
)

// Reserved attribute keys in a node's data map
const (
	IRIKey  = "iri"
	TypeKey = "rdf:type"
)

// Attribute is the value set of one predicate on one node. A predicate seen
// once is a scalar; seen more than once it is an ordered sequence. The
// distinction is kept because renderers branch on it.
type Attribute struct {
	Predicate string
	values    []rdf.Term
	sequence  bool
}

// NewScalar creates a single-valued attribute
func NewScalar(predicate string, value rdf.Term) Attribute {
	return Attribute{Predicate: predicate, values: []rdf.Term{value}}
}

// NewSequence creates an ordered multi-valued attribute. It stays a sequence
// even with a single value.
func NewSequence(predicate string, values []rdf.Term) Attribute {
	v := make([]rdf.Term, len(values))
	copy(v, values)
	return Attribute{Predicate: predicate, values: v, sequence: true}
}

// IsSequence reports whether the attribute holds an ordered sequence
func (a Attribute) IsSequence() bool {
	return a.sequence
}

// Scalar returns the single value of a scalar attribute
func (a Attribute) Scalar() (rdf.Term, bool) {
	if a.sequence || len(a.values) != 1 {
		return rdf.Term{}, false
	}
	return a.values[0], true
}

// Values returns a copy of the attribute's values in encounter order
func (a Attribute) Values() []rdf.Term {
	out := make([]rdf.Term, len(a.values))
	copy(out, a.values)
	return out
}

// Len returns the number of values
func (a Attribute) Len() int {
	return len(a.values)
}

// Native returns the lexical value for a scalar, or a []string for a sequence
func (a Attribute) Native() any {
	if !a.sequence && len(a.values) == 1 {
		return a.values[0].ID()
	}
	out := make([]string, len(a.values))
	for i, v := range a.values {
		out[i] = v.ID()
	}
	return out
}

// Node is a resource with its types and attributes
type Node struct {
	term      rdf.Term
	types     []string
	attrs     []Attribute
	attrIndex map[string]int
}

// NewNode creates a node. Types are stored as given, in order.
func NewNode(term rdf.Term, types []string, attrs []Attribute) *Node {
	n := &Node{
		term:      term,
		types:     append([]string(nil), types...),
		attrs:     make([]Attribute, 0, len(attrs)),
		attrIndex: make(map[string]int, len(attrs)),
	}
	for _, a := range attrs {
		if _, dup := n.attrIndex[a.Predicate]; dup {
			continue
		}
		n.attrIndex[a.Predicate] = len(n.attrs)
		n.attrs = append(n.attrs, a)
	}
	return n
}

// IRI returns the node identifier: the subject IRI verbatim, or "_:label"
// for blank nodes.
func (n *Node) IRI() string {
	return n.term.ID()
}

// Term returns the RDF term the node was built from
func (n *Node) Term() rdf.Term {
	return n.term
}

// Types returns a copy of the node's rdf:type values in encounter order
func (n *Node) Types() []string {
	return append([]string(nil), n.types...)
}

// HasTypes reports whether the node has at least one rdf:type
func (n *Node) HasTypes() bool {
	return len(n.types) > 0
}

// Attribute returns the attribute for a predicate IRI
func (n *Node) Attribute(predicate string) (Attribute, bool) {
	i, ok := n.attrIndex[predicate]
	if !ok {
		return Attribute{}, false
	}
	return n.attrs[i], true
}

// Attributes returns the node's non-type attributes in first-seen order
func (n *Node) Attributes() []Attribute {
	return append([]Attribute(nil), n.attrs...)
}

// Data returns the node's attribute map keyed by "iri", "rdf:type" (only
// when the node has types) and each predicate IRI.
func (n *Node) Data() map[string]any {
	data := make(map[string]any, len(n.attrs)+2)
	data[IRIKey] = n.IRI()
	if len(n.types) > 0 {
		data[TypeKey] = n.Types()
	}
	for _, a := range n.attrs {
		data[a.Predicate] = a.Native()
	}
	return data
}

// Edge is a directed, predicate-labeled link between two nodes
type Edge struct {
	Source    string
	Target    string
	Predicate string
}

// IsSelfLoop reports whether source and target are the same node
func (e Edge) IsSelfLoop() bool {
	return e.Source == e.Target
}

// Statistics summarises a graph
type Statistics struct {
	NodeCount      int
	EdgeCount      int
	TypeCount      int
	PredicateCount int
	UntypedNodes   int
}
