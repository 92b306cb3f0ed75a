package convert

import (
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
)

// Session is one conversion run. It owns the lookup tables built while
// converting; a new conversion always starts a new session.
type Session struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Graph    *propgraph.Graph
	Triples  int

	table      *namespace.Table
	iriToNode  map[string]*propgraph.Node
	typeLabels map[string]string
}

func newSession(id string, table *namespace.Table) *Session {
	return &Session{
		ID:         id,
		Started:    time.Now(),
		table:      table,
		iriToNode:  make(map[string]*propgraph.Node),
		typeLabels: make(map[string]string),
	}
}

// Node returns the node converted for iri
func (s *Session) Node(iri string) (*propgraph.Node, bool) {
	n, ok := s.iriToNode[iri]
	return n, ok
}

// Table returns the namespace table the session shortens with
func (s *Session) Table() *namespace.Table {
	return s.table
}

// Label returns the shortened token for an IRI. Type labels are computed
// once per session.
func (s *Session) Label(iri string) string {
	if label, ok := s.typeLabels[iri]; ok {
		return label
	}
	return namespace.Shorten(iri, s.table)
}

func (s *Session) register(n *propgraph.Node) {
	s.iriToNode[n.IRI()] = n
	for _, t := range n.Types() {
		if _, ok := s.typeLabels[t]; !ok {
			s.typeLabels[t] = namespace.Shorten(t, s.table)
		}
	}
}
