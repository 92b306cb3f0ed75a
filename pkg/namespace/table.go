// Package namespace maps URIs to compact prefix:localname tokens using an
// ordered table of namespace bindings.
package namespace

import (
	"fmt"
	"strings"
)

// Binding associates a prefix with a namespace URI
type Binding struct {
	Prefix    string `json:"prefix" yaml:"prefix"`
	Namespace string `json:"namespace" yaml:"namespace" validate:"required"`
}

// Table is an ordered set of namespace bindings. Registration order decides
// ties when several prefixes bind the same namespace: the first one wins.
// A Table is not safe for concurrent mutation; share it read-only.
type Table struct {
	bindings []Binding
	index    map[string]int // prefix -> position
}

// NewTable creates a table from bindings in the given order
func NewTable(bindings ...Binding) *Table {
	t := &Table{index: make(map[string]int, len(bindings))}
	for _, b := range bindings {
		t.Bind(b.Prefix, b.Namespace)
	}
	return t
}

// Bind registers prefix for namespace. Rebinding an existing prefix replaces
// its namespace and keeps its original position.
func (t *Table) Bind(prefix, namespace string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[prefix]; ok {
		t.bindings[i].Namespace = namespace
		return
	}
	t.index[prefix] = len(t.bindings)
	t.bindings = append(t.bindings, Binding{Prefix: prefix, Namespace: namespace})
}

// Lookup returns the namespace bound to prefix
func (t *Table) Lookup(prefix string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[prefix]
	if !ok {
		return "", false
	}
	return t.bindings[i].Namespace, true
}

// Len returns the number of bindings
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

// Bindings returns a copy of the bindings in registration order
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Merge returns a new table holding t's bindings followed by other's.
// Prefixes in other override the namespace of the same prefix in t.
func (t *Table) Merge(other *Table) *Table {
	out := NewTable(t.Bindings()...)
	for _, b := range other.Bindings() {
		out.Bind(b.Prefix, b.Namespace)
	}
	return out
}

// ParseBinding parses "prefix=namespace"
func ParseBinding(s string) (Binding, error) {
	prefix, ns, ok := strings.Cut(s, "=")
	if !ok || ns == "" {
		return Binding{}, fmt.Errorf("invalid namespace binding %q (want prefix=uri)", s)
	}
	return Binding{Prefix: strings.TrimSpace(prefix), Namespace: strings.TrimSpace(ns)}, nil
}

// StandardTable returns the commonly used vocabularies
func StandardTable() *Table {
	return NewTable(
		Binding{Prefix: "rdf", Namespace: "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
		Binding{Prefix: "rdfs", Namespace: "http://www.w3.org/2000/01/rdf-schema#"},
		Binding{Prefix: "owl", Namespace: "http://www.w3.org/2002/07/owl#"},
		Binding{Prefix: "xsd", Namespace: "http://www.w3.org/2001/XMLSchema#"},
		Binding{Prefix: "xml", Namespace: "http://www.w3.org/XML/1998/namespace"},
		Binding{Prefix: "foaf", Namespace: "http://xmlns.com/foaf/0.1/"},
		Binding{Prefix: "dc", Namespace: "http://purl.org/dc/elements/1.1/"},
		Binding{Prefix: "dcterms", Namespace: "http://purl.org/dc/terms/"},
		Binding{Prefix: "skos", Namespace: "http://www.w3.org/2004/02/skos/core#"},
		Binding{Prefix: "schema", Namespace: "https://schema.org/"},
		Binding{Prefix: "prov", Namespace: "http://www.w3.org/ns/prov#"},
	)
}
