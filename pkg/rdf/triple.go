package rdf

import "strings"

// Triple is a single subject-predicate-object statement
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple creates a triple from its three terms
func NewTriple(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Validate checks that the subject is a resource, the predicate an IRI
// and the object a well-formed term.
func (t Triple) Validate() error {
	return t.validate(-1)
}

func (t Triple) validate(index int) error {
	if !t.Subject.IsResource() || t.Subject.Value == "" {
		return malformed(index, t, "subject must be an IRI or blank node")
	}
	if !t.Predicate.IsIRI() || t.Predicate.Value == "" {
		return malformed(index, t, "predicate must be an IRI")
	}
	if blankLikeIRI(t.Subject) || blankLikeIRI(t.Predicate) || blankLikeIRI(t.Object) {
		return malformed(index, t, "IRI uses the blank node prefix _:")
	}
	switch t.Object.Kind {
	case KindIRI, KindBlank:
		if t.Object.Value == "" {
			return malformed(index, t, "object resource has an empty identifier")
		}
	case KindLiteral:
		if t.Object.Lang != "" && t.Object.Datatype != "" {
			return malformed(index, t, "literal cannot carry both a language tag and a datatype")
		}
	default:
		return malformed(index, t, "object must be an IRI, blank node or literal")
	}
	return nil
}

// blankLikeIRI reports an IRI that would share a node id with a blank node
func blankLikeIRI(term Term) bool {
	return term.Kind == KindIRI && strings.HasPrefix(term.Value, "_:")
}

// IsType reports whether the triple is an rdf:type statement
func (t Triple) IsType() bool {
	return t.Predicate.Kind == KindIRI && t.Predicate.Value == RDFType
}

// String renders the triple as an N-Triples line without the trailing newline
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}
