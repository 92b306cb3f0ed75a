package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies the kind of an RDF term
type TermKind uint8

const (
	// KindInvalid is the zero value; a term of this kind is malformed
	KindInvalid TermKind = iota
	// KindIRI is a resource named by an IRI
	KindIRI
	// KindBlank is an anonymous resource (blank node)
	KindBlank
	// KindLiteral is a lexical value with an optional language tag or datatype
	KindLiteral
)

// String returns the string representation of a term kind
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Term is a subject, predicate or object of a triple.
// Terms are small values and compare with ==.
type Term struct {
	Kind     TermKind
	Value    string // IRI, blank node label, or literal lexical form
	Lang     string // literal language tag, lower-cased
	Datatype string // literal datatype IRI; empty means xsd:string / rdf:langString
}

// IRI creates an IRI term
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank creates a blank node term. A leading "_:" is stripped.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(label, "_:")}
}

// Literal creates a plain literal term
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral creates a language-tagged literal term
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// TypedLiteral creates a literal term with a datatype IRI.
// An xsd:string datatype is normalised away, matching plain literals.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsResource reports whether the term names a node (IRI or blank node)
func (t Term) IsResource() bool {
	return t.Kind == KindIRI || t.Kind == KindBlank
}

// IsIRI reports whether the term is an IRI
func (t Term) IsIRI() bool {
	return t.Kind == KindIRI
}

// IsLiteral reports whether the term is a literal
func (t Term) IsLiteral() bool {
	return t.Kind == KindLiteral
}

// IsZero reports whether the term is the zero value
func (t Term) IsZero() bool {
	return t == Term{}
}

// ID returns the identifier used for a resource node: the IRI itself, or
// "_:label" for blank nodes. Literals return their lexical form.
func (t Term) ID() string {
	if t.Kind == KindBlank {
		return "_:" + t.Value
	}
	return t.Value
}

// String renders the term in N-Triples syntax
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return fmt.Sprintf("<invalid term %q>", t.Value)
	}
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
