// Package rdftest provides fixtures and property-test generators for code
// that consumes rdf stores.
package rdftest

import (
	"fmt"

	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

// Namespaces used by the fixtures
const (
	EX   = "http://example.org/"
	FOAF = "http://xmlns.com/foaf/0.1/"
)

// Fixture terms
var (
	Alice  = rdf.IRI(EX + "Alice")
	Bob    = rdf.IRI(EX + "Bob")
	Person = rdf.IRI(EX + "Person")
	Type   = rdf.IRI(rdf.RDFType)
	Name   = rdf.IRI(FOAF + "name")
	Knows  = rdf.IRI(FOAF + "knows")
)

// AliceBob returns the four-triple example graph: Alice and Bob are people,
// Alice is named "Alice" and knows Bob.
func AliceBob() []rdf.Triple {
	return []rdf.Triple{
		rdf.NewTriple(Alice, Type, Person),
		rdf.NewTriple(Alice, Name, rdf.Literal("Alice")),
		rdf.NewTriple(Alice, Knows, Bob),
		rdf.NewTriple(Bob, Type, Person),
	}
}

// MustStore builds a store and panics on malformed input
func MustStore(triples ...rdf.Triple) *rdf.Store {
	s, err := rdf.NewStore(triples...)
	if err != nil {
		panic(err)
	}
	return s
}

// Small vocabularies keep generated graphs dense enough to collide
var (
	resources  = []string{"a", "b", "c", "d", "e", "f"}
	classes    = []string{"Person", "Place", "Thing"}
	predicates = []string{"knows", "near", "name", "likes"}
)

// Resource returns the i-th generator resource; index len(resources) is a blank node
func Resource(i int) rdf.Term {
	if i >= len(resources) {
		return rdf.Blank(fmt.Sprintf("b%d", i-len(resources)))
	}
	return rdf.IRI(EX + resources[i])
}

// GenResource generates subject or object resources, including one blank node
func GenResource() gopter.Gen {
	return gen.IntRange(0, len(resources)).Map(func(i int) rdf.Term {
		return Resource(i)
	})
}

// GenTriple generates well-formed triples: type statements, literal
// attributes and resource links.
func GenTriple() gopter.Gen {
	return gopter.CombineGens(
		GenResource(),
		gen.IntRange(0, 2),
		gen.IntRange(0, len(predicates)-1),
		GenResource(),
		gen.IntRange(0, len(classes)-1),
		gen.IntRange(0, 3),
	).Map(func(v []interface{}) rdf.Triple {
		subject := v[0].(rdf.Term)
		pred := rdf.IRI(EX + predicates[v[2].(int)])
		switch v[1].(int) {
		case 0:
			return rdf.NewTriple(subject, Type, rdf.IRI(EX+classes[v[4].(int)]))
		case 1:
			return rdf.NewTriple(subject, pred, rdf.Literal(fmt.Sprintf("v%d", v[5].(int))))
		default:
			return rdf.NewTriple(subject, pred, v[3].(rdf.Term))
		}
	})
}

// GenTriples generates triple slices, possibly with duplicates
func GenTriples() gopter.Gen {
	return gen.SliceOf(GenTriple())
}

// GenSeeds generates seed identifiers drawn from the generator resources
func GenSeeds() gopter.Gen {
	return gen.SliceOf(GenResource()).Map(func(terms []rdf.Term) []string {
		out := make([]string, len(terms))
		for i, t := range terms {
			out[i] = t.ID()
		}
		return out
	})
}
