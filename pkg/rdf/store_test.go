package rdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/"

func TestNewStoreCollapsesDuplicates(t *testing.T) {
	alice := IRI(ex + "Alice")
	knows := IRI(ex + "knows")
	bob := IRI(ex + "Bob")

	s, err := NewStore(
		NewTriple(alice, knows, bob),
		NewTriple(alice, knows, bob),
		NewTriple(bob, knows, alice),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Term{alice, bob}, s.Subjects())
	assert.Equal(t, []Term{knows}, s.Predicates())
	assert.True(t, s.Contains(NewTriple(alice, knows, bob)))
	assert.False(t, s.Contains(NewTriple(alice, knows, alice)))
}

func TestStoreQueries(t *testing.T) {
	alice := IRI(ex + "Alice")
	bob := IRI(ex + "Bob")
	name := IRI(ex + "name")
	knows := IRI(ex + "knows")

	s, err := NewStore(
		NewTriple(alice, name, Literal("Alice")),
		NewTriple(alice, knows, bob),
		NewTriple(bob, name, Literal("Bob")),
		NewTriple(alice, name, LangLiteral("Alicia", "ES")),
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  []Triple
		want int
	}{
		{"by subject", s.BySubject(alice), 3},
		{"by predicate", s.ByPredicate(name), 3},
		{"by object", s.ByObject(bob), 1},
		{"by subject predicate", s.BySubjectPredicate(alice, name), 2},
		{"missing subject", s.BySubject(IRI(ex + "Carol")), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != tt.want {
				t.Errorf("got %d triples, want %d", len(tt.got), tt.want)
			}
		})
	}

	// insertion order is kept within an index
	sp := s.BySubjectPredicate(alice, name)
	assert.Equal(t, "Alice", sp[0].Object.Value)
	assert.Equal(t, "es", sp[1].Object.Lang)
}

func TestNewStoreRejectsMalformedTriples(t *testing.T) {
	good := NewTriple(IRI(ex+"a"), IRI(ex+"p"), Literal("x"))

	tests := []struct {
		name   string
		triple Triple
	}{
		{"literal subject", NewTriple(Literal("a"), IRI(ex+"p"), IRI(ex+"b"))},
		{"blank predicate", NewTriple(IRI(ex+"a"), Blank("p"), IRI(ex+"b"))},
		{"empty subject", NewTriple(IRI(""), IRI(ex+"p"), IRI(ex+"b"))},
		{"zero object", NewTriple(IRI(ex+"a"), IRI(ex+"p"), Term{})},
		{"blank prefixed subject IRI", NewTriple(IRI("_:x"), IRI(ex+"p"), Literal("a"))},
		{"blank prefixed object IRI", NewTriple(IRI(ex+"a"), IRI(ex+"p"), IRI("_:x"))},
		{"lang and datatype", NewTriple(IRI(ex+"a"), IRI(ex+"p"), Term{Kind: KindLiteral, Value: "x", Lang: "en", Datatype: XSDNamespace + "token"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(good, tt.triple)
			if s != nil {
				t.Fatal("expected no store on malformed input")
			}
			if !errors.Is(err, ErrMalformedTriple) {
				t.Fatalf("expected ErrMalformedTriple, got %v", err)
			}
			var te *TripleError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, 1, te.Index)
		})
	}
}

func TestBuilderStopsAtFirstError(t *testing.T) {
	b := NewBuilder()
	b.Add(NewTriple(IRI(ex+"a"), IRI(ex+"p"), IRI(ex+"b")))
	b.Add(NewTriple(Literal("bad"), IRI(ex+"p"), IRI(ex+"b")))
	b.Add(NewTriple(IRI(ex+"c"), IRI(ex+"p"), IRI(ex+"d")))

	_, err := b.Build()
	require.ErrorIs(t, err, ErrMalformedTriple)
	assert.Contains(t, err.Error(), "triple 1")
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	a, p, b := IRI(ex+"a"), IRI(ex+"p"), IRI(ex+"b")
	s, err := NewStore(NewTriple(a, p, b), NewTriple(b, p, a))
	require.NoError(t, err)

	filtered := s.Filter(func(tr Triple) bool { return tr.Subject == a })

	assert.Equal(t, 1, filtered.Len())
	assert.Equal(t, 2, s.Len())
}

func TestTermRendering(t *testing.T) {
	tests := []struct {
		term Term
		want string
	}{
		{IRI(ex + "a"), "<http://example.org/a>"},
		{Blank("_:b0"), "_:b0"},
		{Literal("say \"hi\""), `"say \"hi\""`},
		{LangLiteral("chat", "FR"), `"chat"@fr`},
		{TypedLiteral("1", XSDNamespace+"integer"), `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{TypedLiteral("s", XSDString), `"s"`},
	}
	for _, tt := range tests {
		if got := tt.term.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
	assert.Equal(t, "_:b0", Blank("b0").ID())
}
