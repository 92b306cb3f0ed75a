// Package focus extracts the one-hop neighbourhood of seed resources from a
// triple store.
package focus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
)

// ErrInvalidSeed is returned by BuildQuery for seeds that cannot be written
// as a SPARQL IRI reference.
var ErrInvalidSeed = errors.New("invalid focus seed")

// Focus returns the triples whose subject is a seed, or whose object is a
// resource named by a seed. Seeds are node identifiers: IRIs verbatim, blank
// nodes as "_:label". Only one hop is taken. Unknown seeds contribute nothing
// and an empty seed list yields an empty store. The source is not modified.
func Focus(store *rdf.Store, seeds []string) *rdf.Store {
	if len(seeds) == 0 || store.Len() == 0 {
		return rdf.EmptyStore()
	}
	set := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		set[s] = struct{}{}
	}
	return store.Filter(func(t rdf.Triple) bool {
		if _, ok := set[t.Subject.ID()]; ok {
			return true
		}
		if !t.Object.IsResource() {
			return false
		}
		_, ok := set[t.Object.ID()]
		return ok
	})
}

// BuildQuery returns a SPARQL CONSTRUCT query equivalent to Focus for IRI
// seeds, for running against an external endpoint. Blank node seeds have no
// stable identity outside the store they came from and are rejected.
func BuildQuery(seeds []string) (string, error) {
	var values strings.Builder
	for i, seed := range seeds {
		if err := checkSeed(seed); err != nil {
			return "", fmt.Errorf("seed %d: %w", i, err)
		}
		values.WriteString("    <")
		values.WriteString(seed)
		values.WriteString(">\n")
	}

	return "CONSTRUCT {\n" +
		"  ?s ?p ?o .\n" +
		"} WHERE {\n" +
		"  VALUES ?seed {\n" +
		values.String() +
		"  }\n" +
		"  {\n" +
		"    ?seed ?p ?o .\n" +
		"    BIND(?seed AS ?s)\n" +
		"  } UNION {\n" +
		"    ?s ?p ?seed .\n" +
		"    BIND(?seed AS ?o)\n" +
		"  }\n" +
		"}\n", nil
}

func checkSeed(seed string) error {
	switch {
	case seed == "":
		return fmt.Errorf("%w: empty", ErrInvalidSeed)
	case strings.HasPrefix(seed, "_:"):
		return fmt.Errorf("%w: blank node %s", ErrInvalidSeed, seed)
	}
	for _, r := range seed {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidSeed, seed, r)
		}
	}
	if !strings.Contains(seed, ":") {
		return fmt.Errorf("%w: %s is not absolute", ErrInvalidSeed, seed)
	}
	return nil
}
