package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf/rdftest"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = rdftest.EX

func newBackend(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New(&dataset.Config{Table: namespace.NewTable(
		namespace.Binding{Prefix: "ex", Namespace: rdftest.EX},
		namespace.Binding{Prefix: "foaf", Namespace: rdftest.FOAF},
	)})
	require.NoError(t, err)
	t.Cleanup(d.Close)

	triples := append(rdftest.AliceBob(),
		rdf.NewTriple(rdf.IRI(ex+"Carol"), rdftest.Type, rdf.IRI(ex+"Robot")),
		rdf.NewTriple(rdf.IRI(ex+"Carol"), rdftest.Knows, rdftest.Alice),
		rdf.NewTriple(rdf.IRI(ex+"Carol"), rdftest.Name, rdf.Literal("C")),
		rdf.NewTriple(rdf.IRI(ex+"Carol"), rdftest.Name, rdf.Literal("Caz")),
	)
	_, err = d.Load(rdftest.MustStore(triples...))
	require.NoError(t, err)
	return d
}

func newSchema(t *testing.T, b Backend) graphql.Schema {
	t.Helper()
	schema, err := GenerateSchema(b, nil)
	require.NoError(t, err)
	return schema
}

// run executes a query and decodes its data into out
func run(t *testing.T, schema graphql.Schema, query string, out any) {
	t.Helper()
	result := ExecuteQuery(context.Background(), schema, query)
	require.False(t, result.HasErrors(), "errors: %v", result.Errors)
	raw, err := json.Marshal(result.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestNodeQuery(t *testing.T) {
	schema := newSchema(t, newBackend(t))

	var data struct {
		Node struct {
			IRI        string
			Label      string
			Type       string
			Types      []string
			Attributes []struct {
				Label    string
				Sequence bool
				Values   []string
			}
			Outgoing []struct {
				Label      string
				TargetNode struct{ Label string }
			}
			Incoming []struct{ Source string }
		}
	}
	run(t, schema, `{
		node(iri: "http://example.org/Carol") {
			iri label type types
			attributes { label sequence values }
			outgoing { label targetNode { label } }
			incoming { source }
		}
	}`, &data)

	n := data.Node
	assert.Equal(t, ex+"Carol", n.IRI)
	assert.Equal(t, "ex:Carol", n.Label)
	assert.Equal(t, "ex:Robot", n.Type)
	assert.Equal(t, []string{ex + "Robot"}, n.Types)
	require.Len(t, n.Attributes, 1)
	assert.Equal(t, "foaf:name", n.Attributes[0].Label)
	assert.True(t, n.Attributes[0].Sequence)
	assert.Equal(t, []string{"C", "Caz"}, n.Attributes[0].Values)
	require.Len(t, n.Outgoing, 1)
	assert.Equal(t, "foaf:knows", n.Outgoing[0].Label)
	assert.Equal(t, "ex:Alice", n.Outgoing[0].TargetNode.Label)
	assert.Empty(t, n.Incoming)
}

func TestUnknownNodeIsNull(t *testing.T) {
	schema := newSchema(t, newBackend(t))
	var data struct{ Node *struct{ IRI string } }
	run(t, schema, `{ node(iri: "http://example.org/Nobody") { iri } }`, &data)
	assert.Nil(t, data.Node)
}

func TestListQueries(t *testing.T) {
	schema := newSchema(t, newBackend(t))

	var data struct {
		All     []struct{ IRI string }
		People  []struct{ IRI string }
		Paged   []struct{ IRI string }
		Knows   []struct{ Source string }
		Nothing []struct{ Source string }
	}
	run(t, schema, `{
		all: nodes { iri }
		people: nodes(type: "http://example.org/Person") { iri }
		paged: nodes(limit: 1, offset: 1) { iri }
		knows: edges(predicate: "http://xmlns.com/foaf/0.1/knows") { source }
		nothing: edges(offset: 10) { source }
	}`, &data)

	assert.Len(t, data.All, 3)
	assert.Len(t, data.People, 2)
	require.Len(t, data.Paged, 1)
	assert.Equal(t, ex+"Bob", data.Paged[0].IRI)
	assert.Len(t, data.Knows, 2)
	assert.Empty(t, data.Nothing)
}

func TestCountQueries(t *testing.T) {
	schema := newSchema(t, newBackend(t))

	var data struct {
		TypeCounts      []struct{ IRI, Description string }
		PredicateCounts []struct {
			Label string
			Count int
		}
	}
	run(t, schema, `{ typeCounts { iri description } predicateCounts { label count } }`, &data)

	require.Len(t, data.TypeCounts, 2)
	assert.Equal(t, "ex:Person  [2]", data.TypeCounts[0].Description)
	assert.Equal(t, ex+"Robot", data.TypeCounts[1].IRI)
	require.Len(t, data.PredicateCounts, 1)
	assert.Equal(t, 2, data.PredicateCounts[0].Count)
}

func TestViewQueryDoesNotChangeSelection(t *testing.T) {
	backend := newBackend(t)
	schema := newSchema(t, backend)

	var data struct {
		Current struct{ VisibleNodes, VisibleEdges int }
		Robots  struct {
			VisibleNodes int
			Nodes        []struct {
				IRI     string
				Visible bool
				Class   string
			}
			Styles []struct{ Class, Color string }
		}
	}
	run(t, schema, `{
		current: view { visibleNodes visibleEdges }
		robots: view(types: ["http://example.org/Robot"]) {
			visibleNodes
			nodes { iri visible class }
			styles { class color }
		}
	}`, &data)

	assert.Equal(t, 3, data.Current.VisibleNodes)
	assert.Equal(t, 2, data.Current.VisibleEdges)
	assert.Equal(t, 1, data.Robots.VisibleNodes)
	assert.Equal(t, "ex-Robot", data.Robots.Nodes[2].Class)
	assert.Equal(t, "rgb(47,79,79)", data.Robots.Styles[0].Color)

	assert.Equal(t, 3, backend.Snapshot().View.VisibleNodes())
}

func TestSelectMutation(t *testing.T) {
	backend := newBackend(t)
	schema := newSchema(t, backend)

	var data struct {
		Select struct{ VisibleNodes, VisibleEdges int }
	}
	run(t, schema, `mutation {
		select(types: ["http://example.org/Person"], predicates: []) { visibleNodes visibleEdges }
	}`, &data)

	assert.Equal(t, 2, data.Select.VisibleNodes)
	assert.Equal(t, 0, data.Select.VisibleEdges)
	assert.Equal(t, 2, backend.Snapshot().View.VisibleNodes())
}

func TestFocusQuery(t *testing.T) {
	schema := newSchema(t, newBackend(t))

	var data struct {
		Focus struct {
			Session string
			Triples int
			Nodes   []struct{ IRI string }
			Edges   []struct{ Source, Target string }
		}
	}
	run(t, schema, `{ focus(seeds: ["http://example.org/Bob"]) { session triples nodes { iri } edges { source target } } }`, &data)

	assert.NotEmpty(t, data.Focus.Session)
	assert.Equal(t, 2, data.Focus.Triples)
	assert.Len(t, data.Focus.Nodes, 2)
	require.Len(t, data.Focus.Edges, 1)
	assert.Equal(t, ex+"Alice", data.Focus.Edges[0].Source)

	result := ExecuteQuery(context.Background(), schema, `{ focus(seeds: []) { triples } }`)
	assert.True(t, result.HasErrors(), "at least one seed is required")
}

func TestQueryWithVariables(t *testing.T) {
	schema := newSchema(t, newBackend(t))
	result := ExecuteQueryWithVariables(context.Background(), schema,
		`query($iri: ID!) { node(iri: $iri) { label } }`,
		map[string]any{"iri": ex + "Bob"},
	)
	require.False(t, result.HasErrors())
	assert.Equal(t, "ex:Bob", result.Data.(map[string]any)["node"].(map[string]any)["label"])
}

func TestGenerateSchemaRejectsBadLimits(t *testing.T) {
	_, err := GenerateSchema(newBackend(t), &LimitConfig{DefaultLimit: 10, MaxLimit: 5})
	assert.Error(t, err)
}

func TestLimits(t *testing.T) {
	config := &LimitConfig{DefaultLimit: 2, MaxLimit: 3}
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		args map[string]any
		want []int
	}{
		{map[string]any{}, []int{1, 2}},
		{map[string]any{"limit": 10}, []int{1, 2, 3}},
		{map[string]any{"limit": 0}, []int{}},
		{map[string]any{"limit": -4}, []int{1, 2}},
		{map[string]any{"limit": 3, "offset": 3}, []int{4, 5}},
		{map[string]any{"offset": 9}, []int{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, page(items, tt.args, config), fmt.Sprint(tt.args))
	}

	assert.Error(t, ValidateLimitConfig(&LimitConfig{DefaultLimit: 0, MaxLimit: 1}))
	assert.Error(t, ValidateLimitConfig(&LimitConfig{DefaultLimit: 1, MaxLimit: 0}))
	assert.NoError(t, ValidateLimitConfig(DefaultLimitConfig()))
}

func TestValidateQueryDepth(t *testing.T) {
	shallow := `{ nodes { iri } }`
	deep := `{ nodes { outgoing { targetNode { outgoing { targetNode { iri } } } } } }`

	assert.NoError(t, ValidateQueryDepth(shallow, 2))
	err := ValidateQueryDepth(deep, 4)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "depth 6"), err.Error())
	assert.NoError(t, ValidateQueryDepth(deep, 6))

	assert.NoError(t, ValidateQueryDepth(`{ __schema { types { name } } }`, 1), "introspection is free")
	assert.Error(t, ValidateQueryDepth(`{ nodes {`, 5))
}
