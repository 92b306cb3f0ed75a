// Package graphql exposes the loaded graph, its selector counts, view
// models and focus extraction over GraphQL.
package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-rdfgraph/pkg/convert"
	"github.com/dd0wney/cluso-rdfgraph/pkg/validation"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
	"github.com/graphql-go/graphql"
)

// ErrNoView is returned when the current graph could not be styled
var ErrNoView = errors.New("view unavailable")

// Backend is what the schema reads and drives
type Backend interface {
	Snapshot() *visibility.Snapshot
	Apply(ev visibility.SelectionEvent) (*visibility.Snapshot, error)
	Focus(ctx context.Context, seeds []string) (*convert.Session, error)
}

// GenerateSchema builds the schema over a backend. A nil config uses
// DefaultLimitConfig.
func GenerateSchema(b Backend, config *LimitConfig) (graphql.Schema, error) {
	if config == nil {
		config = DefaultLimitConfig()
	}
	if err := ValidateLimitConfig(config); err != nil {
		return graphql.Schema{}, err
	}

	t := newSchemaTypes()
	r := &resolver{backend: b, limits: config}
	stringList := graphql.NewList(graphql.NewNonNull(graphql.String))
	pageArgs := func(name string) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			name:     &graphql.ArgumentConfig{Type: graphql.String},
			"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
			"offset": &graphql.ArgumentConfig{Type: graphql.Int},
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"node": &graphql.Field{
				Type: t.node,
				Args: graphql.FieldConfigArgument{
					"iri": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.node,
			},
			"nodes": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.node))),
				Description: "Nodes in graph order, optionally only those of one rdf:type",
				Args:        pageArgs("type"),
				Resolve:     r.nodes,
			},
			"edges": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.edge))),
				Description: "Edges in graph order, optionally only those with one predicate",
				Args:        pageArgs("predicate"),
				Resolve:     r.edges,
			},
			"typeCounts": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.count))),
				Resolve: r.typeCounts,
			},
			"predicateCounts": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.count))),
				Resolve: r.predicateCounts,
			},
			"view": &graphql.Field{
				Type:        t.view,
				Description: "The view for a selection; omitted arguments keep the current selection. Nothing is changed.",
				Args: graphql.FieldConfigArgument{
					"types":      &graphql.ArgumentConfig{Type: stringList},
					"predicates": &graphql.ArgumentConfig{Type: stringList},
				},
				Resolve: r.view,
			},
			"focus": &graphql.Field{
				Type: t.subgraph,
				Args: graphql.FieldConfigArgument{
					"seeds": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
					},
				},
				Resolve: r.focus,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"select": &graphql.Field{
				Type:        t.view,
				Description: "Replaces the current type and predicate selection",
				Args: graphql.FieldConfigArgument{
					"types":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(stringList)},
					"predicates": &graphql.ArgumentConfig{Type: graphql.NewNonNull(stringList)},
				},
				Resolve: r.selectView,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

type resolver struct {
	backend Backend
	limits  *LimitConfig
}

func labelsOf(snap *visibility.Snapshot) visibility.Labeler {
	if snap.State.Options.Labels == nil {
		return visibility.TableLabeler{}
	}
	return snap.State.Options.Labels
}

func (r *resolver) node(p graphql.ResolveParams) (any, error) {
	iri, _ := p.Args["iri"].(string)
	snap := r.backend.Snapshot()
	n, ok := snap.State.Graph.Node(iri)
	if !ok {
		return nil, nil
	}
	return nodeRef{node: n, graph: snap.State.Graph, labels: labelsOf(snap)}, nil
}

func (r *resolver) nodes(p graphql.ResolveParams) (any, error) {
	snap := r.backend.Snapshot()
	g := snap.State.Graph
	nodes := g.Nodes()
	if typ, ok := p.Args["type"].(string); ok {
		nodes = g.NodesOfType(typ)
	}
	return page(nodeRefs(nodes, g, labelsOf(snap)), p.Args, r.limits), nil
}

func (r *resolver) edges(p graphql.ResolveParams) (any, error) {
	snap := r.backend.Snapshot()
	g := snap.State.Graph
	edges := g.Edges()
	if pred, ok := p.Args["predicate"].(string); ok {
		edges = g.EdgesWithPredicate(pred)
	}
	return page(edgeRefs(edges, g, labelsOf(snap)), p.Args, r.limits), nil
}

func (r *resolver) typeCounts(p graphql.ResolveParams) (any, error) {
	return r.backend.Snapshot().Types, nil
}

func (r *resolver) predicateCounts(p graphql.ResolveParams) (any, error) {
	return r.backend.Snapshot().Predicates, nil
}

func (r *resolver) view(p graphql.ResolveParams) (any, error) {
	snap := r.backend.Snapshot()
	types, hasTypes := stringArg(p.Args, "types")
	preds, hasPreds := stringArg(p.Args, "predicates")
	if !hasTypes && !hasPreds {
		if snap.View == nil {
			return nil, ErrNoView
		}
		return snap.View, nil
	}
	if !hasTypes {
		types = keys(snap.State.Selection.Types)
	}
	if !hasPreds {
		preds = keys(snap.State.Selection.Predicates)
	}
	ev := visibility.SelectionEvent{Types: types, Predicates: preds}
	if err := validation.ValidateSelectionRequest(&validation.SelectionRequest{Types: types, Predicates: preds}); err != nil {
		return nil, err
	}
	return visibility.Recompute(snap.State, ev)
}

func (r *resolver) selectView(p graphql.ResolveParams) (any, error) {
	types, _ := stringArg(p.Args, "types")
	preds, _ := stringArg(p.Args, "predicates")
	if err := validation.ValidateSelectionRequest(&validation.SelectionRequest{Types: types, Predicates: preds}); err != nil {
		return nil, err
	}
	snap, err := r.backend.Apply(visibility.SelectionEvent{Types: types, Predicates: preds})
	if err != nil {
		return nil, err
	}
	return snap.View, nil
}

func (r *resolver) focus(p graphql.ResolveParams) (any, error) {
	seeds, _ := stringArg(p.Args, "seeds")
	if err := validation.ValidateFocusRequest(&validation.FocusRequest{Seeds: seeds}); err != nil {
		return nil, err
	}
	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := r.backend.Focus(ctx, seeds)
	if err != nil {
		return nil, err
	}
	return subgraph{session: s.ID, triples: s.Triples, graph: s.Graph, labels: s}, nil
}

func stringArg(args map[string]any, name string) ([]string, bool) {
	raw, ok := args[name].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
