package graphql

import (
	"github.com/dd0wney/cluso-rdfgraph/pkg/propgraph"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
	"github.com/graphql-go/graphql"
)

// nodeRef and edgeRef carry the graph a value came from so nested fields
// can walk it.
type nodeRef struct {
	node   *propgraph.Node
	graph  *propgraph.Graph
	labels visibility.Labeler
}

type edgeRef struct {
	edge   propgraph.Edge
	graph  *propgraph.Graph
	labels visibility.Labeler
}

type subgraph struct {
	session string
	triples int
	graph   *propgraph.Graph
	labels  visibility.Labeler
}

func nodeRefs(nodes []*propgraph.Node, g *propgraph.Graph, labels visibility.Labeler) []nodeRef {
	out := make([]nodeRef, len(nodes))
	for i, n := range nodes {
		out[i] = nodeRef{node: n, graph: g, labels: labels}
	}
	return out
}

func edgeRefs(edges []propgraph.Edge, g *propgraph.Graph, labels visibility.Labeler) []edgeRef {
	out := make([]edgeRef, len(edges))
	for i, e := range edges {
		out[i] = edgeRef{edge: e, graph: g, labels: labels}
	}
	return out
}

func (r nodeRef) typeToken() string {
	types := r.node.Types()
	if len(types) == 1 {
		return r.labels.Label(types[0])
	}
	return visibility.MultiType
}

type schemaTypes struct {
	node, edge, attribute, count, view, nodeView, edgeView, style, subgraph *graphql.Object
}

func newSchemaTypes() *schemaTypes {
	t := &schemaTypes{}

	t.attribute = graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: graphql.Fields{
			"predicate": stringField(func(a attributeRef) any { return a.attr.Predicate }),
			"label":     stringField(func(a attributeRef) any { return a.labels.Label(a.attr.Predicate) }),
			"sequence": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: resolve(func(a attributeRef) any { return a.attr.IsSequence() }),
			},
			"values": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: resolve(func(a attributeRef) any {
					values := a.attr.Values()
					out := make([]string, len(values))
					for i, v := range values {
						out[i] = v.ID()
					}
					return out
				}),
			},
		},
	})

	t.node = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Node",
		Description: "A resource of the converted graph",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"iri": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.ID),
					Resolve: resolve(func(r nodeRef) any { return r.node.IRI() }),
				},
				"label": stringField(func(r nodeRef) any { return r.labels.Label(r.node.IRI()) }),
				"type":  stringField(func(r nodeRef) any { return r.typeToken() }),
				"types": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
					Resolve: resolve(func(r nodeRef) any { return r.node.Types() }),
				},
				"attributes": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.attribute))),
					Resolve: resolve(func(r nodeRef) any {
						attrs := r.node.Attributes()
						out := make([]attributeRef, len(attrs))
						for i, a := range attrs {
							out[i] = attributeRef{attr: a, labels: r.labels}
						}
						return out
					}),
				},
				"outgoing": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.edge))),
					Resolve: resolve(func(r nodeRef) any {
						return edgeRefs(r.graph.OutgoingEdges(r.node.IRI()), r.graph, r.labels)
					}),
				},
				"incoming": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.edge))),
					Resolve: resolve(func(r nodeRef) any {
						return edgeRefs(r.graph.IncomingEdges(r.node.IRI()), r.graph, r.labels)
					}),
				},
			}
		}),
	})

	t.edge = graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			endpoint := func(iri func(propgraph.Edge) string) graphql.FieldResolveFn {
				return resolve(func(r edgeRef) any {
					n, ok := r.graph.Node(iri(r.edge))
					if !ok {
						return nil
					}
					return nodeRef{node: n, graph: r.graph, labels: r.labels}
				})
			}
			return graphql.Fields{
				"source":    idField(func(r edgeRef) any { return r.edge.Source }),
				"target":    idField(func(r edgeRef) any { return r.edge.Target }),
				"predicate": stringField(func(r edgeRef) any { return r.edge.Predicate }),
				"label":     stringField(func(r edgeRef) any { return r.labels.Label(r.edge.Predicate) }),
				"sourceNode": &graphql.Field{
					Type:    t.node,
					Resolve: endpoint(func(e propgraph.Edge) string { return e.Source }),
				},
				"targetNode": &graphql.Field{
					Type:    t.node,
					Resolve: endpoint(func(e propgraph.Edge) string { return e.Target }),
				},
			}
		}),
	})

	t.count = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Count",
		Description: "A type or predicate with the number of nodes or edges using it",
		Fields: graphql.Fields{
			"iri":         stringField(func(c visibility.Count) any { return c.IRI }),
			"label":       stringField(func(c visibility.Count) any { return c.Label }),
			"count":       intField(func(c visibility.Count) any { return c.Count }),
			"description": stringField(func(c visibility.Count) any { return c.Description() }),
		},
	})

	t.nodeView = graphql.NewObject(graphql.ObjectConfig{
		Name: "NodeView",
		Fields: graphql.Fields{
			"iri":     idField(func(n visibility.NodeView) any { return n.IRI }),
			"visible": boolField(func(n visibility.NodeView) any { return n.Visible }),
			"type":    stringField(func(n visibility.NodeView) any { return n.Type }),
			"class":   stringField(func(n visibility.NodeView) any { return n.Class }),
		},
	})

	t.edgeView = graphql.NewObject(graphql.ObjectConfig{
		Name: "EdgeView",
		Fields: graphql.Fields{
			"source":    idField(func(e visibility.EdgeView) any { return e.Source }),
			"target":    idField(func(e visibility.EdgeView) any { return e.Target }),
			"predicate": stringField(func(e visibility.EdgeView) any { return e.Predicate }),
			"visible":   boolField(func(e visibility.EdgeView) any { return e.Visible }),
		},
	})

	t.style = graphql.NewObject(graphql.ObjectConfig{
		Name: "Style",
		Fields: graphql.Fields{
			"class": stringField(func(c visibility.ClassColor) any { return c.Class }),
			"color": stringField(func(c visibility.ClassColor) any { return c.Color.CSS() }),
		},
	})

	t.view = graphql.NewObject(graphql.ObjectConfig{
		Name:        "View",
		Description: "Visibility and styling of the graph for one selection",
		Fields: graphql.Fields{
			"visibleNodes": intField(func(v *visibility.ViewModel) any { return v.VisibleNodes() }),
			"visibleEdges": intField(func(v *visibility.ViewModel) any { return v.VisibleEdges() }),
			"nodes": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.nodeView))),
				Resolve: resolve(func(v *visibility.ViewModel) any { return v.Nodes }),
			},
			"edges": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.edgeView))),
				Resolve: resolve(func(v *visibility.ViewModel) any { return v.Edges }),
			},
			"styles": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.style))),
				Resolve: resolve(func(v *visibility.ViewModel) any { return v.Styles }),
			},
			"diagnostics": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: resolve(func(v *visibility.ViewModel) any {
					out := make([]string, len(v.Diagnostics))
					for i, d := range v.Diagnostics {
						out[i] = d.Error()
					}
					return out
				}),
			},
		},
	})

	t.subgraph = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Subgraph",
		Description: "The converted one-hop neighbourhood of a set of seeds",
		Fields: graphql.Fields{
			"session": idField(func(s subgraph) any { return s.session }),
			"triples": intField(func(s subgraph) any { return s.triples }),
			"nodes": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.node))),
				Resolve: resolve(func(s subgraph) any { return nodeRefs(s.graph.Nodes(), s.graph, s.labels) }),
			},
			"edges": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.edge))),
				Resolve: resolve(func(s subgraph) any { return edgeRefs(s.graph.Edges(), s.graph, s.labels) }),
			},
		},
	})

	return t
}

type attributeRef struct {
	attr   propgraph.Attribute
	labels visibility.Labeler
}

// resolve adapts a typed accessor to a field resolver
func resolve[T any](get func(T) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		src, ok := p.Source.(T)
		if !ok {
			return nil, nil
		}
		return get(src), nil
	}
}

func stringField[T any](get func(T) any) *graphql.Field {
	return &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: resolve(get)}
}

func idField[T any](get func(T) any) *graphql.Field {
	return &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: resolve(get)}
}

func intField[T any](get func(T) any) *graphql.Field {
	return &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: resolve(get)}
}

func boolField[T any](get func(T) any) *graphql.Field {
	return &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean), Resolve: resolve(get)}
}
