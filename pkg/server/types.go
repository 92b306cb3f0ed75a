package server

import (
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// ErrorResponse is the body of every non-2xx JSON answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CountResponse is one selector entry
type CountResponse struct {
	IRI         string `json:"iri"`
	Label       string `json:"label"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// CountsResponse lists the type and predicate selector contents
type CountsResponse struct {
	Types      []CountResponse `json:"types"`
	Predicates []CountResponse `json:"predicates"`
}

// ViewResponse summarises the current snapshot
type ViewResponse struct {
	Selection    visibility.SelectionEvent `json:"selection"`
	Nodes        int                       `json:"nodes"`
	Edges        int                       `json:"edges"`
	VisibleNodes int                       `json:"visible_nodes"`
	VisibleEdges int                       `json:"visible_edges"`
	Styled       bool                      `json:"styled"`
	Diagnostics  []string                  `json:"diagnostics,omitempty"`
}

func countResponses(counts []visibility.Count) []CountResponse {
	out := make([]CountResponse, len(counts))
	for i, c := range counts {
		out[i] = CountResponse{IRI: c.IRI, Label: c.Label, Count: c.Count, Description: c.Description()}
	}
	return out
}

func viewResponse(snap *visibility.Snapshot) ViewResponse {
	g := snap.State.Graph
	resp := ViewResponse{
		Selection: visibility.SelectionEvent{
			Types:      selected(g.Types(), snap.State.Selection.HasType),
			Predicates: selected(g.Predicates(), snap.State.Selection.HasPredicate),
		},
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
	}
	if snap.View != nil {
		resp.Styled = true
		resp.VisibleNodes = snap.View.VisibleNodes()
		resp.VisibleEdges = snap.View.VisibleEdges()
		for _, d := range snap.View.Diagnostics {
			resp.Diagnostics = append(resp.Diagnostics, d.Error())
		}
	}
	return resp
}

// selected keeps graph order, which map-backed selections lose
func selected(all []string, has func(string) bool) []string {
	out := make([]string, 0, len(all))
	for _, iri := range all {
		if has(iri) {
			out = append(out, iri)
		}
	}
	return out
}
