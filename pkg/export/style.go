package export

import (
	"fmt"

	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// Style is one rule of a cytoscape style sheet
type Style struct {
	Selector string            `json:"selector"`
	Style    map[string]string `json:"style"`
}

// Element classes set by Build
const (
	ClassInvisible     = "invisible"
	ClassDirected      = "directed"
	ClassMultipleEdges = "multiple_edges"
)

// Data keys that are not predicates
const (
	KeyID        = "id"
	KeyIRI       = "iri"
	KeyType      = "rdf:type"
	KeyTypeClass = "type_"
	KeyLabel     = "_label"
	KeySource    = "source"
	KeyTarget    = "target"
	KeyPredicate = "predicate"
)

func nodeStyle(labelled bool) Style {
	s := Style{Selector: "node", Style: map[string]string{
		"color":            "black",
		"background-color": "CadetBlue",
	}}
	if labelled {
		s.Style["label"] = "data(_label)"
	}
	return s
}

func edgeStyle(labelled bool) Style {
	s := Style{Selector: "edge", Style: map[string]string{
		"line-color":   "grey",
		"line-opacity": "0.5",
	}}
	if labelled {
		s.Style["font-size"] = "12"
		s.Style["font-style"] = "italic"
		s.Style["label"] = "data(_label)"
	}
	return s
}

// BaseStyles is the directed-graph style sheet every document starts with
func BaseStyles(labelled bool) []Style {
	return []Style{
		nodeStyle(labelled),
		edgeStyle(labelled),
		{Selector: "edge." + ClassDirected, Style: map[string]string{
			"curve-style":        "bezier",
			"target-arrow-shape": "triangle",
		}},
		{Selector: "edge." + ClassMultipleEdges, Style: map[string]string{
			"curve-style": "bezier",
		}},
	}
}

// ClassStyles colours nodes by their type_ data attribute
func ClassStyles(colors []visibility.ClassColor) []Style {
	out := make([]Style, len(colors))
	for i, c := range colors {
		out[i] = Style{
			Selector: fmt.Sprintf("node[%s = '%s']", KeyTypeClass, c.Class),
			Style:    map[string]string{"background-color": c.Color.CSS()},
		}
	}
	return out
}

// InvisibleStyles hide elements carrying the invisible class
func InvisibleStyles() []Style {
	return []Style{
		{Selector: "node." + ClassInvisible, Style: map[string]string{"display": "none"}},
		{Selector: "edge." + ClassInvisible, Style: map[string]string{"display": "none"}},
	}
}
