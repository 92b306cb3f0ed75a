package config

import (
	"fmt"

	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"gopkg.in/yaml.v3"
)

// Namespaces is an ordered list of bindings. In YAML it is written either as
// a mapping (prefix: uri) or as a list of {prefix, namespace} entries. Both
// keep file order, which decides which prefix wins for a shared namespace.
type Namespaces []namespace.Binding

// UnmarshalYAML decodes either form, preserving order
func (n *Namespaces) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Namespaces, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: namespace for prefix %q must be a string", value.Line, key.Value)
			}
			out = append(out, namespace.Binding{Prefix: key.Value, Namespace: value.Value})
		}
		*n = out
		return nil
	case yaml.SequenceNode:
		var list []namespace.Binding
		if err := node.Decode(&list); err != nil {
			return err
		}
		*n = list
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*n = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: namespaces must be a mapping or a list", node.Line)
}

// MarshalYAML writes the mapping form in order
func (n Namespaces) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, b := range n {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: b.Prefix},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: b.Namespace},
		)
	}
	return node, nil
}
