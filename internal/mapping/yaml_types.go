package mapping

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- ColumnMapping YAML methods ---

// columnSpec is the rich entry form. Both the short keys and the stage-named
// keys are accepted.
type columnSpec struct {
	Column             string `yaml:"column"`
	Rule               string `yaml:"rule"`
	SilverColumn       string `yaml:"silverColumn"`
	TransformationRule string `yaml:"transformationRule"`
}

// UnmarshalYAML implements custom YAML unmarshaling for ColumnMapping.
// Accepts a mapping whose values are either:
//   - a scalar target column: "amount: amount"
//   - a map with target column and rule: "amount: {column: amt, rule: DIRECT_COMPARE}"
//
// Entries keep document order.
func (m *ColumnMapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected map of source column to target, got %v", node.Line, kindName(node.Kind))
	}

	out := make(ColumnMapping, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var source string
		if err := keyNode.Decode(&source); err != nil {
			return fmt.Errorf("line %d: invalid source column: %w", keyNode.Line, err)
		}

		if _, dup := seen[source]; dup {
			return fmt.Errorf("line %d: duplicate source column %q", keyNode.Line, source)
		}

		seen[source] = struct{}{}

		col, err := decodeColumn(source, valNode)
		if err != nil {
			return err
		}

		out = append(out, col)
	}

	*m = out

	return nil
}

func decodeColumn(source string, node *yaml.Node) (Column, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var target string
		if err := node.Decode(&target); err != nil {
			return Column{}, fmt.Errorf("line %d: column %q: %w", node.Line, source, err)
		}

		return Column{Source: source, Target: target}, nil

	case yaml.MappingNode:
		var spec columnSpec
		if err := node.Decode(&spec); err != nil {
			return Column{}, fmt.Errorf("line %d: column %q: %w", node.Line, source, err)
		}

		target := firstNonEmpty(spec.Column, spec.SilverColumn)
		if target == "" {
			return Column{}, fmt.Errorf("line %d: column %q: missing target column", node.Line, source)
		}

		return Column{
			Source: source,
			Target: target,
			Rule:   firstNonEmpty(spec.Rule, spec.TransformationRule),
		}, nil

	default:
		return Column{}, fmt.Errorf("line %d: column %q: expected string or map, got %v",
			node.Line, source, kindName(node.Kind))
	}
}

// MarshalYAML implements custom YAML marshaling for ColumnMapping.
// Entries without a rule are written in the scalar form.
func (m ColumnMapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, c := range m {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: c.Source}

		var val *yaml.Node
		if c.Rule == "" {
			val = &yaml.Node{Kind: yaml.ScalarNode, Value: c.Target}
		} else {
			val = &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "column"},
				{Kind: yaml.ScalarNode, Value: c.Target},
				{Kind: yaml.ScalarNode, Value: "rule"},
				{Kind: yaml.ScalarNode, Value: c.Rule},
			}}
		}

		node.Content = append(node.Content, key, val)
	}

	return node, nil
}

// --- PadDirection YAML methods ---

// UnmarshalYAML accepts the direction in any letter case.
func (d *PadDirection) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	if s == "" {
		return errors.New("pad direction must not be empty")
	}

	*d = PadDirection(strings.ToUpper(strings.TrimSpace(s)))

	return nil
}

// IsValid reports whether the direction is LEFT or RIGHT, ignoring case.
func (d PadDirection) IsValid() bool {
	return strings.EqualFold(string(d), string(PadLeft)) || strings.EqualFold(string(d), string(PadRight))
}

// IsLeft reports whether padding goes before the value.
func (d PadDirection) IsLeft() bool {
	return strings.EqualFold(string(d), string(PadLeft))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "map"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
