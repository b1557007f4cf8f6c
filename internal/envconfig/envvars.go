package envconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar is a single NAME=value assignment.
type EnvVar struct {
	Name  string
	Value string
}

// EnvVars is an ordered set of environment variable assignments. YAML
// mappings decode into it with their document order preserved.
type EnvVars []EnvVar

// UnmarshalYAML decodes a mapping node, keeping key order.
func (e *EnvVars) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: env_vars must be a mapping", node.Line)
	}
	out := make(EnvVars, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: env_vars.%s must be a scalar", v.Line, k.Value)
		}
		out = append(out, EnvVar{Name: k.Value, Value: v.Value})
	}
	*e = out
	return nil
}

// MarshalYAML encodes the variables as a mapping in their original order.
func (e EnvVars) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range e {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: v.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Value},
		)
	}
	return node, nil
}

// MarshalJSON encodes the variables as an object in their original order.
func (e EnvVars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders "K1=V1 K2=V2", suitable after `env` or `export`.
func (e EnvVars) String() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Name + "=" + v.Value
	}
	return strings.Join(parts, " ")
}

func (e EnvVars) clone() EnvVars {
	if e == nil {
		return nil
	}
	return append(EnvVars(nil), e...)
}
