package powertype

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldType is the input kind advertised by a power driver for one parameter.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypePassword FieldType = "password"
	FieldTypeChoice   FieldType = "choice"
)

// Scope classifies a field as belonging to the node or to its BMC.
type Scope string

const (
	ScopeNode Scope = "node"
	ScopeBMC  Scope = "bmc"
)

// Choice is one selectable value of a choice field. On the wire it is encoded
// as a ["value", "Label"] pair.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes a single configurable power parameter.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"field_type" yaml:"field_type"`
	Label    string    `json:"label" yaml:"label"`
	Required bool      `json:"required" yaml:"required"`
	Default  *string   `json:"default,omitempty" yaml:"default,omitempty"`
	Choices  []Choice  `json:"choices,omitempty" yaml:"choices,omitempty"`
	Scope    Scope     `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// DefaultValue returns the declared default or the empty string.
func (f Field) DefaultValue() string {
	if f.Default == nil {
		return ""
	}
	return *f.Default
}

// PowerType is a schema keyed by Name. CanProbe marks drivers able to probe
// and enlist a whole chassis.
type PowerType struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	CanProbe    bool    `json:"can_probe" yaml:"can_probe"`
}

// Field looks up a field by name.
func (p *PowerType) Field(name string) (Field, bool) {
	if p == nil {
		return Field{}, false
	}
	for _, field := range p.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in declaration order.
func (p *PowerType) FieldNames() []string {
	if p == nil || len(p.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.Fields))
	for _, field := range p.Fields {
		names = append(names, field.Name)
	}
	return names
}

// StringDefault builds a default pointer; handy for fixtures and tests.
func StringDefault(value string) *string {
	return &value
}

// UnmarshalJSON accepts both the ["value", "Label"] pair and an object.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		return c.fromPair(pair)
	}
	type plain Choice
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("powertype: decode choice: %w", err)
	}
	*c = Choice(obj)
	return nil
}

// MarshalJSON emits the pair form used by the power-types API.
func (c Choice) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{c.Value, c.Label})
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML fixtures.
func (c *Choice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("powertype: decode choice: %w", err)
		}
		return c.fromPair(pair)
	}
	type plain Choice
	var obj plain
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("powertype: decode choice: %w", err)
	}
	*c = Choice(obj)
	return nil
}

func (c *Choice) fromPair(pair []string) error {
	switch len(pair) {
	case 1:
		*c = Choice{Value: pair[0], Label: pair[0]}
	case 2:
		*c = Choice{Value: pair[0], Label: pair[1]}
	default:
		return fmt.Errorf("powertype: choice must have 1 or 2 elements, got %d", len(pair))
	}
	return nil
}
