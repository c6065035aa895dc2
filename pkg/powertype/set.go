package powertype

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyName is returned when a power type or field has no name.
	ErrEmptyName = errors.New("powertype: name is required")
	// ErrDuplicateKey is returned when two power types share a name.
	ErrDuplicateKey = errors.New("powertype: duplicate power type")
	// ErrDuplicateField is returned when a power type repeats a field name.
	ErrDuplicateField = errors.New("powertype: duplicate field")
)

// Set is an ordered, read-only collection of power types.
type Set struct {
	types []PowerType
	index map[string]int
}

// NewSet validates the supplied power types and wraps them in a Set. The
// input slice is copied; later mutation by the caller does not leak in.
func NewSet(types []PowerType) (Set, error) {
	set := Set{
		types: make([]PowerType, 0, len(types)),
		index: make(map[string]int, len(types)),
	}
	for _, pt := range types {
		name := strings.TrimSpace(pt.Name)
		if name == "" {
			return Set{}, ErrEmptyName
		}
		if _, exists := set.index[name]; exists {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicateKey, name)
		}
		if err := validateFields(pt); err != nil {
			return Set{}, err
		}
		pt.Name = name
		pt.Fields = cloneFields(pt.Fields)
		set.index[name] = len(set.types)
		set.types = append(set.types, pt)
	}
	return set, nil
}

// MustNewSet panics when NewSet fails. Useful for fixtures.
func MustNewSet(types ...PowerType) Set {
	set, err := NewSet(types)
	if err != nil {
		panic(err)
	}
	return set
}

// Len reports the number of power types.
func (s Set) Len() int {
	return len(s.types)
}

// All returns a copy of the power types in their given order.
func (s Set) All() []PowerType {
	if len(s.types) == 0 {
		return nil
	}
	out := make([]PowerType, len(s.types))
	copy(out, s.types)
	return out
}

// Keys returns the power type names in order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s.types))
	for _, pt := range s.types {
		keys = append(keys, pt.Name)
	}
	return keys
}

// Find returns the power type registered under key.
func (s Set) Find(key string) (*PowerType, bool) {
	idx, ok := s.index[key]
	if !ok {
		return nil, false
	}
	pt := s.types[idx]
	return &pt, true
}

// Probeable returns the subset of power types that can probe a chassis,
// preserving order.
func (s Set) Probeable() Set {
	out := Set{index: make(map[string]int)}
	for _, pt := range s.types {
		if !pt.CanProbe {
			continue
		}
		out.index[pt.Name] = len(out.types)
		out.types = append(out.types, pt)
	}
	return out
}

type document struct {
	PowerTypes []PowerType `json:"power_types" yaml:"power_types"`
}

// Decode parses a JSON or YAML payload. Both a bare list of power types and
// an object with a "power_types" key are accepted.
func Decode(data []byte) (Set, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Set{}, errors.New("powertype: document is empty")
	}

	var types []PowerType
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		jsonErr := decodeJSON([]byte(trimmed), &types)
		if jsonErr == nil {
			return NewSet(types)
		}
		// flow-style YAML also starts with a bracket
		types = nil
		if err := decodeYAML([]byte(trimmed), &types); err != nil {
			return Set{}, jsonErr
		}
		return NewSet(types)
	}

	if err := decodeYAML([]byte(trimmed), &types); err != nil {
		return Set{}, err
	}
	return NewSet(types)
}

func decodeJSON(data []byte, out *[]PowerType) error {
	if data[0] == '[' {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("powertype: decode json: %w", err)
		}
		return nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("powertype: decode json: %w", err)
	}
	*out = doc.PowerTypes
	return nil
}

func decodeYAML(data []byte, out *[]PowerType) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("powertype: decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return errors.New("powertype: document is empty")
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(out); err != nil {
			return fmt.Errorf("powertype: decode yaml: %w", err)
		}
		return nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return fmt.Errorf("powertype: decode yaml: %w", err)
	}
	*out = doc.PowerTypes
	return nil
}

func validateFields(pt PowerType) error {
	seen := make(map[string]struct{}, len(pt.Fields))
	for _, field := range pt.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("%w: field in power type %q", ErrEmptyName, pt.Name)
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("%w: %q in power type %q", ErrDuplicateField, field.Name, pt.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		if field.Default != nil {
			field.Default = StringDefault(*field.Default)
		}
		if len(field.Choices) > 0 {
			field.Choices = append([]Choice(nil), field.Choices...)
		}
		out[i] = field
	}
	return out
}
