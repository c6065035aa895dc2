package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-powerform/pkg/powertype"
)

// ControlKind is the rendered input kind for a field.
type ControlKind string

const (
	KindText     ControlKind = "text"
	KindPassword ControlKind = "password"
	KindSelect   ControlKind = "select"
)

// Option is one entry of a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Select is the power type selector.
type Select struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Options  []Option `json:"options"`
	Disabled bool     `json:"disabled"`
}

// Control is a bound input for one power parameter. Name is the full form
// path; Field is the bare parameter name.
type Control struct {
	Name     string          `json:"name"`
	Field    string          `json:"field"`
	Kind     ControlKind     `json:"kind"`
	Label    string          `json:"label"`
	Required bool            `json:"required"`
	Disabled bool            `json:"disabled"`
	Value    string          `json:"value"`
	Options  []Option        `json:"options,omitempty"`
	Scope    powertype.Scope `json:"scope,omitempty"`
}

// Masked reports whether the typed value should be hidden.
func (c Control) Masked() bool {
	return c.Kind == KindPassword
}

// View is the renderable result of Build.
type View struct {
	Select    *Select              `json:"select,omitempty"`
	Controls  []Control            `json:"controls"`
	PowerType *powertype.PowerType `json:"powerType,omitempty"`
}

// SelectorLabel is the label attached to the power type selector.
const SelectorLabel = "Power type"

// Build renders the selector and the controls for the power type currently
// selected in values. An unknown or empty selection renders no controls.
func Build(set powertype.Set, values map[string]any, cfg Config) View {
	selected := stringAt(values, cfg.typeName())

	var view View
	if cfg.ShowSelect {
		view.Select = buildSelect(set, selected, cfg)
	}

	pt, ok := set.Find(selected)
	if !ok {
		return view
	}
	view.PowerType = pt

	params := mapAt(values, cfg.parametersName())
	for _, field := range pt.Fields {
		if !cfg.inScope(field.Scope) {
			continue
		}
		view.Controls = append(view.Controls, buildControl(field, params, cfg))
	}
	return view
}

func buildSelect(set powertype.Set, selected string, cfg Config) *Select {
	source := set
	if cfg.ForChassis {
		source = set.Probeable()
	}
	options := make([]Option, 0, source.Len())
	for _, key := range source.Keys() {
		options = append(options, Option{Value: key, Label: key})
	}
	return &Select{
		Name:     cfg.typeName(),
		Label:    SelectorLabel,
		Value:    selected,
		Options:  options,
		Disabled: cfg.DisableSelect,
	}
}

func buildControl(field powertype.Field, params map[string]any, cfg Config) Control {
	control := Control{
		Name:     cfg.parametersName() + "." + field.Name,
		Field:    field.Name,
		Kind:     KindFor(field.Type),
		Label:    field.Label,
		Required: field.Required,
		Disabled: cfg.DisableFields,
		Value:    formatValue(params[field.Name]),
		Scope:    field.Scope,
	}
	if control.Kind == KindSelect {
		control.Options = make([]Option, 0, len(field.Choices))
		for _, choice := range field.Choices {
			control.Options = append(control.Options, Option{Value: choice.Value, Label: choice.Label})
		}
	}
	return control
}

// KindFor maps a field type onto its control kind. Unknown types fall back to
// a plain text control.
func KindFor(fieldType powertype.FieldType) ControlKind {
	switch fieldType {
	case powertype.FieldTypePassword:
		return KindPassword
	case powertype.FieldTypeChoice:
		return KindSelect
	default:
		// string and anything the server adds later
		return KindText
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func lookup(values map[string]any, path string) (any, bool) {
	if values == nil {
		return nil, false
	}
	var current any = values
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func stringAt(values map[string]any, path string) string {
	value, ok := lookup(values, path)
	if !ok {
		return ""
	}
	return formatValue(value)
}

func mapAt(values map[string]any, path string) map[string]any {
	value, ok := lookup(values, path)
	if !ok {
		return nil
	}
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[key] = v
		}
		return out
	default:
		return nil
	}
}
