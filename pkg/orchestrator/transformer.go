package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-powerform/pkg/fields"
)

// Transformer mutates a View after it is built and before it is rendered.
// Implementations can relabel controls, reorder them, or drop some.
type Transformer interface {
	Transform(ctx context.Context, view *fields.View) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, view *fields.View) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, view *fields.View) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, view)
}

// PresetTransformer applies declarative control overrides loaded from a JSON
// or YAML document. Keys are either a bare field name or
// "<power type>.<field>"; the qualified form wins:
//
//	labels:
//	  power_address: BMC address
//	  ipmi.power_user: IPMI username
//	required:
//	  virsh.power_pass: true
//	hidden:
//	  - mac_address
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Labels   map[string]string `yaml:"labels"`
	Required map[string]bool   `yaml:"required"`
	Hidden   []string          `yaml:"hidden"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the overrides to every control of view.
func (t *PresetTransformer) Transform(ctx context.Context, view *fields.View) error {
	if view == nil {
		return errors.New("preset transformer: view is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	key := ""
	if view.PowerType != nil {
		key = view.PowerType.Name
	}

	hidden := make(map[string]struct{}, len(t.document.Hidden))
	for _, name := range t.document.Hidden {
		hidden[name] = struct{}{}
	}

	controls := view.Controls[:0]
	for _, control := range view.Controls {
		qualified := key + "." + control.Field
		if _, ok := hidden[qualified]; ok {
			continue
		}
		if _, ok := hidden[control.Field]; ok {
			continue
		}
		if label, ok := lookupPreset(t.document.Labels, qualified, control.Field); ok {
			control.Label = label
		}
		if required, ok := lookupPreset(t.document.Required, qualified, control.Field); ok {
			control.Required = required
		}
		controls = append(controls, control)
	}
	view.Controls = controls
	return nil
}

func lookupPreset[T any](values map[string]T, qualified, bare string) (T, bool) {
	if value, ok := values[qualified]; ok {
		return value, true
	}
	value, ok := values[bare]
	return value, ok
}
