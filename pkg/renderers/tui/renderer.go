package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/formstate"
	"github.com/goliatone/go-powerform/pkg/render"
)

// Name is the registry identifier of the TUI renderer.
const Name = "tui"

// Renderer collects power parameters in a terminal session. Render prompts
// the controls of a prebuilt view; Prompt drives a Binder through the whole
// flow, including the power type selection and the reset that follows it.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	logger       *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render prompts each enabled control of view and serializes the answers
// together with the selected power type. Disabled controls keep their value.
func (r *Renderer) Render(ctx context.Context, view fields.View, opts render.RenderOptions) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	state := formstate.New(nil)
	if view.Select != nil && view.Select.Value != "" {
		if err := state.SetFieldValue(view.Select.Name, view.Select.Value); err != nil {
			return nil, err
		}
	}
	for _, control := range view.Controls {
		value := control.Value
		if !control.Disabled {
			answer, err := r.promptControl(ctx, control, opts.Errors[control.Name])
			if err != nil {
				return nil, err
			}
			value = answer
		}
		if err := state.SetFieldValue(control.Name, value); err != nil {
			return nil, err
		}
	}
	return r.serialize(state.Values())
}

// Prompt runs the full interactive flow against binder: choose a power type
// (when the selector is shown and enabled), then fill in its parameters. The
// binder's state holds the result, which is also returned serialized.
func (r *Renderer) Prompt(ctx context.Context, binder *fields.Binder) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if binder == nil {
		return nil, errors.New("tui: binder is required")
	}

	view := binder.View()
	if sel := view.Select; sel != nil && !sel.Disabled {
		key, err := r.promptSelect(ctx, *sel)
		if err != nil {
			return nil, err
		}
		if err := binder.SelectPowerType(key); err != nil {
			return nil, err
		}
		r.logger.Debug("power type chosen", zap.String("power_type", key))
	}
	if err := binder.Initialise(); err != nil {
		return nil, err
	}
	view = binder.View()

	errs := binder.State().Errors()
	for _, control := range view.Controls {
		if control.Disabled {
			continue
		}
		answer, err := r.promptControl(ctx, control, errs[control.Name])
		if err != nil {
			return nil, err
		}
		if err := binder.SetParameter(control.Field, answer); err != nil {
			return nil, err
		}
	}
	return r.serialize(binder.State().Values())
}

func (r *Renderer) promptSelect(ctx context.Context, sel fields.Select) (string, error) {
	if len(sel.Options) == 0 {
		return "", ErrNoPowerTypes
	}
	labels := make([]string, len(sel.Options))
	defaultIndex := 0
	for i, option := range sel.Options {
		labels[i] = option.Label
		if option.Value == sel.Value {
			defaultIndex = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      sel.Label,
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(sel.Options) {
		return "", fmt.Errorf("tui: selection %d out of range", idx)
	}
	return sel.Options[idx].Value, nil
}

func (r *Renderer) promptControl(ctx context.Context, control fields.Control, errs []string) (string, error) {
	for _, message := range errs {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", controlMessage(control), message)); err != nil {
			return "", err
		}
	}

	if control.Kind == fields.KindSelect {
		return r.promptChoice(ctx, control)
	}

	cfg := InputConfig{
		Message: controlMessage(control),
		Default: control.Value,
	}
	for {
		var (
			answer string
			err    error
		)
		if control.Masked() {
			answer, err = r.driver.Password(ctx, cfg)
		} else {
			answer, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return "", err
		}
		if control.Required && strings.TrimSpace(answer) == "" {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s is required", controlMessage(control))); err != nil {
				return "", err
			}
			continue
		}
		return answer, nil
	}
}

// promptChoice falls back to free text when the field lists no choices.
func (r *Renderer) promptChoice(ctx context.Context, control fields.Control) (string, error) {
	if len(control.Options) == 0 {
		return r.driver.Input(ctx, InputConfig{Message: controlMessage(control), Default: control.Value})
	}
	labels := make([]string, len(control.Options))
	defaultIndex := 0
	for i, option := range control.Options {
		labels[i] = option.Label
		if option.Value == control.Value {
			defaultIndex = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      controlMessage(control),
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(control.Options) {
		return "", fmt.Errorf("tui: selection %d out of range for %s", idx, control.Name)
	}
	return control.Options[idx].Value, nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatYAML:
		out, err := yaml.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func controlMessage(control fields.Control) string {
	if label := strings.TrimSpace(control.Label); label != "" {
		return label
	}
	return control.Field
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	return ctx.Err()
}
