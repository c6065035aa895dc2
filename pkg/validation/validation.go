// Package validation checks submitted power parameters against the controls
// built for them, and lints power type documents before they are served.
package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/formstate"
	"github.com/goliatone/go-powerform/pkg/powertype"
)

// Messages shown for parameter issues.
const (
	MessageRequired      = "This field is required."
	MessageInvalidChoice = "Select a valid choice. %s is not one of the available choices."
)

// Issue is one validation problem. Path is the form path of the control (or
// "<power type>.<field>" for document issues); Field is the bare name.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result collects issues. Valid is false when any issue was found.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

func (r *Result) add(path, field, message string) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{Path: path, Field: field, Message: message})
}

// Errors groups issue messages by path, the shape render.RenderOptions and
// formstate.State expect.
func (r Result) Errors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

// Apply replaces the errors stored in state with the result's issues. Paths
// of every control in view are cleared first.
func (r Result) Apply(state *formstate.State, view fields.View) {
	if state == nil {
		return
	}
	if view.Select != nil {
		state.SetErrors(view.Select.Name)
	}
	for _, control := range view.Controls {
		state.SetErrors(control.Name)
	}
	for path, messages := range r.Errors() {
		state.SetErrors(path, messages...)
	}
}

// ValidateView checks the values carried by view. Disabled controls are
// skipped.
func ValidateView(view fields.View) Result {
	result := Result{Valid: true}

	if sel := view.Select; sel != nil && !sel.Disabled {
		switch {
		case strings.TrimSpace(sel.Value) == "":
			result.add(sel.Name, sel.Name, MessageRequired)
		case !hasOption(sel.Options, sel.Value):
			result.add(sel.Name, sel.Name, fmt.Sprintf(MessageInvalidChoice, sel.Value))
		}
	}

	for _, control := range view.Controls {
		if control.Disabled {
			continue
		}
		value := strings.TrimSpace(control.Value)
		if value == "" {
			if control.Required {
				result.add(control.Name, control.Field, MessageRequired)
			}
			continue
		}
		if control.Kind == fields.KindSelect && len(control.Options) > 0 && !hasOption(control.Options, control.Value) {
			result.add(control.Name, control.Field, fmt.Sprintf(MessageInvalidChoice, control.Value))
		}
	}
	return result
}

// ValidateBinder validates the binder's current view and stores the outcome
// in its state.
func ValidateBinder(binder *fields.Binder) Result {
	if binder == nil {
		return Result{Valid: true}
	}
	view := binder.View()
	result := ValidateView(view)
	result.Apply(binder.State(), view)
	return result
}

// LintDocument decodes a power type document and reports problems that
// decoding accepts but rendering would get wrong: choice fields without
// choices, defaults outside the declared choices, and unknown scopes.
func LintDocument(raw []byte) Result {
	result := Result{Valid: true}

	set, err := powertype.Decode(raw)
	if err != nil {
		result.add("", "", decodeMessage(err))
		return result
	}

	for _, pt := range set.All() {
		for _, field := range pt.Fields {
			path := pt.Name + "." + field.Name
			switch field.Scope {
			case "", powertype.ScopeNode, powertype.ScopeBMC:
			default:
				result.add(path, field.Name, fmt.Sprintf("unknown scope %q", field.Scope))
			}
			if field.Type != powertype.FieldTypeChoice {
				if len(field.Choices) > 0 {
					result.add(path, field.Name, fmt.Sprintf("choices are ignored for %q fields", field.Type))
				}
				continue
			}
			if len(field.Choices) == 0 {
				result.add(path, field.Name, "choice field has no choices")
				continue
			}
			if def := field.DefaultValue(); def != "" && !hasChoice(field.Choices, def) {
				result.add(path, field.Name, fmt.Sprintf("default %q is not one of the choices", def))
			}
		}
	}
	return result
}

func decodeMessage(err error) string {
	return strings.TrimSpace(strings.TrimPrefix(err.Error(), "powertype: "))
}

func hasOption(options []fields.Option, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func hasChoice(choices []powertype.Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
