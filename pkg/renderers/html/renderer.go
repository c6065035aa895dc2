package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/render"
)

// Name is the registry identifier of the HTML renderer.
const Name = "html"

const formTemplate = "templates/form.tmpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS     fs.FS
	selector       theme.ThemeSelector
	defaultTheme   string
	defaultVariant string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithThemeSelector resolves a go-theme selection per render; manifest
// tokens are exposed as CSS custom properties on the fieldset.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithDefaultTheme sets the theme requested when RenderOptions leaves it empty.
func WithDefaultTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.defaultTheme = name
		cfg.defaultVariant = variant
	}
}

// Renderer emits a <fieldset> with the power type selector and one labelled
// control per power parameter.
type Renderer struct {
	engine *engine
	cfg    config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	eng, err := newEngine(cfg.templateFS)
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: eng, cfg: cfg}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the form template for view.
func (r *Renderer) Render(ctx context.Context, view fields.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.engine == nil {
		return nil, errors.New("html renderer: engine is nil")
	}

	name, variant := opts.ThemeName, opts.ThemeVariant
	if name == "" {
		name = r.cfg.defaultTheme
	}
	if variant == "" {
		variant = r.cfg.defaultVariant
	}
	themeCtx, err := resolveTheme(r.cfg.selector, name, variant)
	if err != nil {
		return nil, err
	}

	out, err := r.engine.render(formTemplate, templateData(view, opts, themeCtx))
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	return out, nil
}

// templateData flattens the view into plain maps and strings so template
// comparisons do not depend on Go named types.
func templateData(view fields.View, opts render.RenderOptions, themeCtx themeContext) pongo2.Context {
	data := pongo2.Context{
		"theme":       themeCtx.data(),
		"form_errors": render.MergeFormErrors(opts.FormErrors),
		"controls":    controlsData(view.Controls, opts.Errors),
	}
	if view.PowerType != nil {
		data["power_type"] = view.PowerType.Name
	}
	if view.Select != nil {
		data["select"] = selectData(*view.Select, opts.Errors)
	}
	return data
}

func selectData(sel fields.Select, errs map[string][]string) map[string]any {
	matched := false
	options := make([]map[string]any, 0, len(sel.Options))
	for _, option := range sel.Options {
		selected := option.Value == sel.Value
		matched = matched || selected
		options = append(options, map[string]any{
			"value":    option.Value,
			"label":    plainText(option.Label),
			"selected": selected,
		})
	}
	return map[string]any{
		"id":          controlID(sel.Name),
		"name":        sel.Name,
		"label":       plainText(sel.Label),
		"options":     options,
		"disabled":    sel.Disabled,
		"placeholder": !matched,
		"errors":      errs[sel.Name],
	}
}

func controlsData(controls []fields.Control, errs map[string][]string) []map[string]any {
	out := make([]map[string]any, 0, len(controls))
	for _, control := range controls {
		entry := map[string]any{
			"id":       controlID(control.Name),
			"name":     control.Name,
			"field":    control.Field,
			"kind":     string(control.Kind),
			"label":    plainText(control.Label),
			"required": control.Required,
			"disabled": control.Disabled,
			"value":    control.Value,
			"scope":    string(control.Scope),
			"errors":   errs[control.Name],
		}
		if control.Kind == fields.KindSelect {
			options := make([]map[string]any, 0, len(control.Options))
			for _, option := range control.Options {
				options = append(options, map[string]any{
					"value":    option.Value,
					"label":    plainText(option.Label),
					"selected": option.Value == control.Value,
				})
			}
			entry["options"] = options
		}
		out = append(out, entry)
	}
	return out
}
