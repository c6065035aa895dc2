// Package powerform renders the power parameter fields of a machine or BMC
// from a list of power types. Most callers only need RenderHTML; the
// orchestrator, fields, and renderer packages expose each stage separately.
package powerform

import (
	"context"

	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/formstate"
	"github.com/goliatone/go-powerform/pkg/orchestrator"
	"github.com/goliatone/go-powerform/pkg/powertype"
	"github.com/goliatone/go-powerform/pkg/render"
	"github.com/goliatone/go-powerform/pkg/renderers/html"
)

// Config aliases fields.Config for callers that only import the root package.
type Config = fields.Config

// RenderOptions describes per-request overrides such as theme choice and
// server-side errors.
type RenderOptions = render.RenderOptions

// DefaultConfig shows the selector and renders every scope.
func DefaultConfig() Config {
	return fields.DefaultConfig()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML loads the power types behind src, selects powerType (when not
// empty) with its defaults, and renders the fields as HTML.
func RenderHTML(ctx context.Context, src powertype.Source, powerType string, cfg Config, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:    src,
		PowerType: powerType,
		Config:    &cfg,
		Renderer:  html.Name,
	})
}

// RenderHTMLFromSet renders a form from power types already in memory,
// seeding the form with values (e.g. an existing machine's power settings).
func RenderHTMLFromSet(ctx context.Context, set powertype.Set, values map[string]any, cfg Config, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Set:      &set,
		Values:   values,
		Config:   &cfg,
		Renderer: html.Name,
	})
}

// NewBinder binds set and cfg to a fresh form state seeded with values.
func NewBinder(set powertype.Set, values map[string]any, cfg Config) *fields.Binder {
	return fields.NewBinder(set, formstate.New(values), cfg)
}
