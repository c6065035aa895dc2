package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-powerform/internal/loader"
	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/formstate"
	"github.com/goliatone/go-powerform/pkg/powertype"
	"github.com/goliatone/go-powerform/pkg/render"
	"github.com/goliatone/go-powerform/pkg/renderers/html"
	"github.com/goliatone/go-powerform/pkg/validation"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom power type loader.
func WithLoader(loader powertype.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithLoaderOptions configures the built-in loader (file system, HTTP client).
// Ignored when WithLoader supplies a loader.
func WithLoaderOptions(options ...powertype.LoaderOption) Option {
	return func(o *Orchestrator) {
		o.loaderOptions = append(o.loaderOptions, options...)
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector passes a go-theme selector to the default HTML renderer.
// It has no effect when WithRegistry supplies the renderers.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithTransformer registers a Transformer applied to every built view.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithValidation checks the built view before rendering and merges the
// issues into RenderOptions.Errors.
func WithValidation() Option {
	return func(o *Orchestrator) {
		o.validate = true
	}
}

// WithLogger sets the logger shared with stores and binders.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from a power type document to
// rendered output. Documents are loaded once per source and cached for the
// orchestrator's lifetime.
type Orchestrator struct {
	loader          powertype.Loader
	loaderOptions   []powertype.LoaderOption
	registry        *render.Registry
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	transformers    []Transformer
	validate        bool
	logger          *zap.Logger
	initialiseErr   error

	mu     sync.Mutex
	stores map[string]*powertype.Store
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies get the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
		stores:          make(map[string]*powertype.Store),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a power parameter form.
type Request struct {
	// Source identifies where the power type document lives. Optional when
	// Set is supplied.
	Source powertype.Source

	// Set bypasses the loader when power types are already at hand.
	Set *powertype.Set

	// Values seeds the form state, typically the stored power_type and
	// power_parameters of an existing machine.
	Values map[string]any

	// PowerType selects a power type before rendering. When it differs from
	// the selection in Values the parameters are reset to its defaults.
	PowerType string

	// Config controls the field builder. Nil uses fields.DefaultConfig.
	Config *fields.Config

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// RenderOptions carries per-request theme choices and server-side errors.
	RenderOptions render.RenderOptions
}

// Generate executes the loader → binder → transformers → renderer sequence
// and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	view, err := o.View(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if len(opts.Errors) > 0 {
		// payload keys may be bare parameter names or JSON pointers
		mapped := render.MapErrorPayload(view, opts.Errors)
		opts.Errors = mapped.Fields
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapped.Form...)
	}
	if o.validate {
		opts.Errors = mergeErrors(opts.Errors, validation.ValidateView(view).Errors())
	}

	output, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// View runs every stage except rendering.
func (o *Orchestrator) View(ctx context.Context, req Request) (fields.View, error) {
	binder, err := o.Binder(ctx, req)
	if err != nil {
		return fields.View{}, err
	}
	view := binder.View()
	for _, t := range o.transformers {
		if err := t.Transform(ctx, &view); err != nil {
			return fields.View{}, fmt.Errorf("orchestrator: transform view: %w", err)
		}
	}
	return view, nil
}

// Binder resolves the power types for req and returns a Binder over a fresh
// state seeded from req.Values, with req.PowerType applied and defaults
// filled in.
func (o *Orchestrator) Binder(ctx context.Context, req Request) (*fields.Binder, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	set, err := o.resolveSet(ctx, req)
	if err != nil {
		return nil, err
	}

	cfg := fields.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	binder := fields.NewBinder(set, formstate.New(req.Values), cfg, fields.WithLogger(o.logger))
	if req.PowerType != "" {
		if err := binder.ForceSelectPowerType(req.PowerType); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}
	if err := binder.Initialise(); err != nil {
		return nil, fmt.Errorf("orchestrator: initialise parameters: %w", err)
	}
	return binder, nil
}

func (o *Orchestrator) resolveSet(ctx context.Context, req Request) (powertype.Set, error) {
	if req.Set != nil {
		return *req.Set, nil
	}
	if req.Source == nil {
		return powertype.Set{}, errors.New("orchestrator: source or set is required")
	}
	set, err := o.storeFor(req.Source).Get(ctx)
	if err != nil {
		return powertype.Set{}, fmt.Errorf("orchestrator: load power types: %w", err)
	}
	return set, nil
}

func (o *Orchestrator) storeFor(src powertype.Source) *powertype.Store {
	key := string(src.Kind()) + ":" + src.Location()

	o.mu.Lock()
	defer o.mu.Unlock()
	store, ok := o.stores[key]
	if !ok {
		store = powertype.NewStore(o.loader, src, powertype.WithLogger(o.logger))
		o.stores[key] = store
	}
	return store
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func mergeErrors(base, extra map[string][]string) map[string][]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string][]string, len(base)+len(extra))
	for path, messages := range base {
		out[path] = append([]string(nil), messages...)
	}
	for path, messages := range extra {
		out[path] = append(out[path], messages...)
	}
	return out
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(powertype.NewLoaderOptions(o.loaderOptions...))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithThemeSelector(o.themeSelector))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
