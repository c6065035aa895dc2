package fields

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-powerform/pkg/formstate"
	"github.com/goliatone/go-powerform/pkg/powertype"
)

var (
	// ErrUnknownPowerType is returned when selecting a key missing from the set.
	ErrUnknownPowerType = errors.New("fields: unknown power type")
	// ErrUnknownField is returned when writing a parameter the selected power
	// type does not define.
	ErrUnknownField = errors.New("fields: unknown field")
	// ErrSelectDisabled is returned by SelectPowerType when the selector is
	// disabled or hidden.
	ErrSelectDisabled = errors.New("fields: power type select is disabled")
	// ErrFieldsDisabled is returned by SetParameter when fields are disabled.
	ErrFieldsDisabled = errors.New("fields: power parameters are disabled")
)

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithLogger sets the logger used for selection changes.
func WithLogger(logger *zap.Logger) BinderOption {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Binder connects a power type Set and a Config to a form state container.
// It is the stateful counterpart of Build and Reconcile: user input events
// arrive through SelectPowerType and SetParameter, one at a time.
type Binder struct {
	set    powertype.Set
	state  *formstate.State
	config Config
	logger *zap.Logger
}

// NewBinder constructs a Binder. A nil state gets a fresh empty container.
func NewBinder(set powertype.Set, state *formstate.State, cfg Config, options ...BinderOption) *Binder {
	if state == nil {
		state = formstate.New(nil)
	}
	b := &Binder{
		set:    set,
		state:  state,
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// State exposes the bound form state.
func (b *Binder) State() *formstate.State {
	return b.state
}

// Config returns the binder configuration.
func (b *Binder) Config() Config {
	return b.config
}

// Selected returns the currently selected power type key.
func (b *Binder) Selected() string {
	return b.state.StringValue(b.config.typeName())
}

// View renders the current state.
func (b *Binder) View() View {
	return Build(b.set, b.state.Values(), b.config)
}

// Initialise seeds the selected power type's defaults when the parameter map
// is absent. Existing parameters are left alone.
func (b *Binder) Initialise() error {
	if _, ok := b.state.Value(b.config.parametersName()); ok {
		return nil
	}
	pt, _ := b.set.Find(b.Selected())
	return b.state.SetFieldValue(b.config.parametersName(), DefaultValues(pt))
}

// SelectPowerType switches the selection to key. Selecting the current key is
// a no-op; otherwise the type field is marked touched and the new key plus
// the reconciled parameters are written in one update.
func (b *Binder) SelectPowerType(key string) error {
	if !b.config.ShowSelect || b.config.DisableSelect {
		return ErrSelectDisabled
	}
	return b.selectPowerType(key)
}

// ForceSelectPowerType behaves like SelectPowerType but ignores the
// selector's disabled and hidden flags. Callers use it to apply selections
// made outside the rendered form.
func (b *Binder) ForceSelectPowerType(key string) error {
	return b.selectPowerType(key)
}

func (b *Binder) selectPowerType(key string) error {
	to, ok := b.set.Find(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPowerType, key)
	}
	if b.config.ForChassis && !to.CanProbe {
		return fmt.Errorf("%w: %q cannot probe a chassis", ErrUnknownPowerType, key)
	}

	previous := b.Selected()
	if previous == key {
		return nil
	}
	from, _ := b.set.Find(previous)

	var params map[string]any
	if raw, ok := b.state.Value(b.config.parametersName()); ok {
		params, _ = raw.(map[string]any)
	}
	result := Reconcile(from, to, params)

	if err := b.state.SetFieldTouched(b.config.typeName(), true); err != nil {
		return err
	}
	if err := b.state.Update(
		formstate.Change{Path: b.config.typeName(), Value: key},
		formstate.Change{Path: b.config.parametersName(), Value: result.Values},
	); err != nil {
		return fmt.Errorf("fields: apply power type %q: %w", key, err)
	}

	b.logger.Debug("power type changed",
		zap.String("from", previous),
		zap.String("to", key),
		zap.Strings("dropped", result.Dropped),
		zap.Strings("reset", result.Reset),
	)
	return nil
}

// SetParameter writes a parameter of the selected power type and marks it
// touched.
func (b *Binder) SetParameter(name, value string) error {
	if b.config.DisableFields {
		return ErrFieldsDisabled
	}
	pt, ok := b.set.Find(b.Selected())
	if !ok {
		return fmt.Errorf("%w: no power type selected", ErrUnknownField)
	}
	if _, ok := pt.Field(name); !ok {
		return fmt.Errorf("%w: %q not in power type %q", ErrUnknownField, name, pt.Name)
	}
	path := b.config.parametersName() + "." + name
	if err := b.state.SetFieldValue(path, value); err != nil {
		return err
	}
	return b.state.SetFieldTouched(path, true)
}
