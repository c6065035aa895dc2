package fields

import (
	"sort"

	"github.com/goliatone/go-powerform/pkg/powertype"
)

// Reconciliation is the outcome of switching from one power type to another.
type Reconciliation struct {
	// Values holds exactly the target power type's fields, each set to its
	// default or "".
	Values map[string]any
	// Dropped lists names that no longer apply: fields of the previous power
	// type, or stale parameters, that the target does not define.
	Dropped []string
	// Reset lists parameter names whose previous value was replaced by the
	// target's default.
	Reset []string
}

// Reconcile computes the parameter values after the selection moves from
// `from` to `to`. Defaults always win: a value carried over from `from` under
// a shared name is replaced by the target's default. Parameters outside the
// previous power type's field set are dropped as well, so the result matches
// the target's field set exactly. A nil target yields no values.
func Reconcile(from, to *powertype.PowerType, params map[string]any) Reconciliation {
	result := Reconciliation{Values: DefaultValues(to)}

	stale := make(map[string]struct{}, len(params))
	for name := range params {
		stale[name] = struct{}{}
	}
	for _, name := range from.FieldNames() {
		stale[name] = struct{}{}
	}

	for name := range stale {
		if _, kept := result.Values[name]; !kept {
			result.Dropped = append(result.Dropped, name)
			continue
		}
		if _, existed := params[name]; existed {
			result.Reset = append(result.Reset, name)
		}
	}
	sort.Strings(result.Dropped)
	sort.Strings(result.Reset)
	return result
}

// DefaultValues returns the initial parameter values for pt.
func DefaultValues(pt *powertype.PowerType) map[string]any {
	values := make(map[string]any)
	if pt == nil {
		return values
	}
	for _, field := range pt.Fields {
		values[field.Name] = field.DefaultValue()
	}
	return values
}
