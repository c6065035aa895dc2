package fields

import "github.com/goliatone/go-powerform/pkg/powertype"

const (
	// DefaultTypeValueName is the form path holding the selected power type.
	DefaultTypeValueName = "power_type"
	// DefaultParametersValueName is the form path holding power parameters.
	DefaultParametersValueName = "power_parameters"
)

// Config controls what Build renders.
type Config struct {
	// Scopes limits rendered fields to the listed scopes. Empty renders all.
	Scopes []powertype.Scope
	// ShowSelect renders the power type selector.
	ShowSelect bool
	// DisableSelect marks the selector disabled.
	DisableSelect bool
	// DisableFields marks every field control disabled.
	DisableFields bool
	// ForChassis restricts selector options to power types that can probe.
	ForChassis bool
	// TypeValueName overrides the path of the selected power type value.
	TypeValueName string
	// ParametersValueName overrides the path of the power parameter map.
	ParametersValueName string
}

// DefaultConfig shows the selector and renders every scope.
func DefaultConfig() Config {
	return Config{
		ShowSelect:          true,
		TypeValueName:       DefaultTypeValueName,
		ParametersValueName: DefaultParametersValueName,
	}
}

func (c Config) typeName() string {
	if c.TypeValueName == "" {
		return DefaultTypeValueName
	}
	return c.TypeValueName
}

func (c Config) parametersName() string {
	if c.ParametersValueName == "" {
		return DefaultParametersValueName
	}
	return c.ParametersValueName
}

func (c Config) inScope(scope powertype.Scope) bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, allowed := range c.Scopes {
		if allowed == scope {
			return true
		}
	}
	return false
}
