// Package config reads the optional YAML file consumed by the powerform CLI.
// Flags given on the command line override values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-powerform/pkg/fields"
	"github.com/goliatone/go-powerform/pkg/powertype"
)

// DefaultTimeout bounds remote power type loads when nothing else is set.
const DefaultTimeout = 10 * time.Second

// Config mirrors the CLI flags.
type Config struct {
	Source              string         `yaml:"source"`
	PowerType           string         `yaml:"power_type"`
	Scopes              []string       `yaml:"scopes"`
	Chassis             bool           `yaml:"chassis"`
	HideSelect          bool           `yaml:"hide_select"`
	DisableSelect       bool           `yaml:"disable_select"`
	DisableFields       bool           `yaml:"disable_fields"`
	TypeValueName       string         `yaml:"type_value_name"`
	ParametersValueName string         `yaml:"parameters_value_name"`
	Theme               string         `yaml:"theme"`
	ThemeVariant        string         `yaml:"theme_variant"`
	Format              string         `yaml:"format"`
	Output              string         `yaml:"output"`
	Presets             string         `yaml:"presets"`
	Timeout             time.Duration  `yaml:"timeout"`
	Values              map[string]any `yaml:"values"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Format:  "json",
		Timeout: DefaultTimeout,
	}
}

// Load reads path over Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	for _, scope := range c.Scopes {
		switch powertype.Scope(scope) {
		case powertype.ScopeNode, powertype.ScopeBMC:
		default:
			return fmt.Errorf("unknown scope %q (want node or bmc)", scope)
		}
	}
	switch c.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", c.Format)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// Fields converts the configuration into a fields.Config.
func (c Config) Fields() fields.Config {
	cfg := fields.DefaultConfig()
	cfg.ShowSelect = !c.HideSelect
	cfg.DisableSelect = c.DisableSelect
	cfg.DisableFields = c.DisableFields
	cfg.ForChassis = c.Chassis
	if c.TypeValueName != "" {
		cfg.TypeValueName = c.TypeValueName
	}
	if c.ParametersValueName != "" {
		cfg.ParametersValueName = c.ParametersValueName
	}
	for _, scope := range c.Scopes {
		cfg.Scopes = append(cfg.Scopes, powertype.Scope(scope))
	}
	return cfg
}

// ResolveSource turns Source into a powertype.Source. http(s) locations become
// URL sources; anything else is a file path.
func (c Config) ResolveSource() (powertype.Source, error) {
	raw := strings.TrimSpace(c.Source)
	if raw == "" {
		return nil, errors.New("config: source is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return powertype.ParseURLSource(raw)
	}
	return powertype.SourceFromFile(raw), nil
}
