package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-powerform/internal/config"
)

// options holds flag values; the config file fills in whatever was not set
// on the command line.
type options struct {
	configPath    string
	verbose       bool
	source        string
	powerType     string
	scopes        []string
	chassis       bool
	hideSelect    bool
	disableSelect bool
	disableFields bool
	output        string
	format        string
	theme         string
	presets       string
	timeout       time.Duration

	logger *zap.Logger
	cfg    config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "powerform",
		Short: "Render power parameter forms from a power type document",
		Long: `powerform turns a list of power types (BMC drivers and their parameters)
into a form: HTML markup for embedding, or an interactive terminal prompt that
prints the collected power_type and power_parameters.

Selecting a different power type always resets the parameters to the new
type's defaults.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logConfig := zap.NewProductionConfig()
			if opts.verbose {
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := logConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = mergeFlags(cmd, opts, cfg)
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.StringVarP(&opts.source, "source", "s", "", "power type document path or URL")
	flags.StringVarP(&opts.powerType, "power-type", "p", "", "preselected power type")
	flags.StringArrayVar(&opts.scopes, "scope", nil, "only render fields in this scope (node, bmc); repeatable")
	flags.BoolVar(&opts.chassis, "chassis", false, "only offer power types that can probe a chassis")
	flags.BoolVar(&opts.hideSelect, "hide-select", false, "do not render the power type selector")
	flags.BoolVar(&opts.disableSelect, "disable-select", false, "render the power type selector disabled")
	flags.BoolVar(&opts.disableFields, "disable-fields", false, "render power parameters disabled")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&opts.format, "format", "json", "prompt output format (json, yaml)")
	flags.StringVar(&opts.theme, "theme", "", "theme name, optionally name:variant")
	flags.StringVar(&opts.presets, "presets", "", "YAML/JSON file with label, required, and hidden overrides")
	flags.DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "remote load timeout")

	root.AddCommand(newRenderCmd(opts), newPromptCmd(opts), newLintCmd())
	return root
}

// mergeFlags layers explicitly set flags over the file configuration.
func mergeFlags(cmd *cobra.Command, opts *options, cfg config.Config) config.Config {
	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.Source = opts.source
	}
	if changed("power-type") {
		cfg.PowerType = opts.powerType
	}
	if changed("scope") {
		cfg.Scopes = opts.scopes
	}
	if changed("chassis") {
		cfg.Chassis = opts.chassis
	}
	if changed("hide-select") {
		cfg.HideSelect = opts.hideSelect
	}
	if changed("disable-select") {
		cfg.DisableSelect = opts.disableSelect
	}
	if changed("disable-fields") {
		cfg.DisableFields = opts.disableFields
	}
	if changed("output") {
		cfg.Output = opts.output
	}
	if changed("format") {
		cfg.Format = opts.format
	}
	if changed("theme") {
		cfg.Theme, cfg.ThemeVariant = splitTheme(opts.theme)
	}
	if changed("presets") {
		cfg.Presets = opts.presets
	}
	if changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	return cfg
}

func splitTheme(raw string) (string, string) {
	name, variant, _ := strings.Cut(raw, ":")
	return name, variant
}
