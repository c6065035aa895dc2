package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-powerform/pkg/orchestrator"
	"github.com/goliatone/go-powerform/pkg/powertype"
	"github.com/goliatone/go-powerform/pkg/render"
	"github.com/goliatone/go-powerform/pkg/renderers/html"
	"github.com/goliatone/go-powerform/pkg/renderers/tui"
	"github.com/goliatone/go-powerform/pkg/validation"
)

func newRenderCmd(opts *options) *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the power parameter form as HTML",
		Example: `  powerform render --source power_types.json --power-type ipmi --scope bmc
  powerform render --config powerform.yaml --output form.html --validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []orchestrator.Option
			if validate {
				extra = append(extra, orchestrator.WithValidation())
			}
			orch, req, err := buildRequest(opts, extra...)
			if err != nil {
				return err
			}
			req.Renderer = html.Name
			req.RenderOptions = render.RenderOptions{
				ThemeName:    opts.cfg.Theme,
				ThemeVariant: opts.cfg.ThemeVariant,
			}

			out, err := orch.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.cfg.Output, out, opts.logger)
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "render required and choice errors for the current values")
	return cmd
}

func newPromptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Collect power parameters interactively",
		Long: `Asks for a power type (unless the selector is hidden or disabled) and
then for each of its parameters, and prints the result as JSON or YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, req, err := buildRequest(opts)
			if err != nil {
				return err
			}
			binder, err := orch.Binder(cmd.Context(), req)
			if err != nil {
				return err
			}

			renderer := tui.New(
				tui.WithLogger(opts.logger),
				tui.WithOutputFormat(tui.OutputFormat(opts.cfg.Format)),
			)
			out, err := renderer.Prompt(cmd.Context(), binder)
			if err != nil {
				return err
			}
			if result := validation.ValidateBinder(binder); !result.Valid {
				for _, issue := range result.Issues {
					opts.logger.Warn("invalid power parameter", zap.String("path", issue.Path), zap.String("message", issue.Message))
				}
			}
			return writeOutput(cmd.OutOrStdout(), opts.cfg.Output, out, opts.logger)
		},
	}
}

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint FILE...",
		Short: "Check power type documents for problems",
		Long: `Decodes each JSON or YAML power type document and reports choice fields
without choices, defaults outside their choices, and unknown scopes. Issues are
printed as JSON; the command fails when any document has issues.`,
		Args: cobra.MinimumNArgs(1),
		// lint needs neither the logger nor the config file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			report := make(map[string]validation.Result, len(args))
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				result := validation.LintDocument(data)
				if !result.Valid {
					failed++
				}
				report[path] = result
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents have issues", failed, len(args))
			}
			return nil
		},
	}
}

func buildRequest(opts *options, extra ...orchestrator.Option) (*orchestrator.Orchestrator, orchestrator.Request, error) {
	cfg := opts.cfg
	src, err := cfg.ResolveSource()
	if err != nil {
		return nil, orchestrator.Request{}, err
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(opts.logger),
		orchestrator.WithLoaderOptions(powertype.WithHTTPFallback(cfg.Timeout)),
	}
	if cfg.Presets != "" {
		data, err := os.ReadFile(cfg.Presets)
		if err != nil {
			return nil, orchestrator.Request{}, fmt.Errorf("read presets: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, orchestrator.Request{}, err
		}
		orchOpts = append(orchOpts, orchestrator.WithTransformer(preset))
	}
	orchOpts = append(orchOpts, extra...)

	fieldsCfg := cfg.Fields()
	req := orchestrator.Request{
		Source:    src,
		Values:    cfg.Values,
		PowerType: cfg.PowerType,
		Config:    &fieldsCfg,
	}
	return orchestrator.New(orchOpts...), req, nil
}

func writeOutput(stdout io.Writer, path string, data []byte, logger *zap.Logger) error {
	if path == "" {
		_, err := stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("form written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
