package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage LLM models",
	Long:  `Commands for listing and verifying the configured LLM models.`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured models",
	Long:  `List all LLM models configured in the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		green := color.New(color.FgGreen)
		cyan := color.New(color.FgCyan)

		active := cfg.SelectModelName(modelName)

		bold.Fprintln(out, "Configured Models:")
		fmt.Fprintln(out)

		for _, name := range cfg.ModelNames() {
			model := cfg.Models[name]

			switch {
			case name == active:
				green.Fprintf(out, "  ✓ %s (active)\n", name)
			case name == cfg.FallbackModel:
				fmt.Fprintf(out, "    %s (fallback)\n", name)
			default:
				fmt.Fprintf(out, "    %s\n", name)
			}

			cyan.Fprintf(out, "      Provider: %s\n", model.Provider)
			cyan.Fprintf(out, "      Model:    %s\n", model.Model)
			if model.BaseURL != "" {
				cyan.Fprintf(out, "      Base URL: %s\n", model.BaseURL)
			}
			fmt.Fprintln(out)
		}

		return nil
	},
}

var modelsValidateCmd = &cobra.Command{
	Use:   "validate [name...]",
	Short: "Check that models are usable",
	Long: `Resolve the credentials of each model and check that its backend can
serve it. For ollama the local server is asked whether the model is pulled.
Without arguments every configured model is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		names := args
		if len(names) == 0 {
			names = cfg.ModelNames()
		}

		out := cmd.OutOrStdout()
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)

		failed := 0
		err = runInterruptible(cmd.Context(), func(ctx context.Context) error {
			for _, name := range names {
				if err := validateModel(ctx, cfg, name); err != nil {
					failed++
					red.Fprintf(out, "  ✗ %s: %v\n", name, err)
					continue
				}
				green.Fprintf(out, "  ✓ %s\n", name)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d models failed validation", failed, len(names))
		}
		return nil
	},
}

func validateModel(ctx context.Context, cfg *config.Config, name string) error {
	provider, err := llm.NewProviderFromConfig(cfg, name)
	if err != nil {
		return err
	}
	return provider.ValidateConfig(ctx)
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsValidateCmd)
	rootCmd.AddCommand(modelsCmd)
}
