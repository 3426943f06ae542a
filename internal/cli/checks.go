package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/checks"
	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/ui"
)

var checksFix bool

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Manage pre-commit checks",
	Long:  `Commands for listing and running the checks configured in the configuration file.`,
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(cfg.Checks) == 0 {
			fmt.Fprintln(out, "No checks configured.")
			fmt.Fprintln(out, "\nAdd a \"checks\" section to the configuration file.")
			return nil
		}

		bold := color.New(color.Bold)
		cyan := color.New(color.FgCyan)
		gray := color.New(color.FgHiBlack)

		bold.Fprintln(out, "Configured Checks:")
		fmt.Fprintln(out)
		for _, name := range cfg.CheckNames() {
			c := cfg.Checks[name]
			var flags []string
			if !c.IsBlocking() {
				flags = append(flags, "non-blocking")
			}
			if !c.IsEnabled() {
				flags = append(flags, "disabled")
			}
			label := name
			if len(flags) > 0 {
				label += " (" + strings.Join(flags, ", ") + ")"
			}

			if c.IsEnabled() {
				fmt.Fprintf(out, "  %s\n", label)
			} else {
				gray.Fprintf(out, "  %s\n", label)
			}
			cyan.Fprintf(out, "      Command: %s\n", c.Command)
			if c.Autofix != "" {
				cyan.Fprintf(out, "      Autofix: %s\n", c.Autofix)
			}
			if c.Timeout > 0 {
				cyan.Fprintf(out, "      Timeout: %ds\n", c.Timeout)
			}
		}
		return nil
	},
}

var checksRunCmd = &cobra.Command{
	Use:   "run [name...]",
	Short: "Run checks",
	Long: `Run the named checks, or every enabled check when no name is given.

Examples:
  commitflow checks run
  commitflow checks run lint test
  commitflow checks run lint --fix`,
	RunE: runChecks,
}

func init() {
	checksRunCmd.Flags().BoolVar(&checksFix, "fix", false, "Run the autofix command of failing checks")
	checksCmd.AddCommand(checksListCmd)
	checksCmd.AddCommand(checksRunCmd)
	rootCmd.AddCommand(checksCmd)
}

func runChecks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.Checks) == 0 {
		return fmt.Errorf("no checks configured")
	}
	for _, name := range args {
		if _, ok := cfg.Checks[name]; !ok {
			return fmt.Errorf("check '%s' is not configured", name)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	out := cmd.OutOrStdout()
	printer := ui.NewStreamPrinter(out, ui.WithTheme(ui.NewTheme(cfg.UI)), ui.WithVerbose(debugMode))
	runner := checks.NewRunner(cfg.Checks, cwd)

	var summary checks.Summary
	err = runInterruptible(cmd.Context(), func(ctx context.Context) error {
		var err error
		if summary, err = runSelected(ctx, runner, args); err != nil {
			return err
		}
		printSummary(printer, summary)

		if !checksFix || summary.Failed == 0 {
			return nil
		}
		if !dryRun {
			summary, err = fixFailures(ctx, runner, printer, summary, args)
			return err
		}
		for _, r := range summary.Results {
			if !r.Passed && r.HasAutofix {
				c, _ := runner.Lookup(r.Name)
				_ = printer.PrintInfo(fmt.Sprintf("[dry-run] would run autofix for %s: %s", r.Name, c.Autofix))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !summary.CanProceed {
		return fmt.Errorf("%d of %d checks failed", summary.Failed, summary.Total)
	}
	_ = printer.PrintSuccess(fmt.Sprintf("%d/%d checks passed", summary.Passed, summary.Total))
	return nil
}

func runSelected(ctx context.Context, runner *checks.CommandRunner, names []string) (checks.Summary, error) {
	if len(names) == 0 {
		return runner.RunAll(ctx)
	}
	return runner.Run(ctx, names)
}

// fixFailures runs the autofix of every failed check that has one and
// returns the summary of a re-run when any autofix ran.
func fixFailures(ctx context.Context, runner *checks.CommandRunner, printer *ui.StreamPrinter, summary checks.Summary, names []string) (checks.Summary, error) {
	fixed := false
	for _, r := range summary.Results {
		if r.Passed || !r.HasAutofix {
			continue
		}
		_ = printer.PrintProgress(fmt.Sprintf("Running autofix for %s...", r.Name))
		result, err := runner.Fix(ctx, r.Name)
		if err != nil {
			return summary, err
		}
		fixed = true
		if !result.Passed {
			_ = printer.PrintWarning(fmt.Sprintf("Autofix for %s failed", r.Name))
			_ = printer.PrintOutput(result.Output)
		}
	}
	if !fixed {
		return summary, nil
	}

	_ = printer.PrintProgress("Re-running checks...")
	rerun, err := runSelected(ctx, runner, names)
	if err != nil {
		return summary, err
	}
	printSummary(printer, rerun)
	return rerun, nil
}

func printSummary(printer *ui.StreamPrinter, summary checks.Summary) {
	for _, r := range summary.Results {
		_ = printer.PrintCheckResult(r.Name, r.Passed, r.Blocking, r.Duration)
		if !r.Passed {
			_ = printer.PrintOutput(r.Output)
		}
	}
}
