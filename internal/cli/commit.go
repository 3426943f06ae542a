package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/log"
	"github.com/huimingz/commitflow/internal/ui"
	"github.com/huimingz/commitflow/internal/workflow"
)

var (
	commitContext  string
	commitLanguage string
	commitAutoYes  bool
	commitWorkflow string
	commitSteps    []string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Run the commit workflow",
	Long: `Run a workflow of pre-commit steps around an AI-generated commit message.

The default workflow stages changes after confirmation, runs the configured
checks, lets you review the generated message and pushes after confirmation.

Built-in workflows:
  default  stage-confirm, check, commit-interactive, push-confirm
  quick    stage, commit
  safe     stage, check, commit-confirm
  ci       check, commit, push

Examples:
  commitflow commit
  commitflow commit --workflow quick
  commitflow commit --steps stage,check-lint,commit-confirm
  commitflow commit -c "Fixes the login redirect loop" -y
  commitflow commit --dry-run`,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitContext, "context", "c", "", "Additional context to help AI generate better message")
	commitCmd.Flags().StringVarP(&commitLanguage, "language", "l", "", "Output language (en, zh, zh-tw, ja, ko)")
	commitCmd.Flags().BoolVarP(&commitAutoYes, "yes", "y", false, "Answer every confirmation with yes")
	commitCmd.Flags().StringVarP(&commitWorkflow, "workflow", "w", "", "Workflow to run (built-in or from the config)")
	commitCmd.Flags().StringSliceVar(&commitSteps, "steps", nil, "Comma-separated steps to run instead of a workflow")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := loadApp(out)
	if err != nil {
		return err
	}

	steps, err := resolveSteps(a.cfg, commitWorkflow, commitSteps)
	if err != nil {
		return err
	}
	log.Debug("Workflow steps: %v", steps)

	generator, err := a.messageGenerator(commitLanguage, dryRun)
	if err != nil {
		return err
	}

	engine, err := workflow.NewEngine(workflow.Options{
		Git:      a.git,
		Agent:    generator,
		Printer:  a.printer,
		Checks:   a.checkRunner(),
		Prompter: ui.NewPrompter(os.Stdin, out),
		Prompts:  a.cfg.Prompts,
		Context:  commitContext,
	})
	if err != nil {
		return fmt.Errorf("failed to create workflow engine: %w", err)
	}

	var result workflow.Result
	err = runInterruptible(cmd.Context(), func(ctx context.Context) error {
		result = engine.Run(ctx, workflow.Config{
			Steps:       steps,
			Interactive: ui.IsTerminal(os.Stdin),
			DryRun:      dryRun,
			AssumeYes:   commitAutoYes,
		})
		return result.Err
	})
	if err != nil {
		return err
	}

	if dryRun {
		_ = a.printer.PrintSuccess("Dry run completed, nothing was changed")
		return nil
	}
	_ = a.printer.PrintSuccess("Workflow completed")
	return nil
}

// resolveSteps picks the steps to run
// Priority: --steps > --workflow > config workflow > default preset
func resolveSteps(cfg *config.Config, workflowName string, steps []string) ([]workflow.StepID, error) {
	if len(steps) > 0 {
		return workflow.ParseSteps(steps)
	}
	if workflowName != "" {
		return workflow.ResolvePreset(workflowName, cfg.Workflows)
	}
	if len(cfg.Workflow) > 0 {
		parsed, err := workflow.ParseSteps(cfg.Workflow)
		if err != nil {
			return nil, fmt.Errorf("invalid workflow in config: %w", err)
		}
		return parsed, nil
	}
	return workflow.ResolvePreset(workflow.DefaultPreset, cfg.Workflows)
}
