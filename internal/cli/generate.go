package cli

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/agent"
	"github.com/huimingz/commitflow/internal/git"
	"github.com/huimingz/commitflow/internal/ui"
)

var (
	generateContext  string
	generateLanguage string
	generateCopy     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a commit message without committing",
	Long: `Generate a commit message for the staged changes and print it.

Nothing is committed. Use --copy to put the message on the clipboard.

Examples:
  commitflow generate
  commitflow generate --copy
  commitflow generate -m local -c "Part of the auth rework"`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateContext, "context", "c", "", "Additional context to help AI generate better message")
	generateCmd.Flags().StringVarP(&generateLanguage, "language", "l", "", "Output language (en, zh, zh-tw, ja, ko)")
	generateCmd.Flags().BoolVar(&generateCopy, "copy", false, "Copy the message to the clipboard")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := loadApp(out)
	if err != nil {
		return err
	}

	commitAgent, err := a.commitAgent(generateLanguage)
	if err != nil {
		return err
	}

	var resp *agent.CommitResponse
	err = runInterruptible(cmd.Context(), func(ctx context.Context) error {
		var err error
		resp, err = commitAgent.GenerateCommitMessage(ctx, agent.CommitRequest{Context: generateContext})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to generate commit message: %w", err)
	}

	if err := ui.ShowCommitMessage(resp.Message, a.theme, out); err != nil {
		return err
	}

	if generateCopy {
		if err := clipboard.WriteAll(resp.Message); err != nil {
			_ = a.printer.PrintWarning(fmt.Sprintf("Could not copy to clipboard: %v", err))
		} else {
			_ = a.printer.PrintSuccess("Copied to clipboard")
		}
	}

	fmt.Fprintf(out, "\nTo commit:\n  %s\n", git.FormatCommitCommand(resp.Message))
	return nil
}
