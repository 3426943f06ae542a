package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/prompt"
	"github.com/huimingz/commitflow/pkg/lang"
)

var (
	analyzeDiffFile string
	analyzeContext  string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show what the model would be told about the staged changes",
	Long: `Assemble the diff context of the staged changes (file statistics,
changed symbols, similar commits) and print it together with the prompt.
No model is called.

Examples:
  commitflow analyze
  commitflow analyze --diff-file change.patch
  commitflow analyze --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDiffFile, "diff-file", "", "Analyze a unified diff file instead of the staged changes")
	analyzeCmd.Flags().StringVarP(&analyzeContext, "context", "c", "", "Additional context to include in the prompt")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the diff context as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := loadApp(out)
	if err != nil {
		return err
	}

	var dc *diffctx.DiffContext
	err = runInterruptible(cmd.Context(), func(ctx context.Context) error {
		var err error
		assembler := a.assembler()
		if analyzeDiffFile == "" {
			dc, err = assembler.Assemble(ctx)
			return err
		}
		data, err := os.ReadFile(analyzeDiffFile)
		if err != nil {
			return fmt.Errorf("failed to read diff file: %w", err)
		}
		dc, err = assembler.AssembleDiff(ctx, string(data))
		return err
	})
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dc)
	}

	printDiffContext(out, dc)

	messages := prompt.Build(dc, prompt.Options{
		Language:    lang.ParseLanguage(a.cfg.GetLanguage("")).PromptName(),
		Emoji:       a.cfg.Emoji,
		UserContext: analyzeContext,
	})
	bold := color.New(color.Bold)
	for _, m := range messages {
		fmt.Fprintln(out)
		bold.Fprintf(out, "── %s prompt ──\n", m.Role)
		fmt.Fprintln(out, m.Content)
	}
	return nil
}

func printDiffContext(out io.Writer, dc *diffctx.DiffContext) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(out, "📊 Staged Changes")
	fmt.Fprintf(out, "  %d files changed, ", dc.Stats.FilesChanged)
	green.Fprintf(out, "+%d", dc.Stats.Insertions)
	fmt.Fprint(out, " ")
	red.Fprintf(out, "-%d", dc.Stats.Deletions)
	fmt.Fprintln(out)
	if dc.Truncated {
		fmt.Fprintln(out, "  (diff truncated)")
	}
	for _, f := range dc.Files {
		fmt.Fprintf(out, "    %-8s %s (+%d/-%d)\n", f.Status, f.Path, f.Insertions, f.Deletions)
	}

	if dc.CodeContext != nil && len(dc.CodeContext.Symbols) > 0 {
		fmt.Fprintln(out)
		bold.Fprintln(out, "🔍 Code Changes")
		fmt.Fprintf(out, "  %s\n", dc.CodeContext.Summary)
		for _, s := range dc.CodeContext.Symbols {
			cyan.Fprintf(out, "    %s\n", prompt.FormatSymbol(s))
		}
	}

	if len(dc.SimilarCommits) > 0 {
		fmt.Fprintln(out)
		bold.Fprintln(out, "🕘 Similar Commits")
		for _, c := range dc.SimilarCommits {
			fmt.Fprintf(out, "  %3.0f%% %s %s\n", c.Similarity*100, shortHash(c.Hash), c.Message)
		}
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
