package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/log"
	"github.com/huimingz/commitflow/internal/ui"
)

var (
	// Global flags
	debugMode  bool
	configFile string
	modelName  string
	dryRun     bool

	// Version info
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// Exit codes
const (
	ExitOK        = 0
	ExitError     = 1
	ExitCancelled = 130
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commitflow",
	Short: "AI-assisted commit workflow for git",
	Long: `commitflow analyzes your staged changes, asks a language model for a
tagged one-line commit message and runs the steps around the commit:
  - staging and pre-commit checks (build, lint, test, ...)
  - message generation with review, regeneration and editing
  - pushing, including upstream setup

Use "commitflow [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode || log.DebugFromEnv() {
			debugMode = true
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// Execute runs the root command and reports its error
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(err)
	}
	return err
}

// ExitCode maps an Execute error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ui.ErrCancelled):
		return ExitCancelled
	default:
		return ExitError
	}
}

func reportError(err error) {
	if errors.Is(err, ui.ErrCancelled) {
		fmt.Fprintln(os.Stderr, "Operation cancelled.")
		return
	}
	log.Error("%v", err)
}

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, commit, time string) {
	version = v
	gitCommit = commit
	buildTime = time
}

// GetVersionInfo returns version information
func GetVersionInfo() (string, string, string) {
	return version, gitCommit, buildTime
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output (also COMMITFLOW_DEBUG=1)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: ./.commitflow.json, then ~/.commitflow.json)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model to use (overrides activeModel and COMMITFLOW_MODEL)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without changing the repository")
}
