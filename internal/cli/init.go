package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/huimingz/commitflow/internal/config"
)

var (
	initForce bool
	initLocal bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize commitflow configuration",
	Long: `Create a configuration file with example models, checks and workflows.

The file is written to ~/.commitflow.json, or to ./.commitflow.json with
--local. Edit it to add your API keys and customize settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := initPath(initLocal)
		if err != nil {
			return err
		}

		if err := config.WriteTemplate(configPath, initForce); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Configuration file created: %s\n", configPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Edit the config file and pick your models")
		fmt.Fprintln(out, "  2. Set API keys through environment variables (recommended)")
		fmt.Fprintln(out, "  3. Run 'commitflow models validate' to check the setup")
		fmt.Fprintln(out, "  4. Run 'commitflow commit' in a repository with changes")
		return nil
	},
}

func initPath(local bool) (string, error) {
	if local {
		return config.FileName, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, config.FileName), nil
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	initCmd.Flags().BoolVar(&initLocal, "local", false, "Write the config file to the current directory")
	rootCmd.AddCommand(initCmd)
}
