package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/history"
	"github.com/huimingz/commitflow/internal/symbols"
)

const testConfig = `{
  "activeModel": "default",
  "models": {
    "default": {"provider": "openai", "model": "gpt-4o", "apiKey": "sk-1234567890abcd"}
  },
  "checks": {
    "lint": {"command": "golangci-lint run"}
  }
}`

// withConfigFile points the --config flag at a temporary config for one test
func withConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	previous := configFile
	configFile = path
	t.Cleanup(func() { configFile = previous })
	return path
}

func runCommand(t *testing.T, run func(cmd *cobra.Command, args []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := run(cmd, args)
	return buf.String(), err
}

func TestConfigShow_MasksKeys(t *testing.T) {
	path := withConfigFile(t, testConfig)

	out, err := runCommand(t, configShowCmd.RunE)
	require.NoError(t, err)

	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "activeModel: default")
	assert.Contains(t, out, "****abcd")
	assert.NotContains(t, out, "sk-1234567890abcd")
	assert.Contains(t, out, "golangci-lint run")
}

func TestConfigPath(t *testing.T) {
	path := withConfigFile(t, testConfig)

	out, err := runCommand(t, configPathCmd.RunE)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestInitPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	local, err := initPath(true)
	require.NoError(t, err)
	assert.Equal(t, config.FileName, local)

	global, err := initPath(false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, config.FileName), global)
}

func TestInitCmd_WritesTemplate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prevLocal, prevForce := initLocal, initForce
	t.Cleanup(func() { initLocal, initForce = prevLocal, prevForce })
	initLocal, initForce = false, false

	out, err := runCommand(t, initCmd.RunE)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")

	path := filepath.Join(home, config.FileName)
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ActiveModel)

	_, err = runCommand(t, initCmd.RunE)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initForce = true
	_, err = runCommand(t, initCmd.RunE)
	assert.NoError(t, err)
}

func TestPrintDiffContext(t *testing.T) {
	dc := &diffctx.DiffContext{
		FilesChanged: 2,
		Truncated:    true,
		Stats:        diffctx.Stats{FilesChanged: 2, Insertions: 12, Deletions: 3},
		Files: []diffctx.FileChange{
			{Path: "internal/auth/login.go", Status: diffctx.StatusModified, Insertions: 10, Deletions: 3},
			{Path: "internal/auth/token.go", Status: diffctx.StatusAdded, Insertions: 2},
		},
		CodeContext: &symbols.CodeContext{
			Summary: "1 function added",
			Symbols: []symbols.CodeSymbol{
				{Name: "refreshToken", Type: symbols.TypeFunction, Action: symbols.ActionAdded, File: "internal/auth/token.go"},
			},
		},
		SimilarCommits: []history.RankedCommit{
			{Hash: "0123456789abcdef", Message: "[feature] add token expiry", Similarity: 0.42},
		},
	}

	var buf bytes.Buffer
	printDiffContext(&buf, dc)
	out := buf.String()

	assert.Contains(t, out, "2 files changed")
	assert.Contains(t, out, "+12")
	assert.Contains(t, out, "-3")
	assert.Contains(t, out, "(diff truncated)")
	assert.Contains(t, out, "internal/auth/login.go (+10/-3)")
	assert.Contains(t, out, `ADDED: function "refreshToken" in internal/auth/token.go`)
	assert.Contains(t, out, "42% 0123456 [feature] add token expiry")
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123456", shortHash("0123456789"))
	assert.Equal(t, "abc", shortHash("abc"))
}
