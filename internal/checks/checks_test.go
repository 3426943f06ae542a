package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestCommandRunner_Run(t *testing.T) {
	runner := NewRunner(map[string]CheckConfig{
		"build":     {Command: "echo building && true"},
		"lint":      {Command: "echo 'lint warning' >&2; exit 1", Blocking: boolPtr(false), Autofix: "true"},
		"test":      {Command: "exit 3"},
		"typecheck": {Command: "true", Enabled: boolPtr(false)},
	}, t.TempDir())

	tests := []struct {
		name        string
		checks      []string
		wantTotal   int
		wantPassed  int
		wantFailed  int
		wantProceed bool
	}{
		{"single passing", []string{"build"}, 1, 1, 0, true},
		{"non-blocking failure proceeds", []string{"build", "lint"}, 2, 1, 1, true},
		{"blocking failure stops", []string{"build", "test"}, 2, 1, 1, false},
		{"disabled is skipped", []string{"typecheck"}, 0, 0, 0, true},
		{"unknown is skipped", []string{"format"}, 0, 0, 0, true},
		{"nothing to run", nil, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := runner.Run(context.Background(), tt.checks)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, summary.Total)
			assert.Equal(t, tt.wantPassed, summary.Passed)
			assert.Equal(t, tt.wantFailed, summary.Failed)
			assert.Equal(t, tt.wantProceed, summary.CanProceed)
			assert.Len(t, summary.Results, tt.wantTotal)
		})
	}
}

func TestCommandRunner_ResultDetails(t *testing.T) {
	runner := NewRunner(map[string]CheckConfig{
		"build": {Command: "echo building"},
		"lint":  {Command: "echo 'lint warning' >&2; exit 1", Blocking: boolPtr(false), Autofix: "true"},
	}, t.TempDir())

	summary, err := runner.Run(context.Background(), []string{"lint", "build"})
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)

	lint := summary.Results[0]
	assert.Equal(t, "lint", lint.Name)
	assert.False(t, lint.Passed)
	assert.False(t, lint.Blocking)
	assert.True(t, lint.HasAutofix)
	assert.Equal(t, "lint warning", lint.Output)

	build := summary.Results[1]
	assert.True(t, build.Passed)
	assert.True(t, build.Blocking)
	assert.False(t, build.HasAutofix)
	assert.Equal(t, "building", build.Output)
	assert.Greater(t, build.Duration, time.Duration(0))

	assert.Empty(t, summary.BlockingFailures())
}

func TestCommandRunner_RunAll(t *testing.T) {
	runner := NewRunner(map[string]CheckConfig{
		"b": {Command: "true"},
		"a": {Command: "exit 1"},
		"c": {Command: "true", Enabled: boolPtr(false)},
	}, t.TempDir())

	assert.Equal(t, []string{"a", "b", "c"}, runner.Names())

	summary, err := runner.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, "a", summary.Results[0].Name)
	assert.False(t, summary.CanProceed)
	require.Len(t, summary.BlockingFailures(), 1)
	assert.Equal(t, "a", summary.BlockingFailures()[0].Name)
}

func TestCommandRunner_Timeout(t *testing.T) {
	runner := NewRunner(map[string]CheckConfig{
		"slow": {Command: "sleep 10", Timeout: 1},
	}, t.TempDir())

	start := time.Now()
	summary, err := runner.Run(context.Background(), []string{"slow"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 8*time.Second)

	require.Len(t, summary.Results, 1)
	result := summary.Results[0]
	assert.False(t, result.Passed)
	assert.True(t, result.TimedOut)
	assert.Contains(t, result.Output, "timed out after 1s")
	assert.False(t, summary.CanProceed)
}

func TestCommandRunner_Cancelled(t *testing.T) {
	runner := NewRunner(map[string]CheckConfig{
		"build": {Command: "true"},
	}, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, []string{"build"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommandRunner_WorkDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644))

	runner := NewRunner(map[string]CheckConfig{
		"marker": {Command: "test -f marker.txt"},
	}, dir)

	summary, err := runner.Run(context.Background(), []string{"marker"})
	require.NoError(t, err)
	assert.True(t, summary.CanProceed)
	assert.Equal(t, 1, summary.Passed)
}

func TestCommandRunner_Fix(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(map[string]CheckConfig{
		"format": {Command: "test -f formatted", Autofix: "touch formatted"},
		"build":  {Command: "true"},
	}, dir)

	summary, err := runner.Run(context.Background(), []string{"format"})
	require.NoError(t, err)
	assert.False(t, summary.CanProceed)

	result, err := runner.Fix(context.Background(), "format")
	require.NoError(t, err)
	assert.True(t, result.Passed)

	summary, err = runner.Run(context.Background(), []string{"format"})
	require.NoError(t, err)
	assert.True(t, summary.CanProceed)

	_, err = runner.Fix(context.Background(), "build")
	assert.ErrorContains(t, err, "no autofix")

	_, err = runner.Fix(context.Background(), "missing")
	assert.ErrorContains(t, err, "not configured")
}

func TestCommandRunner_Lookup(t *testing.T) {
	runner := NewRunner(map[string]CheckConfig{"build": {Command: "go build ./..."}}, "")

	c, ok := runner.Lookup("build")
	assert.True(t, ok)
	assert.Equal(t, "go build ./...", c.Command)

	_, ok = runner.Lookup("lint")
	assert.False(t, ok)
}
