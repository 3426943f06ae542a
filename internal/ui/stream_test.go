package ui

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitflow/internal/config"
)

func TestNewStreamPrinter(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf)
	require.NotNil(t, printer)
	assert.Equal(t, "default", printer.Theme().Name)
	assert.Equal(t, &buf, printer.Writer())
}

func TestStreamPrinter_Messages(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *StreamPrinter) error
		want  string
	}{
		{"step with total", func(p *StreamPrinter) error { return p.PrintStep(2, 4, "check") }, "Step 2/4: check"},
		{"step without total", func(p *StreamPrinter) error { return p.PrintStep(1, 0, "stage") }, "Step 1: stage"},
		{"progress", func(p *StreamPrinter) error { return p.PrintProgress("Analyzing staged changes...") }, "Analyzing"},
		{"info", func(p *StreamPrinter) error { return p.PrintInfo("Model: local") }, "Model: local"},
		{"success", func(p *StreamPrinter) error { return p.PrintSuccess("Committed") }, "Committed"},
		{"warning", func(p *StreamPrinter) error { return p.PrintWarning("lint failed") }, "lint failed"},
		{"error", func(p *StreamPrinter) error { return p.PrintError("something went wrong") }, "Error: something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printer := NewStreamPrinter(&buf, WithColor(false))
			require.NoError(t, tt.print(printer))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestStreamPrinter_PrintCheckResult(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf, WithColor(false))

	require.NoError(t, printer.PrintCheckResult("build", true, true, 120*time.Millisecond))
	require.NoError(t, printer.PrintCheckResult("test", false, true, 2*time.Second))
	require.NoError(t, printer.PrintCheckResult("lint", false, false, time.Second))

	out := buf.String()
	assert.Contains(t, out, "✓ build (120ms)")
	assert.Contains(t, out, "✗ test (2.00s)")
	assert.Contains(t, out, "! lint (1.00s, non-blocking)")
}

func TestStreamPrinter_PrintOutput(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf, WithColor(false))

	require.NoError(t, printer.PrintOutput(""))
	assert.Empty(t, buf.String())

	require.NoError(t, printer.PrintOutput("line one\nline two\n"))
	assert.Equal(t, "    line one\n    line two\n", buf.String())
}

func TestStreamPrinter_PrintDetail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewStreamPrinter(&buf).PrintDetail("hidden"))
	assert.Empty(t, buf.String())

	require.NoError(t, NewStreamPrinter(&buf, WithVerbose(true)).PrintDetail("shown"))
	assert.Contains(t, buf.String(), "shown")
}

func TestExecutionStats(t *testing.T) {
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	endTime := time.Date(2024, 1, 1, 12, 0, 2, 0, time.UTC)

	stats := &ExecutionStats{
		StartTime:      startTime,
		EndTime:        endTime,
		StepsCompleted: 3,
		TotalSteps:     4,
	}

	assert.Equal(t, 2*time.Second, stats.Duration())
}

func TestStreamPrinter_PrintStats(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf)

	now := time.Now()
	stats := &ExecutionStats{
		StartTime:      now,
		EndTime:        now.Add(1500 * time.Millisecond),
		StepsCompleted: 3,
		TotalSteps:     4,
	}

	require.NoError(t, printer.PrintStats(stats))
	assert.Contains(t, buf.String(), "3/4")
	assert.Contains(t, buf.String(), "1.50s")

	require.NoError(t, printer.PrintStats(nil))
}

func TestStreamPrinterOptions(t *testing.T) {
	var buf bytes.Buffer

	t.Run("with color disabled", func(t *testing.T) {
		printer := NewStreamPrinter(&buf, WithColor(false))
		require.NotNil(t, printer)
		assert.False(t, printer.colorEnabled)
	})

	t.Run("with verbose mode", func(t *testing.T) {
		printer := NewStreamPrinter(&buf, WithVerbose(true))
		require.NotNil(t, printer)
		assert.True(t, printer.verbose)
	})

	t.Run("with theme", func(t *testing.T) {
		theme := NewTheme(config.UIConfig{Theme: "mono", Color: false})
		printer := NewStreamPrinter(&buf, WithTheme(theme))
		assert.False(t, printer.colorEnabled)
		assert.Equal(t, "mono", printer.Theme().Name)
	})
}

func TestStreamPrinter_Newline(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf)

	err := printer.Newline()
	require.NoError(t, err)
	assert.Equal(t, "\n", buf.String())
}

func TestStreamPrinter_CustomWriter(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()

	printer := NewStreamPrinter(pw, WithColor(false))

	go func() {
		defer pw.Close()
		_ = printer.PrintInfo("test")
	}()

	buf := make([]byte, 100)
	n, _ := pr.Read(buf)
	assert.Contains(t, string(buf[:n]), "test")
}
