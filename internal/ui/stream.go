package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// ExecutionStats holds statistics about one workflow run
type ExecutionStats struct {
	StartTime      time.Time
	EndTime        time.Time
	StepsCompleted int
	TotalSteps     int
}

// Duration returns the execution duration
func (s *ExecutionStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// StreamPrinterOption is a functional option for StreamPrinter
type StreamPrinterOption func(*StreamPrinter)

// WithTheme applies a theme. Its Color setting controls colored output.
func WithTheme(theme Theme) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.theme = theme
		p.colorEnabled = theme.Color
	}
}

// WithColor enables or disables color output
func WithColor(enabled bool) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.colorEnabled = enabled
	}
}

// WithVerbose enables or disables verbose mode
func WithVerbose(verbose bool) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.verbose = verbose
	}
}

// StreamPrinter handles progress output to the terminal
type StreamPrinter struct {
	writer       io.Writer
	theme        Theme
	colorEnabled bool
	verbose      bool
}

// NewStreamPrinter creates a new StreamPrinter
func NewStreamPrinter(writer io.Writer, opts ...StreamPrinterOption) *StreamPrinter {
	p := &StreamPrinter{
		writer:       writer,
		theme:        DefaultTheme(),
		colorEnabled: true,
		verbose:      false,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Writer returns the underlying writer
func (p *StreamPrinter) Writer() io.Writer {
	return p.writer
}

// Theme returns the printer's theme
func (p *StreamPrinter) Theme() Theme {
	return p.theme
}

func (p *StreamPrinter) printf(attr color.Attribute, format string, args ...interface{}) error {
	if p.colorEnabled {
		_, err := color.New(attr).Fprintf(p.writer, format, args...)
		return err
	}
	_, err := fmt.Fprintf(p.writer, format, args...)
	return err
}

// PrintStep prints a workflow step header
func (p *StreamPrinter) PrintStep(step, total int, message string) error {
	if total > 0 {
		return p.printf(color.FgBlue, "📋 Step %d/%d: %s\n", step, total, message)
	}
	return p.printf(color.FgBlue, "📋 Step %d: %s\n", step, message)
}

// PrintProgress prints a progress message
func (p *StreamPrinter) PrintProgress(message string) error {
	return p.printf(color.FgYellow, "⏳ %s\n", message)
}

// PrintInfo prints an info message
func (p *StreamPrinter) PrintInfo(message string) error {
	return p.printf(color.FgCyan, "ℹ️  %s\n", message)
}

// PrintDetail prints a dimmed line, only in verbose mode
func (p *StreamPrinter) PrintDetail(message string) error {
	if !p.verbose {
		return nil
	}
	return p.printf(color.FgHiBlack, "   %s\n", message)
}

// PrintSuccess prints a success message
func (p *StreamPrinter) PrintSuccess(message string) error {
	return p.printf(color.FgGreen, "✅ %s\n", message)
}

// PrintWarning prints a warning message
func (p *StreamPrinter) PrintWarning(message string) error {
	return p.printf(color.FgYellow, "⚠️  %s\n", message)
}

// PrintError prints an error message
func (p *StreamPrinter) PrintError(message string) error {
	return p.printf(color.FgRed, "❌ Error: %s\n", message)
}

// PrintCheckResult prints the outcome of one check command
func (p *StreamPrinter) PrintCheckResult(name string, passed, blocking bool, duration time.Duration) error {
	switch {
	case passed:
		return p.printf(color.FgGreen, "  ✓ %s (%s)\n", name, formatDuration(duration))
	case blocking:
		return p.printf(color.FgRed, "  ✗ %s (%s)\n", name, formatDuration(duration))
	default:
		return p.printf(color.FgYellow, "  ! %s (%s, non-blocking)\n", name, formatDuration(duration))
	}
}

// PrintOutput prints raw command output indented under the previous line
func (p *StreamPrinter) PrintOutput(output string) error {
	if output == "" {
		return nil
	}
	return p.printf(color.FgHiBlack, "%s\n", indent(output, "    "))
}

// PrintStats prints execution statistics
func (p *StreamPrinter) PrintStats(stats *ExecutionStats) error {
	if stats == nil {
		return nil
	}
	return p.printf(color.FgHiBlack, "\n📊 Steps: %d/%d | Time: %s\n",
		stats.StepsCompleted, stats.TotalSteps, formatDuration(stats.Duration()))
}

// Newline prints a newline
func (p *StreamPrinter) Newline() error {
	_, err := fmt.Fprintln(p.writer)
	return err
}

// formatDuration formats a duration in a human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
