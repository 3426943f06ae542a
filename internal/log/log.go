// Package log prints user-facing notices and, when enabled, debug traces of
// git commands, prompts and model calls.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
	"github.com/fatih/color"
)

// DebugEnv enables debug output when set to a true value
const DebugEnv = "COMMITFLOW_DEBUG"

var (
	debugMode           = false
	output    io.Writer = os.Stderr

	traceColor  = color.New(color.FgHiBlack)
	promptColor = color.New(color.FgCyan)
	timingColor = color.New(color.FgBlue)
	usageColor  = color.New(color.FgMagenta)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
)

// SetDebugMode enables or disables debug mode
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// IsDebugMode returns whether debug mode is enabled
func IsDebugMode() bool {
	return debugMode
}

// DebugFromEnv reports whether COMMITFLOW_DEBUG asks for debug output
func DebugFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(DebugEnv))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// SetOutput sets the output writer for log messages
func SetOutput(w io.Writer) {
	output = w
}

func printf(c *color.Color, format string, args ...interface{}) {
	if c == nil {
		fmt.Fprintf(output, format, args...)
		return
	}
	c.Fprintf(output, format, args...)
}

// Debug prints debug messages (only in debug mode)
func Debug(format string, args ...interface{}) {
	if debugMode {
		printf(traceColor, "[DEBUG] "+format+"\n", args...)
	}
}

// DebugConfig dumps a value as indented JSON.
// Callers pass an already redacted value.
func DebugConfig(label string, v interface{}) {
	if !debugMode {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printf(traceColor, "[DEBUG] %s: (failed to serialize: %v)\n", label, err)
		return
	}
	printf(traceColor, "[DEBUG] %s:\n%s\n", label, data)
}

// DebugCommand traces one external command with its outcome
func DebugCommand(name string, args []string, took time.Duration, err error) {
	if !debugMode {
		return
	}
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if err != nil {
		printf(traceColor, "[DEBUG] $ %s (%v, failed: %v)\n", truncate(line, 120), took.Round(time.Millisecond), firstLine(err.Error()))
		return
	}
	printf(traceColor, "[DEBUG] $ %s (%v)\n", truncate(line, 120), took.Round(time.Millisecond))
}

// DebugPrompt logs the role and size of each message sent to a model
func DebugPrompt(label string, messages []*schema.Message) {
	if !debugMode {
		return
	}
	printf(promptColor, "[DEBUG] %s: %d messages\n", label, len(messages))
	for i, m := range messages {
		if m == nil {
			continue
		}
		printf(nil, "[DEBUG]   %d. %s (%d chars): %s\n", i+1, m.Role, len(m.Content), truncate(firstLine(m.Content), 80))
	}
}

// DebugTokenUsage logs token usage in debug mode
func DebugTokenUsage(promptTokens, completionTokens, totalTokens int) {
	if debugMode {
		printf(usageColor, "[DEBUG] Token Usage: prompt=%d, completion=%d, total=%d\n",
			promptTokens, completionTokens, totalTokens)
	}
}

// DebugDuration logs execution duration in debug mode
func DebugDuration(operation string, duration time.Duration) {
	if debugMode {
		printf(timingColor, "[DEBUG] %s took %v\n", operation, duration)
	}
}

// Info prints informational messages
func Info(format string, args ...interface{}) {
	printf(nil, format+"\n", args...)
}

// Warn prints warning messages
func Warn(format string, args ...interface{}) {
	printf(warnColor, "Warning: "+format+"\n", args...)
}

// Error prints error messages
func Error(format string, args ...interface{}) {
	printf(errorColor, "Error: "+format+"\n", args...)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
