package log

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, debug bool) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevNoColor := color.NoColor
	color.NoColor = true
	SetOutput(buf)
	SetDebugMode(debug)
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		SetOutput(os.Stderr)
		SetDebugMode(false)
	})
	return buf
}

func TestDebug_OnlyInDebugMode(t *testing.T) {
	buf := captureOutput(t, false)
	Debug("hidden %d", 1)
	DebugDuration("op", time.Second)
	DebugPrompt("prompt", []*schema.Message{schema.UserMessage("x")})
	assert.Empty(t, buf.String())

	SetDebugMode(true)
	assert.True(t, IsDebugMode())
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
}

func TestDebugPrompt(t *testing.T) {
	buf := captureOutput(t, true)
	DebugPrompt("request", []*schema.Message{
		schema.SystemMessage("You are a commit assistant\nmore"),
		nil,
		schema.UserMessage("diff"),
	})

	out := buf.String()
	assert.Contains(t, out, "request: 3 messages")
	assert.Contains(t, out, "1. system")
	assert.Contains(t, out, "You are a commit assistant")
	assert.NotContains(t, out, "more")
	assert.Contains(t, out, "3. user (4 chars)")
}

func TestDebugConfig(t *testing.T) {
	buf := captureOutput(t, true)
	DebugConfig("config", map[string]string{"activeModel": "local"})
	assert.Contains(t, buf.String(), `"activeModel": "local"`)
}

func TestInfoWarnError(t *testing.T) {
	buf := captureOutput(t, false)
	Info("hello %s", "there")
	Warn("careful")
	Error("broken")

	out := buf.String()
	assert.Contains(t, out, "hello there\n")
	assert.Contains(t, out, "Warning: careful\n")
	assert.Contains(t, out, "Error: broken\n")
}

func TestDebugFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"no", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(DebugEnv, tt.value)
			assert.Equal(t, tt.want, DebugFromEnv())
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "日本...", truncate("日本語です", 2))
}

func TestDebugCommand(t *testing.T) {
	buf := captureOutput(t, true)
	DebugCommand("git", []string{"diff", "--cached"}, 1500*time.Microsecond, nil)
	DebugCommand("sh", []string{"-c", "go vet ./..."}, time.Second, errors.New("exit status 1\nstderr"))

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] $ git diff --cached (2ms)")
	assert.Contains(t, out, "[DEBUG] $ sh -c go vet ./... (1s, failed: exit status 1)")
	assert.NotContains(t, out, "stderr")
}
