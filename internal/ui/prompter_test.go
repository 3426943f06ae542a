package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitflow/internal/config"
)

func TestTerminalPrompter_SharesInput(t *testing.T) {
	input := strings.NewReader("y\n3\n[bugfix] handle nil config\n")
	output := &bytes.Buffer{}
	p := NewPrompter(input, output)

	ok, err := p.Confirm("Stage all changes?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	idx, err := p.Select("What next?", []string{"Accept", "Retry", "Edit", "Cancel"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	msg, err := p.Input("Commit message", "[bugfix] handle nil")
	require.NoError(t, err)
	assert.Equal(t, "[bugfix] handle nil config", msg)

	assert.Contains(t, output.String(), "Commit message [[bugfix] handle nil]: ")
}

func TestTerminalPrompter_Cancelled(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Confirm("Push?", true)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = p.Select("Pick", []string{"a"}, 0)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = p.Input("Message", "x")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestInputWithDefault(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultValue string
		want         string
	}{
		{"keeps default on empty input", "\n", "[feature] add login", "[feature] add login"},
		{"uses typed value", "  [bugfix] fix crash  \n", "[feature] add login", "[bugfix] fix crash"},
		{"no default", "hello\n", "", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InputWithDefault("Message", tt.defaultValue, strings.NewReader(tt.input), &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputWithDefault_Inline(t *testing.T) {
	var gotPrompt, gotInitial string
	read := func(prompt, initial string) (string, error) {
		gotPrompt, gotInitial = prompt, initial
		return "", nil
	}

	got, err := inputWithDefault(read, "Message", "[feature] add login", true)
	require.NoError(t, err)
	assert.Equal(t, "[feature] add login", got)
	assert.Equal(t, "Message: ", gotPrompt)
	assert.Equal(t, "[feature] add login", gotInitial)
}

func TestNewTheme(t *testing.T) {
	theme := NewTheme(config.UIConfig{Theme: "ocean", Color: true, Spinner: false})
	assert.Equal(t, "ocean", theme.Name)
	assert.True(t, theme.Color)
	assert.False(t, theme.Spinner)

	theme = NewTheme(config.UIConfig{Theme: "does-not-exist"})
	assert.Equal(t, "default", theme.Name)
	assert.False(t, theme.Color)

	assert.True(t, DefaultTheme().Spinner)
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestSpin_PlainOutput(t *testing.T) {
	output := &bytes.Buffer{}

	got, err := Spin(context.Background(), DefaultTheme(), output, "Generating commit message", func(ctx context.Context) (string, error) {
		return "[feature] add login", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "[feature] add login", got)
	assert.Contains(t, output.String(), "Generating commit message")

	wantErr := errors.New("boom")
	_, err = Spin(context.Background(), DefaultTheme(), output, "again", func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
