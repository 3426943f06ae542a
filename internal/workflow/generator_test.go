package workflow

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitflow/internal/llm"
	"github.com/huimingz/commitflow/internal/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevNoColor := color.NoColor
	color.NoColor = true
	log.SetOutput(buf)
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		log.SetOutput(os.Stderr)
	})
	return buf
}

func timeoutError() error {
	return &llm.ProviderError{Kind: llm.ErrorTimeout, Provider: "ollama", Err: context.DeadlineExceeded}
}

func TestGenerator_PrimarySucceeds(t *testing.T) {
	primary := &MockProvider{name: "ollama", reply: "[feature] add login"}
	fallback := &MockProvider{name: "openai", reply: "[feature] other"}

	text, err := NewGenerator(primary, fallback).GenerateText(context.Background(), nil, llm.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[feature] add login", text)
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerator_FallbackSucceeds(t *testing.T) {
	buf := captureLog(t)
	primary := &MockProvider{name: "ollama", err: timeoutError()}
	fallback := &MockProvider{name: "openai", reply: "[bugfix] handle timeout"}

	gen := NewGenerator(primary, fallback)
	assert.True(t, gen.HasFallback())

	text, err := gen.GenerateText(context.Background(), nil, llm.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[bugfix] handle timeout", text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)

	out := buf.String()
	assert.Contains(t, out, "Warning: ollama (ollama-model) failed")
	assert.Contains(t, out, "Fallback model openai (openai-model) succeeded")
}

func TestGenerator_BothFail(t *testing.T) {
	captureLog(t)
	primaryErr := timeoutError()
	fallbackErr := &llm.ProviderError{Kind: llm.ErrorAuth, Provider: "openai", Err: errBoom}

	_, err := NewGenerator(
		&MockProvider{name: "ollama", err: primaryErr},
		&MockProvider{name: "openai", err: fallbackErr},
	).GenerateText(context.Background(), nil, llm.GenerateOptions{})

	var fe *llm.FallbackError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, primaryErr, fe.Primary)
	assert.Equal(t, fallbackErr, fe.Fallback)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerator_NoFallback(t *testing.T) {
	primaryErr := timeoutError()
	gen := NewGenerator(&MockProvider{name: "ollama", err: primaryErr}, nil)
	assert.False(t, gen.HasFallback())

	_, err := gen.GenerateText(context.Background(), nil, llm.GenerateOptions{})
	assert.Equal(t, primaryErr, err)
}

func TestGenerator_CancelledSkipsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fallback := &MockProvider{name: "openai", reply: "[feature] x"}
	_, err := NewGenerator(&MockProvider{name: "ollama", err: context.Canceled}, fallback).
		GenerateText(ctx, nil, llm.GenerateOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fallback.calls)
}
