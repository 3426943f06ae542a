package cli

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptHandler_FirstSignalCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewInterruptHandler(cancel)
	h.exit = func(int) { t.Error("exit called after a single signal") }
	h.Start()
	defer h.Stop()

	h.sigChan <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}
	assert.True(t, h.IsInterrupted())
}

func TestInterruptHandler_SecondSignalExits(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	exited := make(chan int, 1)
	h := NewInterruptHandler(cancel)
	h.exit = func(code int) { exited <- code }
	h.Start()
	defer h.Stop()

	h.sigChan <- os.Interrupt
	h.sigChan <- os.Interrupt

	select {
	case code := <-exited:
		assert.Equal(t, ExitCancelled, code)
	case <-time.After(time.Second):
		t.Fatal("exit was not called")
	}
}

func TestInterruptHandler_StopWithoutSignal(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewInterruptHandler(cancel)
	h.Start()
	h.Stop()
	assert.False(t, h.IsInterrupted())
}

func TestRunInterruptible(t *testing.T) {
	errBoom := errors.New("boom")

	err := runInterruptible(context.Background(), func(ctx context.Context) error {
		require.NoError(t, ctx.Err())
		return nil
	})
	assert.NoError(t, err)

	err = runInterruptible(context.Background(), func(ctx context.Context) error {
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
}
