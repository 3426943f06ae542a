package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/huimingz/commitflow/internal/ui"
)

// InterruptHandler cancels the running operation on SIGINT or SIGTERM.
// A second signal exits immediately with status 130.
type InterruptHandler struct {
	cancel      context.CancelFunc
	sigChan     chan os.Signal
	done        chan struct{}
	interrupted atomic.Bool
	exit        func(code int)
}

// NewInterruptHandler creates a new interrupt handler
func NewInterruptHandler(cancel context.CancelFunc) *InterruptHandler {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	return &InterruptHandler{
		cancel:  cancel,
		sigChan: sigChan,
		done:    make(chan struct{}),
		exit:    os.Exit,
	}
}

// Start starts the interrupt handler in a goroutine
func (h *InterruptHandler) Start() {
	go h.handleSignals()
}

func (h *InterruptHandler) handleSignals() {
	select {
	case <-h.sigChan:
	case <-h.done:
		return
	}
	h.interrupted.Store(true)
	h.cancel()

	select {
	case <-h.sigChan:
		fmt.Fprintln(os.Stderr, "\nOperation cancelled.")
		h.exit(ExitCancelled)
	case <-h.done:
	}
}

// IsInterrupted returns whether a signal was received
func (h *InterruptHandler) IsInterrupted() bool {
	return h.interrupted.Load()
}

// Stop stops the signal handling
func (h *InterruptHandler) Stop() {
	signal.Stop(h.sigChan)
	close(h.done)
}

// runInterruptible runs fn with a context cancelled by SIGINT. An
// interrupted run is reported as ui.ErrCancelled.
func runInterruptible(parent context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	h := NewInterruptHandler(cancel)
	h.Start()
	defer h.Stop()

	err := fn(ctx)
	if h.IsInterrupted() {
		return ui.ErrCancelled
	}
	return err
}
