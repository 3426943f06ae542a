package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/huimingz/commitflow/internal/agent"
	"github.com/huimingz/commitflow/internal/ui"
)

// Choices offered while reviewing a generated message
const (
	choiceAccept = iota
	choiceRetry
	choiceEdit
	choiceCancel
)

var reviewOptions = []string{
	"Accept and commit",
	"Regenerate",
	"Edit message",
	"Cancel",
}

func (e *Engine) request(previous []string) agent.CommitRequest {
	return agent.CommitRequest{
		Context:  e.opts.Context,
		Previous: append([]string(nil), previous...),
	}
}

// maxAttempts is the configured limit, capped at DefaultMaxAttempts
func (e *Engine) maxAttempts() int {
	if n := e.opts.Prompts.MaxRetries; n > 0 && n < DefaultMaxAttempts {
		return n
	}
	return DefaultMaxAttempts
}

func (e *Engine) showMessage(message string) {
	_ = ui.ShowCommitMessage(message, e.opts.Printer.Theme(), e.opts.Printer.Writer())
}

// commit generates a message and commits without review
func (e *Engine) commit(ctx context.Context, run *runState) (bool, error) {
	resp, err := e.opts.Agent.GenerateCommitMessage(ctx, e.request(nil))
	if err != nil {
		return e.failure(ctx, run, err)
	}
	e.showMessage(resp.Message)
	return e.doCommit(ctx, run, resp.Message)
}

// commitConfirm generates a message and commits after a yes/no confirmation
func (e *Engine) commitConfirm(ctx context.Context, run *runState) (bool, error) {
	resp, err := e.opts.Agent.GenerateCommitMessage(ctx, e.request(nil))
	if err != nil {
		return e.failure(ctx, run, err)
	}
	e.showMessage(resp.Message)

	if e.shouldConfirm(run, e.opts.Prompts.ConfirmCommit) {
		ok, err := e.opts.Prompter.Confirm("Commit with this message?", true)
		if err != nil {
			return run.fail(err)
		}
		if !ok {
			return run.fail(ErrCancelled)
		}
	}
	return e.doCommit(ctx, run, resp.Message)
}

// commitInteractive lets the user accept, regenerate, edit or cancel the
// generated message. Every regeneration reuses the first diff context and
// lists all earlier suggestions.
func (e *Engine) commitInteractive(ctx context.Context, run *runState) (bool, error) {
	if !e.shouldConfirm(run, true) {
		return e.commit(ctx, run)
	}

	resp, err := e.opts.Agent.GenerateCommitMessage(ctx, e.request(nil))
	if err != nil {
		return e.failure(ctx, run, err)
	}
	attempts := 1
	previous := []string{resp.Message}

	for {
		e.showMessage(resp.Message)

		choice, err := e.opts.Prompter.Select("What would you like to do?", reviewOptions, choiceAccept)
		if err != nil {
			return run.fail(err)
		}

		switch choice {
		case choiceAccept:
			return e.doCommit(ctx, run, resp.Message)

		case choiceRetry:
			limit := e.maxAttempts()
			if attempts >= limit {
				_ = e.opts.Printer.PrintWarning(fmt.Sprintf("Reached the maximum of %d attempts", limit))
				return run.fail(ErrMaxRetries)
			}
			next, err := e.opts.Agent.Regenerate(ctx, resp.DiffContext, e.request(previous))
			if err != nil {
				return e.failure(ctx, run, err)
			}
			attempts++
			resp = next
			previous = append(previous, resp.Message)

		case choiceEdit:
			edited, err := e.opts.Prompter.Input("Commit message", resp.Message)
			if err != nil {
				return run.fail(err)
			}
			edited = strings.TrimSpace(edited)
			if edited == "" {
				_ = e.opts.Printer.PrintWarning("Commit message cannot be empty")
				continue
			}
			return e.doCommit(ctx, run, edited)

		default:
			return run.fail(ErrCancelled)
		}
	}
}

func (e *Engine) doCommit(ctx context.Context, run *runState, message string) (bool, error) {
	if err := e.opts.Git.Commit(ctx, message); err != nil {
		return e.failure(ctx, run, fmt.Errorf("failed to commit: %w", err))
	}
	run.message = message
	_ = e.opts.Printer.PrintSuccess("Committed: " + message)
	return true, nil
}
