package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/huimingz/commitflow/internal/git"
)

// push pushes the current branch. A branch without upstream is pushed with
// --set-upstream, after a confirmation when confirm is set.
func (e *Engine) push(ctx context.Context, run *runState, confirm bool) (bool, error) {
	if confirm && e.shouldConfirm(run, e.opts.Prompts.ConfirmPush) {
		ok, err := e.opts.Prompter.Confirm("Push to remote?", true)
		if err != nil {
			return run.fail(err)
		}
		if !ok {
			_ = e.opts.Printer.PrintInfo("Push skipped")
			return true, nil
		}
	}

	if !e.opts.Git.HasUpstream(ctx) {
		return e.pushSetUpstream(ctx, run, confirm)
	}

	result, err := e.opts.Git.Push(ctx)
	if errors.Is(err, git.ErrNoUpstream) {
		return e.pushSetUpstream(ctx, run, confirm)
	}
	if err != nil {
		return e.failure(ctx, run, fmt.Errorf("push failed: %w", err))
	}
	e.reportPush(result)
	return true, nil
}

func (e *Engine) pushSetUpstream(ctx context.Context, run *runState, confirm bool) (bool, error) {
	branch, err := e.opts.Git.CurrentBranch(ctx)
	if err != nil {
		return e.failure(ctx, run, fmt.Errorf("failed to get current branch: %w", err))
	}
	remote := e.opts.Remote

	if confirm && e.shouldConfirm(run, true) {
		question := fmt.Sprintf("Branch '%s' has no upstream. Push and set upstream to %s/%s?", branch, remote, branch)
		ok, err := e.opts.Prompter.Confirm(question, true)
		if err != nil {
			return run.fail(err)
		}
		if !ok {
			_ = e.opts.Printer.PrintInfo("Push skipped")
			return true, nil
		}
	} else {
		_ = e.opts.Printer.PrintInfo(fmt.Sprintf("Setting upstream to %s/%s", remote, branch))
	}

	result, err := e.opts.Git.PushSetUpstream(ctx, remote, branch)
	if err != nil {
		return e.failure(ctx, run, fmt.Errorf("push failed: %w", err))
	}
	e.reportPush(result)
	return true, nil
}

func (e *Engine) reportPush(result git.PushResult) {
	if result.UpToDate {
		_ = e.opts.Printer.PrintSuccess("Everything up-to-date")
	} else {
		_ = e.opts.Printer.PrintSuccess("Pushed to remote")
	}
	_ = e.opts.Printer.PrintDetail(result.Output)
}
