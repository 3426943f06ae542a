package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/huimingz/commitflow/internal/checks"
)

// runChecks runs the named checks, or every check when names is nil, and
// passes when no blocking check failed.
func (e *Engine) runChecks(ctx context.Context, run *runState, names []string) (bool, error) {
	if e.opts.Checks == nil {
		_ = e.opts.Printer.PrintInfo("No checks configured, skipping")
		return true, nil
	}

	summary, err := e.selectChecks(ctx, names)
	if err != nil {
		return false, err
	}
	if summary.Total == 0 {
		_ = e.opts.Printer.PrintInfo("No enabled checks to run, skipping")
		return true, nil
	}
	e.printSummary(summary)

	if !summary.CanProceed && e.shouldConfirm(run, true) {
		fixed, err := e.offerAutofix(ctx, summary)
		if err != nil {
			return e.failure(ctx, run, err)
		}
		if fixed {
			_ = e.opts.Printer.PrintProgress("Re-running checks...")
			if summary, err = e.selectChecks(ctx, names); err != nil {
				return false, err
			}
			e.printSummary(summary)
		}
	}

	if !summary.CanProceed {
		failed := make([]string, 0)
		for _, r := range summary.BlockingFailures() {
			failed = append(failed, r.Name)
		}
		return run.fail(fmt.Errorf("%w: %s", ErrChecksFailed, strings.Join(failed, ", ")))
	}

	_ = e.opts.Printer.PrintSuccess(fmt.Sprintf("%d/%d checks passed", summary.Passed, summary.Total))
	return true, nil
}

func (e *Engine) selectChecks(ctx context.Context, names []string) (checks.Summary, error) {
	if names == nil {
		return e.opts.Checks.RunAll(ctx)
	}
	return e.opts.Checks.Run(ctx, names)
}

func (e *Engine) printSummary(summary checks.Summary) {
	for _, r := range summary.Results {
		_ = e.opts.Printer.PrintCheckResult(r.Name, r.Passed, r.Blocking, r.Duration)
		if !r.Passed {
			_ = e.opts.Printer.PrintOutput(r.Output)
		}
	}
}

// offerAutofix asks to run the autofix command of every blocking failure
// that has one. It reports whether any autofix ran.
func (e *Engine) offerAutofix(ctx context.Context, summary checks.Summary) (bool, error) {
	fixed := false
	for _, r := range summary.BlockingFailures() {
		if !r.HasAutofix {
			continue
		}
		ok, err := e.opts.Prompter.Confirm(fmt.Sprintf("Check '%s' failed. Run its autofix command?", r.Name), true)
		if err != nil {
			return fixed, err
		}
		if !ok {
			continue
		}

		result, err := e.opts.Checks.Fix(ctx, r.Name)
		if err != nil {
			return fixed, err
		}
		fixed = true
		if result.Passed {
			_ = e.opts.Printer.PrintSuccess(fmt.Sprintf("Autofix for %s completed", r.Name))
		} else {
			_ = e.opts.Printer.PrintWarning(fmt.Sprintf("Autofix for %s failed", r.Name))
			_ = e.opts.Printer.PrintOutput(result.Output)
		}
	}
	return fixed, nil
}
