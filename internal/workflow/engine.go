// Package workflow runs an ordered list of pre-commit steps: staging,
// checks, message generation and commit, push.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huimingz/commitflow/internal/agent"
	"github.com/huimingz/commitflow/internal/checks"
	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/git"
	"github.com/huimingz/commitflow/internal/log"
	"github.com/huimingz/commitflow/internal/ui"
)

// DefaultMaxAttempts bounds message generations in the interactive loop
const DefaultMaxAttempts = 5

// DefaultRemote receives new upstream branches
const DefaultRemote = "origin"

var (
	// ErrCancelled is reported when the user aborts a step
	ErrCancelled = ui.ErrCancelled

	// ErrMaxRetries is reported when every regeneration attempt was rejected
	ErrMaxRetries = errors.New("maximum regeneration attempts reached")

	// ErrChecksFailed is reported when a blocking check failed
	ErrChecksFailed = errors.New("blocking checks failed")

	// ErrStepFailed is reported for a step that stopped without a specific reason
	ErrStepFailed = errors.New("step failed")
)

// MessageGenerator produces commit messages for the staged change
type MessageGenerator interface {
	GenerateCommitMessage(ctx context.Context, req agent.CommitRequest) (*agent.CommitResponse, error)
	Regenerate(ctx context.Context, dc *diffctx.DiffContext, req agent.CommitRequest) (*agent.CommitResponse, error)
}

// Config selects the steps of one run
type Config struct {
	Steps       []StepID
	Interactive bool // prompts may be shown
	DryRun      bool // every step succeeds without side effects
	AssumeYes   bool // answer every confirmation with yes
}

// Result reports the outcome of a run. FailedStep is set only when a step
// reported failure; an unexpected error leaves it empty and sets only Err.
type Result struct {
	Success        bool
	StepsCompleted int
	TotalSteps     int
	FailedStep     StepID
	Err            error
	Cancelled      bool
	CommitMessage  string
}

// Options contains the collaborators of an Engine
type Options struct {
	Git      git.Executor         // required
	Agent    MessageGenerator     // required
	Printer  *ui.StreamPrinter    // required
	Checks   checks.Runner        // optional, check steps pass when nil
	Prompter ui.Prompter          // required for interactive runs
	Prompts  config.PromptsConfig // confirmation switches and retry limit
	Context  string               // developer-provided context for generation
	Remote   string               // default: DefaultRemote
}

// Engine executes workflows
type Engine struct {
	opts Options
}

type stepFunc func(ctx context.Context, run *runState) (bool, error)

// runState is the mutable state shared by the steps of one run
type runState struct {
	cfg     Config
	reason  error
	message string
}

// fail records why the current step stopped the workflow
func (r *runState) fail(reason error) (bool, error) {
	r.reason = reason
	return false, nil
}

// NewEngine creates a new Engine instance
func NewEngine(opts Options) (*Engine, error) {
	if opts.Git == nil {
		return nil, fmt.Errorf("git executor is not configured")
	}
	if opts.Agent == nil {
		return nil, fmt.Errorf("message generator is not configured")
	}
	if opts.Printer == nil {
		return nil, fmt.Errorf("printer is not configured")
	}
	if opts.Remote == "" {
		opts.Remote = DefaultRemote
	}
	return &Engine{opts: opts}, nil
}

// Run executes the configured steps in order and stops at the first step
// that fails. Only steps that succeeded count towards StepsCompleted.
func (e *Engine) Run(ctx context.Context, cfg Config) Result {
	result := Result{TotalSteps: len(cfg.Steps)}
	stats := &ui.ExecutionStats{StartTime: time.Now(), TotalSteps: len(cfg.Steps)}
	run := &runState{cfg: cfg}

	if cfg.Interactive && e.opts.Prompter == nil {
		result.Err = fmt.Errorf("interactive workflow requires a prompter")
		return result
	}

	for i, step := range cfg.Steps {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		_ = e.opts.Printer.PrintStep(i+1, len(cfg.Steps), step.Description())
		log.Debug("Running step %s", step)

		if cfg.DryRun {
			_ = e.opts.Printer.PrintInfo("[dry-run] " + e.dryRunDescription(step))
			result.StepsCompleted++
			continue
		}

		handler := e.handler(step)
		if handler == nil {
			result.Err = fmt.Errorf("unknown workflow step: %s", step)
			break
		}

		run.reason = nil
		ok, err := handler(ctx, run)
		if err != nil {
			result.Err = fmt.Errorf("step %s: %w", step, err)
			break
		}
		if !ok {
			reason := run.reason
			if reason == nil {
				reason = ErrStepFailed
			}
			result.FailedStep = step
			result.Cancelled = errors.Is(reason, ErrCancelled)
			result.Err = fmt.Errorf("workflow stopped at step '%s': %w", step, reason)
			break
		}
		result.StepsCompleted++
	}

	result.Success = result.Err == nil
	result.CommitMessage = run.message

	stats.EndTime = time.Now()
	stats.StepsCompleted = result.StepsCompleted
	_ = e.opts.Printer.PrintStats(stats)

	return result
}

func (e *Engine) handler(step StepID) stepFunc {
	switch step {
	case StepStage:
		return e.stage
	case StepStageConfirm:
		return e.stageConfirm
	case StepCheck:
		return func(ctx context.Context, run *runState) (bool, error) {
			return e.runChecks(ctx, run, nil)
		}
	case StepCheckBuild, StepCheckLint, StepCheckTest, StepCheckTypecheck:
		name := singleChecks[step]
		return func(ctx context.Context, run *runState) (bool, error) {
			return e.runChecks(ctx, run, []string{name})
		}
	case StepCommit:
		return e.commit
	case StepCommitConfirm:
		return e.commitConfirm
	case StepCommitInteractive:
		return e.commitInteractive
	case StepPush:
		return func(ctx context.Context, run *runState) (bool, error) {
			return e.push(ctx, run, false)
		}
	case StepPushConfirm:
		return func(ctx context.Context, run *runState) (bool, error) {
			return e.push(ctx, run, true)
		}
	case StepPR:
		return e.pullRequest
	}
	return nil
}

func (e *Engine) dryRunDescription(step StepID) string {
	switch step {
	case StepStage, StepStageConfirm:
		return "would run: git add -A"
	case StepCheck:
		if e.opts.Checks == nil || len(e.opts.Checks.Names()) == 0 {
			return "no checks configured"
		}
		return "would run checks: " + strings.Join(e.opts.Checks.Names(), ", ")
	case StepCheckBuild, StepCheckLint, StepCheckTest, StepCheckTypecheck:
		return "would run check: " + singleChecks[step]
	case StepCommit, StepCommitConfirm, StepCommitInteractive:
		return "would generate a commit message and run: git commit -m <message>"
	case StepPush, StepPushConfirm:
		return "would run: git push"
	case StepPR:
		return "pull request creation is not implemented"
	}
	return "unknown step"
}

// shouldConfirm reports whether a confirmation prompt is shown
func (e *Engine) shouldConfirm(run *runState, enabled bool) bool {
	return enabled && run.cfg.Interactive && !run.cfg.AssumeYes
}

// failure turns an error into a step failure, or into a run error when the
// run itself was cancelled.
func (e *Engine) failure(ctx context.Context, run *runState, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return run.fail(err)
}

func (e *Engine) stage(ctx context.Context, run *runState) (bool, error) {
	if err := e.opts.Git.AddAll(ctx); err != nil {
		return e.failure(ctx, run, fmt.Errorf("failed to stage changes: %w", err))
	}
	_ = e.opts.Printer.PrintSuccess("Changes staged")
	return true, nil
}

func (e *Engine) stageConfirm(ctx context.Context, run *runState) (bool, error) {
	if e.shouldConfirm(run, e.opts.Prompts.ConfirmStage) {
		ok, err := e.opts.Prompter.Confirm("Stage all changes?", true)
		if err != nil {
			return run.fail(err)
		}
		if !ok {
			_ = e.opts.Printer.PrintInfo("Staging skipped, using the current index")
			return true, nil
		}
	}
	return e.stage(ctx, run)
}

func (e *Engine) pullRequest(ctx context.Context, run *runState) (bool, error) {
	_ = e.opts.Printer.PrintWarning("pr step is not implemented, skipping")
	return true, nil
}
