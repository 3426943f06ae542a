package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/log"
)

// DefaultTimeout applies to checks without a configured timeout
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long output pipes are drained after a check is killed
const waitDelay = 2 * time.Second

// CheckConfig describes one verification command
type CheckConfig = config.CheckConfig

// CheckResult is the outcome of one check command
type CheckResult struct {
	Name       string
	Passed     bool
	Output     string
	Duration   time.Duration
	Blocking   bool
	HasAutofix bool
	TimedOut   bool
}

// Summary aggregates the checks that actually ran
type Summary struct {
	Total      int
	Passed     int
	Failed     int
	Results    []CheckResult
	CanProceed bool
}

// BlockingFailures returns the failed results that stop the workflow
func (s Summary) BlockingFailures() []CheckResult {
	var out []CheckResult
	for _, r := range s.Results {
		if !r.Passed && r.Blocking {
			out = append(out, r)
		}
	}
	return out
}

// Runner runs configured checks
type Runner interface {
	// Run runs the named checks in order. Unknown and disabled checks are skipped.
	Run(ctx context.Context, names []string) (Summary, error)

	// RunAll runs every enabled check in name order
	RunAll(ctx context.Context) (Summary, error)

	// Fix runs the autofix command of a check
	Fix(ctx context.Context, name string) (CheckResult, error)

	// Names returns the configured check names, sorted
	Names() []string
}

// CommandRunner runs checks as shell commands
type CommandRunner struct {
	checks  map[string]CheckConfig
	workDir string
	shell   string
}

// NewRunner creates a CommandRunner executing commands in workDir
func NewRunner(checks map[string]CheckConfig, workDir string) *CommandRunner {
	return &CommandRunner{
		checks:  checks,
		workDir: workDir,
		shell:   "sh",
	}
}

// Names returns the configured check names, sorted
func (r *CommandRunner) Names() []string {
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the configuration of a check
func (r *CommandRunner) Lookup(name string) (CheckConfig, bool) {
	c, ok := r.checks[name]
	return c, ok
}

// RunAll runs every enabled check in name order
func (r *CommandRunner) RunAll(ctx context.Context) (Summary, error) {
	return r.Run(ctx, r.Names())
}

// Run runs the named checks in order
func (r *CommandRunner) Run(ctx context.Context, names []string) (Summary, error) {
	summary := Summary{CanProceed: true}

	for _, name := range names {
		check, ok := r.checks[name]
		if !ok {
			log.Debug("Check %s is not configured, skipping", name)
			continue
		}
		if !check.IsEnabled() {
			log.Debug("Check %s is disabled, skipping", name)
			continue
		}

		result := r.runCheck(ctx, name, check.Command, check)
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		summary.Results = append(summary.Results, result)
		summary.Total++
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
			if result.Blocking {
				summary.CanProceed = false
			}
		}
	}

	return summary, nil
}

// Fix runs the autofix command of a check
func (r *CommandRunner) Fix(ctx context.Context, name string) (CheckResult, error) {
	check, ok := r.checks[name]
	if !ok {
		return CheckResult{}, fmt.Errorf("check '%s' is not configured", name)
	}
	if strings.TrimSpace(check.Autofix) == "" {
		return CheckResult{}, fmt.Errorf("check '%s' has no autofix command", name)
	}

	result := r.runCheck(ctx, name, check.Autofix, check)
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

func (r *CommandRunner) runCheck(ctx context.Context, name, command string, check CheckConfig) CheckResult {
	timeout := DefaultTimeout
	if check.Timeout > 0 {
		timeout = time.Duration(check.Timeout) * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.shell, "-c", command)
	cmd.Dir = r.workDir
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Debug("Running check %s", name)
	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)
	log.DebugCommand(r.shell, []string{"-c", command}, duration, err)

	result := CheckResult{
		Name:       name,
		Passed:     err == nil,
		Output:     strings.TrimSpace(out.String()),
		Duration:   duration,
		Blocking:   check.IsBlocking(),
		HasAutofix: strings.TrimSpace(check.Autofix) != "",
	}

	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.TimedOut = true
		result.Output = strings.TrimSpace(result.Output + fmt.Sprintf("\ntimed out after %s", timeout))
	}

	return result
}
