package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/huimingz/commitflow/internal/log"
)

var (
	// ErrNotRepository is returned when the working directory is not inside a git work tree
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoUpstream is returned by Push when the current branch has no upstream configured
	ErrNoUpstream = errors.New("current branch has no upstream branch")

	// ErrNoStagedChanges is returned when there is nothing staged to describe
	ErrNoStagedChanges = errors.New("no staged changes")
)

// DefaultHistoryLimit is the number of non-merge commits scanned for similar history
const DefaultHistoryLimit = 200

// commitSentinel prefixes every commit header line in RecentCommits output
const commitSentinel = "__COMMITFLOW__"

// PushResult describes a successful push
type PushResult struct {
	UpToDate bool   // remote already had every commit
	Output   string // raw git output (push reports on stderr)
}

// Executor defines the interface for git command execution
type Executor interface {
	// IsRepository reports whether the working directory is inside a git work tree
	IsRepository(ctx context.Context) bool

	// DiffCached returns the diff of staged changes
	DiffCached(ctx context.Context) (string, error)

	// ShortStat returns aggregate counters of the staged changes
	ShortStat(ctx context.Context) (ShortStat, error)

	// NameStatus returns the status letter of every staged file
	NameStatus(ctx context.Context) ([]FileStatus, error)

	// NumStat returns insertion/deletion counts of every staged file
	NumStat(ctx context.Context) ([]FileNumStat, error)

	// RecentCommits returns up to limit non-merge commits, newest first
	RecentCommits(ctx context.Context, limit int) ([]CommitRecord, error)

	// AddAll stages every change in the work tree
	AddAll(ctx context.Context) error

	// Commit executes a git commit with the given message
	Commit(ctx context.Context, message string) error

	// Push pushes the current branch to its upstream
	Push(ctx context.Context) (PushResult, error)

	// PushSetUpstream pushes the branch and records remote/branch as its upstream
	PushSetUpstream(ctx context.Context, remote, branch string) (PushResult, error)

	// CurrentBranch returns the current branch name
	CurrentBranch(ctx context.Context) (string, error)

	// HasUpstream reports whether the current branch tracks a remote branch
	HasUpstream(ctx context.Context) bool
}

// DefaultExecutor is the default implementation of Executor
type DefaultExecutor struct {
	workDir string
}

// NewExecutor creates a new DefaultExecutor
func NewExecutor(workDir string) *DefaultExecutor {
	return &DefaultExecutor{workDir: workDir}
}

// WorkDir returns the directory git commands run in
func (e *DefaultExecutor) WorkDir() string {
	return e.workDir
}

// runGit runs a git command and returns the output
func (e *DefaultExecutor) runGit(ctx context.Context, args ...string) (string, error) {
	stdout, _, err := e.runGitOutput(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// runGitOutput runs a git command and returns both streams untrimmed
func (e *DefaultExecutor) runGitOutput(ctx context.Context, args ...string) (string, string, error) {
	// unquoted paths keep diff headers, numstat and log output comparable
	full := append([]string{"-c", "core.quotePath=false"}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = e.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.DebugCommand("git", args, time.Since(start), err)
	if err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, stderr.String())
	}

	return stdout.String(), stderr.String(), nil
}

// IsRepository reports whether the working directory is inside a git work tree
func (e *DefaultExecutor) IsRepository(ctx context.Context) bool {
	out, err := e.runGit(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// DiffCached returns the diff of staged changes
func (e *DefaultExecutor) DiffCached(ctx context.Context) (string, error) {
	stdout, _, err := e.runGitOutput(ctx, "diff", "--cached", "--no-color", "--no-ext-diff")
	if err != nil {
		return "", err
	}
	return stdout, nil
}

// ShortStat returns aggregate counters of the staged changes
func (e *DefaultExecutor) ShortStat(ctx context.Context) (ShortStat, error) {
	out, err := e.runGit(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return ShortStat{}, err
	}
	return ParseShortStat(out), nil
}

// NameStatus returns the status letter of every staged file
func (e *DefaultExecutor) NameStatus(ctx context.Context) ([]FileStatus, error) {
	out, err := e.runGit(ctx, "diff", "--cached", "--name-status", "-M")
	if err != nil {
		return nil, err
	}
	return ParseNameStatus(out), nil
}

// NumStat returns insertion/deletion counts of every staged file
func (e *DefaultExecutor) NumStat(ctx context.Context) ([]FileNumStat, error) {
	out, err := e.runGit(ctx, "diff", "--cached", "--numstat", "-M")
	if err != nil {
		return nil, err
	}
	return ParseNumStat(out), nil
}

// RecentCommits returns up to limit non-merge commits with their touched files
func (e *DefaultExecutor) RecentCommits(ctx context.Context, limit int) ([]CommitRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	output, err := e.runGit(ctx, "log",
		"--no-merges",
		"-n", strconv.Itoa(limit),
		"--format="+commitSentinel+"%H|%s",
		"--name-only",
	)
	if err != nil {
		// Empty repo returns error, return no history instead
		if strings.Contains(err.Error(), "does not have any commits") {
			return nil, nil
		}
		return nil, err
	}
	return ParseCommitLog(output), nil
}

// AddAll stages every change in the work tree
func (e *DefaultExecutor) AddAll(ctx context.Context) error {
	_, err := e.runGit(ctx, "add", "-A")
	return err
}

// Commit executes a git commit with the given message
func (e *DefaultExecutor) Commit(ctx context.Context, message string) error {
	_, err := e.runGit(ctx, "commit", "-m", message)
	return err
}

// Push pushes the current branch to its upstream
func (e *DefaultExecutor) Push(ctx context.Context) (PushResult, error) {
	return e.push(ctx, "push")
}

// PushSetUpstream pushes the branch and records remote/branch as its upstream
func (e *DefaultExecutor) PushSetUpstream(ctx context.Context, remote, branch string) (PushResult, error) {
	if remote == "" {
		remote = "origin"
	}
	return e.push(ctx, "push", "--set-upstream", remote, branch)
}

func (e *DefaultExecutor) push(ctx context.Context, args ...string) (PushResult, error) {
	stdout, stderr, err := e.runGitOutput(ctx, args...)
	if err != nil {
		if isNoUpstream(stderr) {
			return PushResult{}, fmt.Errorf("%w: %s", ErrNoUpstream, strings.TrimSpace(stderr))
		}
		return PushResult{}, err
	}

	output := strings.TrimSpace(stdout + stderr)
	return PushResult{
		UpToDate: strings.Contains(output, "Everything up-to-date"),
		Output:   output,
	}, nil
}

func isNoUpstream(stderr string) bool {
	return strings.Contains(stderr, "has no upstream branch") ||
		strings.Contains(stderr, "no upstream configured")
}

// CurrentBranch returns the current branch name
func (e *DefaultExecutor) CurrentBranch(ctx context.Context) (string, error) {
	return e.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// HasUpstream reports whether the current branch tracks a remote branch
func (e *DefaultExecutor) HasUpstream(ctx context.Context) bool {
	_, err := e.runGit(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	return err == nil
}

// FormatCommitCommand renders the shell command equivalent to Commit(message),
// escaping backslashes, double quotes and newlines. Used for dry-run output.
func FormatCommitCommand(message string) string {
	return fmt.Sprintf(`git commit -m "%s"`, displayEscape(message))
}

// displayEscape escapes a message for printing inside a double-quoted shell
// string. Commit passes the message as an argument and never uses this.
func displayEscape(message string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\r\n", `\n`,
		"\n", `\n`,
		"$", `\$`,
		"`", "\\`",
	)
	return r.Replace(message)
}
