package workflow

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/agent"
	"github.com/huimingz/commitflow/internal/checks"
	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/git"
	"github.com/huimingz/commitflow/internal/llm"
	"github.com/huimingz/commitflow/internal/ui"
)

// MockGitExecutor is a mock implementation of git.Executor for testing
type MockGitExecutor struct {
	addErr      error
	commitErr   error
	pushErr     error
	pushResult  git.PushResult
	hasUpstream bool
	branch      string

	added        int
	commits      []string
	pushes       int
	upstreamPush []string
}

func (m *MockGitExecutor) IsRepository(ctx context.Context) bool { return true }
func (m *MockGitExecutor) DiffCached(ctx context.Context) (string, error) {
	return "", nil
}
func (m *MockGitExecutor) ShortStat(ctx context.Context) (git.ShortStat, error) {
	return git.ShortStat{}, nil
}
func (m *MockGitExecutor) NameStatus(ctx context.Context) ([]git.FileStatus, error) {
	return nil, nil
}
func (m *MockGitExecutor) NumStat(ctx context.Context) ([]git.FileNumStat, error) {
	return nil, nil
}
func (m *MockGitExecutor) RecentCommits(ctx context.Context, limit int) ([]git.CommitRecord, error) {
	return nil, nil
}

func (m *MockGitExecutor) AddAll(ctx context.Context) error {
	m.added++
	return m.addErr
}

func (m *MockGitExecutor) Commit(ctx context.Context, message string) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits = append(m.commits, message)
	return nil
}

func (m *MockGitExecutor) Push(ctx context.Context) (git.PushResult, error) {
	m.pushes++
	return m.pushResult, m.pushErr
}

func (m *MockGitExecutor) PushSetUpstream(ctx context.Context, remote, branch string) (git.PushResult, error) {
	m.upstreamPush = append(m.upstreamPush, remote+"/"+branch)
	return m.pushResult, m.pushErr
}

func (m *MockGitExecutor) CurrentBranch(ctx context.Context) (string, error) {
	if m.branch == "" {
		return "main", nil
	}
	return m.branch, nil
}

func (m *MockGitExecutor) HasUpstream(ctx context.Context) bool { return m.hasUpstream }

// MockAgent is a mock implementation of MessageGenerator for testing
type MockAgent struct {
	messages []string
	err      error

	calls    int
	requests []agent.CommitRequest
	contexts []*diffctx.DiffContext
	dc       *diffctx.DiffContext
}

func (m *MockAgent) next(req agent.CommitRequest) (*agent.CommitResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	msg := m.messages[m.calls%len(m.messages)]
	m.calls++
	return &agent.CommitResponse{Message: msg, DiffContext: m.dc}, nil
}

func (m *MockAgent) GenerateCommitMessage(ctx context.Context, req agent.CommitRequest) (*agent.CommitResponse, error) {
	if m.dc == nil {
		m.dc = &diffctx.DiffContext{FilesChanged: 1}
	}
	return m.next(req)
}

func (m *MockAgent) Regenerate(ctx context.Context, dc *diffctx.DiffContext, req agent.CommitRequest) (*agent.CommitResponse, error) {
	m.contexts = append(m.contexts, dc)
	return m.next(req)
}

// MockRunner is a mock implementation of checks.Runner for testing
type MockRunner struct {
	summaries []checks.Summary
	fixResult checks.CheckResult
	err       error

	ran   [][]string
	fixed []string
}

func (m *MockRunner) Run(ctx context.Context, names []string) (checks.Summary, error) {
	m.ran = append(m.ran, names)
	if m.err != nil {
		return checks.Summary{}, m.err
	}
	s := m.summaries[0]
	if len(m.summaries) > 1 {
		m.summaries = m.summaries[1:]
	}
	return s, nil
}

func (m *MockRunner) RunAll(ctx context.Context) (checks.Summary, error) {
	return m.Run(ctx, m.Names())
}

func (m *MockRunner) Fix(ctx context.Context, name string) (checks.CheckResult, error) {
	m.fixed = append(m.fixed, name)
	return m.fixResult, nil
}

func (m *MockRunner) Names() []string { return []string{"build", "lint"} }

// MockPrompter is a mock implementation of ui.Prompter with scripted answers.
// Running out of answers behaves like Ctrl+C.
type MockPrompter struct {
	confirms []bool
	selects  []int
	inputs   []string

	questions []string
}

func (m *MockPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	m.questions = append(m.questions, message)
	if len(m.confirms) == 0 {
		return false, ui.ErrCancelled
	}
	v := m.confirms[0]
	m.confirms = m.confirms[1:]
	return v, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultIndex int) (int, error) {
	m.questions = append(m.questions, message)
	if len(m.selects) == 0 {
		return -1, ui.ErrCancelled
	}
	v := m.selects[0]
	m.selects = m.selects[1:]
	return v, nil
}

func (m *MockPrompter) Input(message, defaultValue string) (string, error) {
	m.questions = append(m.questions, message)
	if len(m.inputs) == 0 {
		return "", ui.ErrCancelled
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

// MockProvider is a mock implementation of llm.Provider for testing
type MockProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (m *MockProvider) Name() string  { return m.name }
func (m *MockProvider) Model() string { return m.name + "-model" }

func (m *MockProvider) GenerateText(ctx context.Context, messages []*schema.Message, opts llm.GenerateOptions) (string, error) {
	m.calls++
	return m.reply, m.err
}

func (m *MockProvider) ValidateConfig(ctx context.Context) error { return nil }

var errBoom = errors.New("boom")
