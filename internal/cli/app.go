package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/huimingz/commitflow/internal/agent"
	"github.com/huimingz/commitflow/internal/checks"
	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/git"
	"github.com/huimingz/commitflow/internal/history"
	"github.com/huimingz/commitflow/internal/llm"
	"github.com/huimingz/commitflow/internal/log"
	"github.com/huimingz/commitflow/internal/ui"
	"github.com/huimingz/commitflow/internal/workflow"
	"github.com/huimingz/commitflow/pkg/lang"
)

// app holds what every repository command needs
type app struct {
	cfg     *config.Config
	workDir string
	git     *git.DefaultExecutor
	theme   ui.Theme
	printer *ui.StreamPrinter
	out     io.Writer
}

// loadApp loads the configuration and opens the repository in the working directory
func loadApp(out io.Writer) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.DebugConfig("Configuration", cfg.Redacted())

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return newApp(cfg, cwd, out)
}

func newApp(cfg *config.Config, workDir string, out io.Writer) (*app, error) {
	executor := git.NewExecutor(workDir)
	if !executor.IsRepository(context.Background()) {
		return nil, git.ErrNotRepository
	}

	theme := ui.NewTheme(cfg.UI)
	return &app{
		cfg:     cfg,
		workDir: workDir,
		git:     executor,
		theme:   theme,
		printer: ui.NewStreamPrinter(out, ui.WithTheme(theme), ui.WithVerbose(debugMode)),
		out:     out,
	}, nil
}

// historySource returns the configured commit history backend
func (a *app) historySource() history.Source {
	if a.cfg.History.Backend == config.HistoryBackendGoGit {
		h, err := git.NewGoGitHistory(a.workDir)
		if err == nil {
			return h
		}
		log.Debug("go-git history unavailable, using git: %v", err)
	}
	return a.git
}

// assembler builds the context assembler with history ranking and ignore rules
func (a *app) assembler() *diffctx.Assembler {
	var ranker diffctx.SimilarityFinder
	if a.cfg.Prompts.SimilarCommits > 0 {
		ranker = history.NewRanker(a.historySource(), a.cfg.History.MaxCommits)
	}
	return diffctx.NewAssembler(a.git, ranker, diffctx.LoadIgnoreMatcher(a.workDir), diffctx.Options{
		MaxSimilarCommits: a.cfg.Prompts.SimilarCommits,
	})
}

// generator creates the primary provider and, when configured, its fallback
func (a *app) generator() (*workflow.Generator, error) {
	primary, err := llm.NewProviderFromConfig(a.cfg, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	log.Debug("Using model: %s (provider: %s)", primary.Model(), primary.Name())

	fallback, err := llm.NewFallbackFromConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	if fallback != nil {
		log.Debug("Fallback model: %s (provider: %s)", fallback.Model(), fallback.Name())
	}

	_ = a.printer.PrintInfo(fmt.Sprintf("Model: %s (%s)", primary.Model(), primary.Name()))
	return workflow.NewGenerator(primary, fallback), nil
}

// commitAgent wires the assembler and generator into a CommitAgent
func (a *app) commitAgent(language string) (*agent.CommitAgent, error) {
	gen, err := a.generator()
	if err != nil {
		return nil, err
	}

	if language != "" && !lang.Language(language).IsValid() {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	l := lang.ParseLanguage(a.cfg.GetLanguage(language))
	log.Debug("Using language: %s", l)

	return agent.NewCommitAgent(agent.CommitAgentOptions{
		Language:  l.PromptName(),
		Emoji:     a.cfg.Emoji,
		Assembler: a.assembler(),
		Generator: gen,
		Printer:   a.printer,
		Debug:     debugMode,
	})
}

// messageGenerator returns the generator the workflow engine calls. With
// lazy set, providers and credentials are resolved on first use, so a dry
// run works without an API key.
func (a *app) messageGenerator(language string, lazy bool) (workflow.MessageGenerator, error) {
	if !lazy {
		return a.commitAgent(language)
	}
	if language != "" && !lang.Language(language).IsValid() {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	return &lazyGenerator{build: func() (*agent.CommitAgent, error) {
		return a.commitAgent(language)
	}}, nil
}

// lazyGenerator builds its CommitAgent on the first request
type lazyGenerator struct {
	build func() (*agent.CommitAgent, error)
	agent *agent.CommitAgent
}

func (g *lazyGenerator) get() (*agent.CommitAgent, error) {
	if g.agent != nil {
		return g.agent, nil
	}
	built, err := g.build()
	if err != nil {
		return nil, err
	}
	g.agent = built
	return built, nil
}

func (g *lazyGenerator) GenerateCommitMessage(ctx context.Context, req agent.CommitRequest) (*agent.CommitResponse, error) {
	ca, err := g.get()
	if err != nil {
		return nil, err
	}
	return ca.GenerateCommitMessage(ctx, req)
}

func (g *lazyGenerator) Regenerate(ctx context.Context, dc *diffctx.DiffContext, req agent.CommitRequest) (*agent.CommitResponse, error) {
	ca, err := g.get()
	if err != nil {
		return nil, err
	}
	return ca.Regenerate(ctx, dc, req)
}

// checkRunner returns the configured checks, or nil when there are none
func (a *app) checkRunner() checks.Runner {
	if len(a.cfg.Checks) == 0 {
		return nil
	}
	return checks.NewRunner(a.cfg.Checks, a.workDir)
}
