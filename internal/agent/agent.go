// Package agent turns a staged change into a commit message: it assembles
// the diff context, builds the prompt, asks the model and normalizes the reply.
package agent

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/commitmsg"
	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/llm"
	"github.com/huimingz/commitflow/internal/log"
	"github.com/huimingz/commitflow/internal/prompt"
	"github.com/huimingz/commitflow/internal/ui"
)

// Generator produces raw text for a conversation
type Generator interface {
	GenerateText(ctx context.Context, messages []*schema.Message, opts llm.GenerateOptions) (string, error)
}

// ContextAssembler builds the DiffContext of the staged change
type ContextAssembler interface {
	Assemble(ctx context.Context) (*diffctx.DiffContext, error)
}

// CommitRequest represents a request to generate a commit message
type CommitRequest struct {
	Context  string   // User-provided context (optional)
	Previous []string // Messages already suggested and rejected
}

// CommitResponse represents the generated commit message
type CommitResponse struct {
	Message     string               // Normalized one-line message
	Tagged      commitmsg.Tagged     // Message split into tag, scope and description
	Raw         string               // Unprocessed model reply
	DiffContext *diffctx.DiffContext // Context the message was generated from
	UsedDefault bool                 // Reply was unusable and the default message was substituted
}

// CommitAgentOptions contains configuration for CommitAgent
type CommitAgentOptions struct {
	Language     string            // Output language of the description (optional)
	Emoji        bool              // Ask for an emoji after the tag
	MaxDiffChars int               // Diff excerpt size in the prompt (default: prompt.DefaultMaxDiffChars)
	Assembler    ContextAssembler  // Builds the diff context
	Generator    Generator         // Model access, usually with fallback
	Printer      *ui.StreamPrinter // Stream printer for output (optional)
	Output       io.Writer         // Output writer (used if Printer is nil)
	Debug        bool              // Enable debug mode
}

// Validate validates the options
func (o *CommitAgentOptions) Validate() error {
	if o.Assembler == nil {
		return fmt.Errorf("context assembler is not configured")
	}
	if o.Generator == nil {
		return fmt.Errorf("generator is not configured")
	}
	return nil
}

// getPrinter returns the printer or creates a default one
func (o *CommitAgentOptions) getPrinter() *ui.StreamPrinter {
	if o.Printer != nil {
		return o.Printer
	}
	if o.Output != nil {
		return ui.NewStreamPrinter(o.Output, ui.WithVerbose(o.Debug))
	}
	return nil
}

// CommitAgent handles commit message generation
type CommitAgent struct {
	opts    CommitAgentOptions
	printer *ui.StreamPrinter
}

// NewCommitAgent creates a new CommitAgent instance
func NewCommitAgent(opts CommitAgentOptions) (*CommitAgent, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &CommitAgent{
		opts:    opts,
		printer: opts.getPrinter(),
	}, nil
}

// GenerateCommitMessage generates a commit message for the staged changes
func (a *CommitAgent) GenerateCommitMessage(ctx context.Context, req CommitRequest) (*CommitResponse, error) {
	a.progress("Analyzing staged changes...")

	dc, err := a.opts.Assembler.Assemble(ctx)
	if err != nil {
		return nil, err
	}

	a.info(fmt.Sprintf("%d files changed, +%d/-%d", dc.Stats.FilesChanged, dc.Stats.Insertions, dc.Stats.Deletions))
	if dc.Truncated {
		a.warning("Diff is very large and was truncated")
	}
	if dc.CodeContext != nil && dc.CodeContext.Summary != "" {
		a.detail("Symbols: " + dc.CodeContext.Summary)
	}
	for _, c := range dc.SimilarCommits {
		a.detail(fmt.Sprintf("Similar: %s (%.0f%%)", c.Message, c.Similarity*100))
	}

	return a.Regenerate(ctx, dc, req)
}

// Regenerate asks for a new message for an already assembled context.
// req.Previous lists the messages the model must not repeat.
func (a *CommitAgent) Regenerate(ctx context.Context, dc *diffctx.DiffContext, req CommitRequest) (*CommitResponse, error) {
	messages := a.BuildMessages(dc, req)
	log.DebugPrompt("commit", messages)

	raw, err := a.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	msg := commitmsg.Parse(raw)
	usedDefault := msg == commitmsg.Fallback && strings.TrimSpace(raw) != commitmsg.Fallback
	if usedDefault {
		log.Debug("Model reply is not a usable commit message: %q", raw)
		a.warning("Model reply was not a valid commit message, using default")
	}

	return &CommitResponse{
		Message:     msg,
		Tagged:      commitmsg.ParseTagged(msg),
		Raw:         raw,
		DiffContext: dc,
		UsedDefault: usedDefault,
	}, nil
}

// BuildMessages returns the conversation sent to the model
func (a *CommitAgent) BuildMessages(dc *diffctx.DiffContext, req CommitRequest) []*schema.Message {
	messages := prompt.Build(dc, prompt.Options{
		Language:     a.opts.Language,
		Emoji:        a.opts.Emoji,
		UserContext:  req.Context,
		MaxDiffChars: a.opts.MaxDiffChars,
	})
	return prompt.WithRetryHint(messages, req.Previous)
}

func (a *CommitAgent) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	call := func(ctx context.Context) (string, error) {
		return a.opts.Generator.GenerateText(ctx, messages, llm.GenerateOptions{})
	}
	if a.printer == nil {
		return call(ctx)
	}
	return ui.Spin(ctx, a.printer.Theme(), a.printer.Writer(), "Generating commit message...", call)
}

func (a *CommitAgent) progress(msg string) {
	if a.printer != nil {
		_ = a.printer.PrintProgress(msg)
	}
	log.Debug("%s", msg)
}

func (a *CommitAgent) info(msg string) {
	if a.printer != nil {
		_ = a.printer.PrintInfo(msg)
	}
}

func (a *CommitAgent) detail(msg string) {
	if a.printer != nil {
		_ = a.printer.PrintDetail(msg)
	}
}

func (a *CommitAgent) warning(msg string) {
	if a.printer != nil {
		_ = a.printer.PrintWarning(msg)
	}
}
