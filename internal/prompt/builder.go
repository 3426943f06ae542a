// Package prompt turns a DiffContext into the system/user message pair sent
// to the language model.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/diffctx"
	"github.com/huimingz/commitflow/internal/symbols"
)

const (
	// DefaultMaxDiffChars bounds the diff body embedded in the user message
	DefaultMaxDiffChars = 3000

	// MaxSymbolLines bounds the symbol change lines in the user message
	MaxSymbolLines = 10

	maxFilesPerCommit = 5

	diffTruncatedMarker = "\n[... diff truncated ...]"
)

// Options customizes the generated prompt
type Options struct {
	Language     string // output language of the description, empty for the model default
	Emoji        bool   // ask for an emoji after the tag
	UserContext  string // developer-provided context
	MaxDiffChars int    // defaults to DefaultMaxDiffChars
}

var systemTemplate = template.Must(template.New("system_prompt").Parse(SystemPrompt))

// BuildSystemPrompt renders the system prompt for the given options
func BuildSystemPrompt(opts Options) string {
	data := struct {
		Language string
		Emoji    bool
		Context  string
	}{
		Language: opts.Language,
		Emoji:    opts.Emoji,
		Context:  opts.UserContext,
	}

	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, data); err != nil {
		return SystemPrompt
	}
	return buf.String()
}

// Build returns exactly one system message followed by one user message
func Build(dc *diffctx.DiffContext, opts Options) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(BuildSystemPrompt(opts)),
		schema.UserMessage(BuildUserMessage(dc, opts)),
	}
}

// BuildUserMessage assembles the user message: similar commits, code
// context, statistics, diff body and the reasoning instructions, in that order.
func BuildUserMessage(dc *diffctx.DiffContext, opts Options) string {
	if dc == nil {
		dc = &diffctx.DiffContext{}
	}
	maxDiff := opts.MaxDiffChars
	if maxDiff <= 0 {
		maxDiff = DefaultMaxDiffChars
	}

	var b strings.Builder
	b.WriteString("Please analyze the following staged change and generate a commit message.\n\n")

	writeSimilarCommits(&b, dc)
	writeCodeContext(&b, dc.CodeContext)
	writeStats(&b, dc)

	b.WriteString("## Staged Changes (Diff)\n")
	b.WriteString("```diff\n")
	b.WriteString(truncateDiff(dc.DiffText, maxDiff))
	b.WriteString("\n```\n\n")

	b.WriteString(chainOfThought)
	return b.String()
}

func writeSimilarCommits(b *strings.Builder, dc *diffctx.DiffContext) {
	if len(dc.SimilarCommits) == 0 {
		return
	}
	b.WriteString("## Similar Commits In This Repository\n")
	b.WriteString("Match their style where it fits:\n")
	for i, c := range dc.SimilarCommits {
		fmt.Fprintf(b, "%d. %s (files: %s) - %.0f%% similar\n", i+1, c.Message, fileList(c.Files), c.Similarity*100)
	}
	b.WriteString("\n")
}

func fileList(files []string) string {
	if len(files) <= maxFilesPerCommit {
		return strings.Join(files, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(files[:maxFilesPerCommit], ", "), len(files)-maxFilesPerCommit)
}

func writeCodeContext(b *strings.Builder, cc *symbols.CodeContext) {
	if cc.IsEmpty() {
		return
	}
	b.WriteString("## Code Changes\n")
	if cc.Summary != "" {
		fmt.Fprintf(b, "Summary: %s\n", cc.Summary)
	}
	for i, s := range cc.Symbols {
		if i == MaxSymbolLines {
			fmt.Fprintf(b, "... and %d more\n", len(cc.Symbols)-MaxSymbolLines)
			break
		}
		b.WriteString("- ")
		b.WriteString(FormatSymbol(s))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// FormatSymbol renders one symbol change as `ACTION: type "name" (was: old) in file`
func FormatSymbol(s symbols.CodeSymbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %q", strings.ToUpper(string(s.Action)), s.Type, s.Name)
	if s.OldName != "" {
		fmt.Fprintf(&b, " (was: %s)", s.OldName)
	}
	if s.File != "" {
		fmt.Fprintf(&b, " in %s", s.File)
	}
	return b.String()
}

func writeStats(b *strings.Builder, dc *diffctx.DiffContext) {
	b.WriteString("## Statistics\n")
	fmt.Fprintf(b, "%d files changed, %d insertions(+), %d deletions(-)\n",
		dc.Stats.FilesChanged, dc.Stats.Insertions, dc.Stats.Deletions)
	for _, f := range dc.Files {
		if f.Binary {
			fmt.Fprintf(b, "- %s (%s, binary)\n", f.Path, f.Status)
			continue
		}
		fmt.Fprintf(b, "- %s (%s) +%d/-%d\n", f.Path, f.Status, f.Insertions, f.Deletions)
	}
	b.WriteString("\n")
}

func truncateDiff(diffText string, max int) string {
	cut, truncated := diffctx.CutRunes(diffText, max)
	if !truncated {
		return diffText
	}
	return cut + diffTruncatedMarker
}

// WithRetryHint returns a copy of messages with an extra user message listing
// every previously generated message and asking for a different one.
func WithRetryHint(messages []*schema.Message, previous []string) []*schema.Message {
	out := make([]*schema.Message, len(messages), len(messages)+1)
	copy(out, messages)
	if len(previous) == 0 {
		return out
	}

	var b strings.Builder
	b.WriteString("These commit messages were already suggested and rejected:\n")
	for i, msg := range previous {
		fmt.Fprintf(&b, "%d. %s\n", i+1, msg)
	}
	b.WriteString("\n")
	b.WriteString(retryInstruction)

	return append(out, schema.UserMessage(b.String()))
}
