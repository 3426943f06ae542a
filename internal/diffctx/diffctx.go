// Package diffctx assembles the staged change into a DiffContext: filtered
// diff text, file statistics, extracted code symbols and similar history.
package diffctx

import (
	"context"
	"fmt"
	"strings"

	"github.com/huimingz/commitflow/internal/git"
	"github.com/huimingz/commitflow/internal/history"
	"github.com/huimingz/commitflow/internal/log"
	"github.com/huimingz/commitflow/internal/symbols"
)

// FileStatus is the kind of change applied to one file
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// FileChange describes one changed file
type FileChange struct {
	Path       string     `json:"path"`
	Status     FileStatus `json:"status"`
	Insertions int        `json:"insertions"`
	Deletions  int        `json:"deletions"`
	Binary     bool       `json:"binary,omitempty"`
}

// Stats are aggregate counters over every kept file
type Stats struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// DiffContext is everything the prompt builder knows about one change
type DiffContext struct {
	DiffText       string                 `json:"diff_text"`
	FilesChanged   int                    `json:"files_changed"`
	Truncated      bool                   `json:"truncated"`
	Stats          Stats                  `json:"stats"`
	Files          []FileChange           `json:"files"`
	CodeContext    *symbols.CodeContext   `json:"code_context,omitempty"`
	SimilarCommits []history.RankedCommit `json:"similar_commits,omitempty"`
}

// ChangedFiles returns the paths of every kept file
func (dc *DiffContext) ChangedFiles() []string {
	paths := make([]string, 0, len(dc.Files))
	for _, f := range dc.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// DiffSource is the part of the git collaborator the assembler reads from
type DiffSource interface {
	DiffCached(ctx context.Context) (string, error)
	NameStatus(ctx context.Context) ([]git.FileStatus, error)
	NumStat(ctx context.Context) ([]git.FileNumStat, error)
}

// SimilarityFinder ranks historical commits against the current change
type SimilarityFinder interface {
	FindSimilarCommits(ctx context.Context, changedFiles, keywords []string, maxResults int) []history.RankedCommit
}

// Options tunes the assembler
type Options struct {
	MaxDiffSize       int // defaults to MaxDiffSize
	MaxSimilarCommits int // 0 disables history lookup
}

// Assembler builds DiffContext values
type Assembler struct {
	source  DiffSource
	ranker  SimilarityFinder
	matcher *IgnoreMatcher
	opts    Options
}

// NewAssembler creates an Assembler. ranker and matcher may be nil.
func NewAssembler(source DiffSource, ranker SimilarityFinder, matcher *IgnoreMatcher, opts Options) *Assembler {
	if opts.MaxDiffSize <= 0 {
		opts.MaxDiffSize = MaxDiffSize
	}
	return &Assembler{
		source:  source,
		ranker:  ranker,
		matcher: matcher,
		opts:    opts,
	}
}

// Assemble reads the staged change and builds its DiffContext. It fails
// only when git fails or nothing relevant is staged.
func (a *Assembler) Assemble(ctx context.Context) (*DiffContext, error) {
	raw, err := a.source.DiffCached(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get staged diff: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, git.ErrNoStagedChanges
	}

	filtered, paths := FilterDiff(raw, a.matcher)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: every staged file matches an ignore pattern", git.ErrNoStagedChanges)
	}

	files, err := a.fileChanges(ctx, filtered, paths)
	if err != nil {
		return nil, err
	}

	return a.build(ctx, filtered, paths, files), nil
}

// AssembleDiff builds a DiffContext from diff text that did not come from
// the staging area, deriving file statistics from the text itself.
func (a *Assembler) AssembleDiff(ctx context.Context, diffText string) (*DiffContext, error) {
	filtered, paths := FilterDiff(diffText, a.matcher)
	if len(paths) == 0 {
		return nil, git.ErrNoStagedChanges
	}

	changes, err := ParseFileChanges(filtered)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, filtered, paths, keepPaths(changes, paths)), nil
}

func (a *Assembler) fileChanges(ctx context.Context, filtered string, paths []string) ([]FileChange, error) {
	statuses, err := a.source.NameStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get staged file status: %w", err)
	}
	nums, err := a.source.NumStat(ctx)
	if err != nil {
		log.Debug("numstat unavailable, counting lines from the diff: %v", err)
		changes, perr := ParseFileChanges(filtered)
		if perr != nil {
			return nil, perr
		}
		return keepPaths(changes, paths), nil
	}
	return mergeFileStats(paths, statuses, nums), nil
}

func (a *Assembler) build(ctx context.Context, filtered string, paths []string, files []FileChange) *DiffContext {
	dc := &DiffContext{
		FilesChanged: len(paths),
		Files:        files,
		Stats:        Stats{FilesChanged: len(paths)},
	}
	for _, f := range files {
		dc.Stats.Insertions += f.Insertions
		dc.Stats.Deletions += f.Deletions
	}

	dc.CodeContext = symbols.Extract(filtered)
	log.Debug("Extracted %d symbols from %d files", len(dc.CodeContext.Symbols), len(paths))

	dc.DiffText, dc.Truncated = Truncate(filtered, a.opts.MaxDiffSize)
	if dc.Truncated {
		log.Debug("Diff truncated from %d to %d bytes", len(filtered), a.opts.MaxDiffSize)
	}

	if a.ranker != nil && a.opts.MaxSimilarCommits > 0 {
		dc.SimilarCommits = a.ranker.FindSimilarCommits(ctx, paths, dc.CodeContext.KeywordsForHistory(), a.opts.MaxSimilarCommits)
		log.Debug("Found %d similar commits", len(dc.SimilarCommits))
	}

	return dc
}
