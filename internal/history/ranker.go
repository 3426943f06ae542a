// Package history ranks recent commits by how closely they relate to the
// staged change. The best matches are used as few-shot examples.
package history

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/huimingz/commitflow/internal/git"
	"github.com/huimingz/commitflow/internal/log"
)

const (
	// DefaultMaxResults is the number of ranked commits returned when none is requested
	DefaultMaxResults = 5

	fileWeight    = 0.6
	dirWeight     = 0.3
	keywordWeight = 0.1

	// rootDir stands in for the parent directory of top-level files
	rootDir = "."
)

// Source provides recent non-merge commits, newest first
type Source interface {
	RecentCommits(ctx context.Context, limit int) ([]git.CommitRecord, error)
}

// RankedCommit is a historical commit scored against the current change
type RankedCommit struct {
	Hash       string   `json:"hash"`
	Message    string   `json:"message"`
	Files      []string `json:"files"`
	Similarity float64  `json:"similarity"`
}

// Ranker scores recent history against a set of changed files
type Ranker struct {
	source Source
	limit  int
}

// NewRanker creates a Ranker reading at most limit commits from source.
// A non-positive limit uses git.DefaultHistoryLimit.
func NewRanker(source Source, limit int) *Ranker {
	if limit <= 0 {
		limit = git.DefaultHistoryLimit
	}
	return &Ranker{source: source, limit: limit}
}

// FindSimilarCommits returns at most maxResults commits with a positive
// score, best first. Ties keep history order. History errors are logged and
// produce an empty result.
func (r *Ranker) FindSimilarCommits(ctx context.Context, changedFiles, keywords []string, maxResults int) []RankedCommit {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if r == nil || r.source == nil {
		return nil
	}

	commits, err := r.source.RecentCommits(ctx, r.limit)
	if err != nil {
		log.Debug("History unavailable, skipping similar commits: %v", err)
		return nil
	}

	return Rank(commits, changedFiles, keywords, maxResults)
}

// Rank scores commits against changedFiles and keywords
func Rank(commits []git.CommitRecord, changedFiles, keywords []string, maxResults int) []RankedCommit {
	current := toSet(changedFiles)
	currentDirs := dirSet(changedFiles)

	ranked := make([]RankedCommit, 0, len(commits))
	for _, c := range commits {
		score := Score(current, currentDirs, c, keywords)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, RankedCommit{
			Hash:       c.Hash,
			Message:    c.Subject,
			Files:      c.Files,
			Similarity: score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// Score combines file overlap, directory overlap and keyword match into [0, 1]
func Score(current, currentDirs map[string]struct{}, c git.CommitRecord, keywords []string) float64 {
	fileOverlap := Jaccard(current, toSet(c.Files))
	dirOverlap := Jaccard(currentDirs, dirSet(c.Files))
	keywordMatch := KeywordMatch(c.Subject, keywords)

	score := fileWeight*fileOverlap + dirWeight*dirOverlap + keywordWeight*keywordMatch
	if score > 1 {
		score = 1
	}
	return score
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// KeywordMatch returns the fraction of keywords found case-insensitively in subject
func KeywordMatch(subject string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(subject)
	matched := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func dirSet(files []string) map[string]struct{} {
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		dir := path.Dir(f)
		if dir == "" || dir == "/" {
			dir = rootDir
		}
		set[dir] = struct{}{}
	}
	return set
}
