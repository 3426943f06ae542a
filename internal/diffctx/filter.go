package diffctx

import (
	"strings"

	"github.com/huimingz/commitflow/internal/git"
)

const (
	// MaxDiffSize is the largest diff, in characters, kept in a DiffContext
	MaxDiffSize = 500_000

	// TruncationMarker is appended to a diff cut at MaxDiffSize
	TruncationMarker = "\n\n[... diff truncated ...]"
)

// FilterDiff removes the sections of ignored files from diffText. It returns
// the filtered text and the distinct kept paths in order of appearance.
func FilterDiff(diffText string, matcher *IgnoreMatcher) (string, []string) {
	if diffText == "" {
		return "", nil
	}

	lines := strings.SplitAfter(diffText, "\n")
	var b strings.Builder
	b.Grow(len(diffText))

	var paths []string
	seen := make(map[string]struct{})
	skipping := false

	for _, line := range lines {
		if p, ok := git.ParseDiffHeader(strings.TrimRight(line, "\r\n")); ok {
			skipping = matcher.Match(p)
			if !skipping {
				if _, dup := seen[p]; !dup {
					seen[p] = struct{}{}
					paths = append(paths, p)
				}
			}
		}
		if !skipping {
			b.WriteString(line)
		}
	}

	return b.String(), paths
}

// ChangedPaths returns the distinct paths named by diff headers, in order
func ChangedPaths(diffText string) []string {
	_, paths := FilterDiff(diffText, nil)
	return paths
}

// Truncate cuts diffText to max characters and appends TruncationMarker when it was longer
func Truncate(diffText string, max int) (string, bool) {
	cut, truncated := CutRunes(diffText, max)
	if !truncated {
		return diffText, false
	}
	return cut + TruncationMarker, true
}

// CutRunes returns the first max runes of s and whether anything was cut.
// A max of zero or less keeps s whole.
func CutRunes(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i], true
		}
		n++
	}
	return s, false
}
