package diffctx

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/huimingz/commitflow/internal/log"
)

// IgnoreFileName is the project-level file holding extra ignore patterns
const IgnoreFileName = ".commitflowignore"

// DefaultIgnorePatterns exclude lockfiles, generated assets and dependency/build directories
var DefaultIgnorePatterns = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"go.sum",
	"Cargo.lock",
	"poetry.lock",
	"Pipfile.lock",
	"Gemfile.lock",
	"composer.lock",
	"*.min.js",
	"*.min.css",
	"*.map",
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/.next/**",
	"**/target/**",
	"**/__pycache__/**",
}

// IgnoreMatcher decides whether a changed file is excluded from the diff context
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher creates a matcher over the given glob patterns.
// Invalid patterns are dropped.
func NewIgnoreMatcher(patterns ...string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, p := range patterns {
		p = normalizePattern(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			log.Debug("Ignoring invalid ignore pattern %q", p)
			continue
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// LoadIgnoreMatcher builds a matcher from the default patterns plus the
// ignore file in dir, if any. A missing or unreadable file only logs.
func LoadIgnoreMatcher(dir string) *IgnoreMatcher {
	patterns := append([]string{}, DefaultIgnorePatterns...)

	f, err := os.Open(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Debug("Failed to open %s: %v", IgnoreFileName, err)
		}
		return NewIgnoreMatcher(patterns...)
	}
	defer f.Close()

	extra, err := ParseIgnorePatterns(f)
	if err != nil {
		log.Debug("Failed to read %s: %v", IgnoreFileName, err)
	}
	log.Debug("Loaded %d patterns from %s", len(extra), IgnoreFileName)

	return NewIgnoreMatcher(append(patterns, extra...)...)
}

// ParseIgnorePatterns reads newline-separated patterns, skipping blanks and # comments
func ParseIgnorePatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// Patterns returns the effective patterns
func (m *IgnoreMatcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}

// Match reports whether filePath is ignored. Patterns without a slash match
// the base name at any depth.
func (m *IgnoreMatcher) Match(filePath string) bool {
	if m == nil {
		return false
	}
	filePath = strings.TrimPrefix(filePath, "./")
	base := path.Base(filePath)

	for _, p := range m.patterns {
		target := filePath
		if !strings.Contains(p, "/") {
			target = base
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

func normalizePattern(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "/")
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	return p
}
