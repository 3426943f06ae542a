package git

import (
	"regexp"
	"strconv"
	"strings"
)

// ShortStat holds the counters printed by `git diff --shortstat`
type ShortStat struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// FileStatus is one line of `git diff --name-status`
type FileStatus struct {
	Status  string // first letter: A, M, D, R, C, T
	Path    string
	OldPath string // set for renames and copies
}

// FileNumStat is one line of `git diff --numstat`
type FileNumStat struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// CommitRecord is a historical commit with the paths it touched
type CommitRecord struct {
	Hash    string
	Subject string
	Files   []string
}

var (
	shortStatFiles      = regexp.MustCompile(`(\d+) files? changed`)
	shortStatInsertions = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	shortStatDeletions  = regexp.MustCompile(`(\d+) deletions?\(-\)`)
	braceRename         = regexp.MustCompile(`^(.*)\{(.*) => (.*)\}(.*)$`)
	plainHeaderOld      = regexp.MustCompile(`^a/.+? ((?:b/|"b/).+)$`)
)

// ParseShortStat parses " 3 files changed, 10 insertions(+), 2 deletions(-)"
func ParseShortStat(out string) ShortStat {
	atoi := func(re *regexp.Regexp) int {
		m := re.FindStringSubmatch(out)
		if m == nil {
			return 0
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return ShortStat{
		FilesChanged: atoi(shortStatFiles),
		Insertions:   atoi(shortStatInsertions),
		Deletions:    atoi(shortStatDeletions),
	}
}

// ParseNameStatus parses tab separated name-status output
func ParseNameStatus(out string) []FileStatus {
	var files []FileStatus
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		fs := FileStatus{Status: fields[0][:1], Path: fields[len(fields)-1]}
		if len(fields) >= 3 {
			fs.OldPath = fields[1]
		}
		files = append(files, fs)
	}
	return files
}

// ParseNumStat parses tab separated numstat output. Binary files report "-"
// for both counters and are returned with zero counts.
func ParseNumStat(out string) []FileNumStat {
	var files []FileNumStat
	for _, line := range strings.Split(out, "\n") {
		fields := strings.SplitN(strings.TrimRight(line, "\r"), "\t", 3)
		if len(fields) != 3 {
			continue
		}
		ns := FileNumStat{Path: resolveRenamePath(fields[2])}
		if fields[0] == "-" && fields[1] == "-" {
			ns.Binary = true
		} else {
			ns.Insertions, _ = strconv.Atoi(fields[0])
			ns.Deletions, _ = strconv.Atoi(fields[1])
		}
		files = append(files, ns)
	}
	return files
}

// resolveRenamePath turns "src/{a => b}/x.go" or "a.go => b.go" into the new path
func resolveRenamePath(p string) string {
	if m := braceRename.FindStringSubmatch(p); m != nil {
		joined := m[1] + m[3] + m[4]
		return strings.ReplaceAll(joined, "//", "/")
	}
	if idx := strings.Index(p, " => "); idx >= 0 {
		return p[idx+len(" => "):]
	}
	return p
}

// ParseCommitLog parses log output where every commit starts with a
// sentinel-prefixed "hash|subject" line followed by its file paths.
func ParseCommitLog(out string) []CommitRecord {
	var commits []CommitRecord
	current := -1

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, commitSentinel) {
			header := strings.TrimPrefix(line, commitSentinel)
			hash, subject, _ := strings.Cut(header, "|")
			commits = append(commits, CommitRecord{Hash: hash, Subject: subject})
			current = len(commits) - 1
			continue
		}
		if current < 0 || strings.TrimSpace(line) == "" {
			continue
		}
		commits[current].Files = append(commits[current].Files, strings.TrimSpace(line))
	}
	return commits
}

// ParseDiffHeader returns the new-side path of a "diff --git" header line.
// Paths quoted by git (core.quotePath) are unquoted.
func ParseDiffHeader(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "diff --git ")
	if !ok {
		return "", false
	}

	if strings.HasPrefix(rest, `"`) {
		oldPath, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return "", false
		}
		rest = strings.TrimPrefix(rest[len(oldPath):], " ")
	} else {
		m := plainHeaderOld.FindStringSubmatch(rest)
		if m == nil {
			return "", false
		}
		rest = m[1]
	}

	if strings.HasPrefix(rest, `"`) {
		unquoted, err := strconv.Unquote(rest)
		if err != nil {
			return "", false
		}
		rest = unquoted
	}
	path, ok := strings.CutPrefix(rest, "b/")
	if !ok || path == "" {
		return "", false
	}
	return path, true
}
