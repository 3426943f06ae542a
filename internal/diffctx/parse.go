package diffctx

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/huimingz/commitflow/internal/git"
)

const devNull = "/dev/null"

// ParseFileChanges derives per-file status and line counts from unified diff
// text, for when git's numstat output is not available.
func ParseFileChanges(diffText string) ([]FileChange, error) {
	if strings.TrimSpace(diffText) == "" {
		return nil, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	changes := make([]FileChange, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		oldName := stripPrefix(fd.OrigName, "a/")
		newName := stripPrefix(fd.NewName, "b/")

		change := FileChange{Path: newName}
		switch {
		case fd.OrigName == devNull:
			change.Status = StatusAdded
		case fd.NewName == devNull:
			change.Status = StatusDeleted
			change.Path = oldName
		case oldName != newName:
			change.Status = StatusRenamed
		default:
			change.Status = StatusModified
		}

		st := fd.Stat()
		change.Insertions = int(st.Added + st.Changed)
		change.Deletions = int(st.Deleted + st.Changed)
		changes = append(changes, change)
	}
	return changes, nil
}

func stripPrefix(name, prefix string) string {
	if name == devNull {
		return name
	}
	return strings.TrimPrefix(name, prefix)
}

// statusFromGit maps a git name-status letter to a FileStatus
func statusFromGit(letter string) FileStatus {
	switch letter {
	case "A", "C":
		return StatusAdded
	case "D":
		return StatusDeleted
	case "R":
		return StatusRenamed
	default:
		return StatusModified
	}
}

// mergeFileStats joins name-status and numstat output for the kept paths
func mergeFileStats(paths []string, statuses []git.FileStatus, nums []git.FileNumStat) []FileChange {
	statusByPath := make(map[string]string, len(statuses))
	for _, s := range statuses {
		statusByPath[s.Path] = s.Status
	}
	numByPath := make(map[string]git.FileNumStat, len(nums))
	for _, n := range nums {
		numByPath[n.Path] = n
	}

	changes := make([]FileChange, 0, len(paths))
	for _, p := range paths {
		change := FileChange{Path: p, Status: StatusModified}
		if letter, ok := statusByPath[p]; ok {
			change.Status = statusFromGit(letter)
		}
		if n, ok := numByPath[p]; ok {
			change.Insertions = n.Insertions
			change.Deletions = n.Deletions
			change.Binary = n.Binary
		}
		changes = append(changes, change)
	}
	return changes
}

// keepPaths filters changes down to paths, preserving the order of paths
func keepPaths(changes []FileChange, paths []string) []FileChange {
	byPath := make(map[string]FileChange, len(changes))
	for _, c := range changes {
		byPath[c.Path] = c
	}
	kept := make([]FileChange, 0, len(paths))
	for _, p := range paths {
		if c, ok := byPath[p]; ok {
			kept = append(kept, c)
		} else {
			kept = append(kept, FileChange{Path: p, Status: StatusModified})
		}
	}
	return kept
}
