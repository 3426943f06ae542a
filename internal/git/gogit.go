package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GoGitHistory reads commit history in-process with go-git instead of
// spawning `git log`. It is used as an alternative history source.
type GoGitHistory struct {
	repo *gogit.Repository
	path string
}

// NewGoGitHistory opens the repository containing path.
// Returns ErrNotRepository if no repository is found.
func NewGoGitHistory(path string) (*GoGitHistory, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	return &GoGitHistory{repo: repo, path: path}, nil
}

// RecentCommits walks history from HEAD, newest first, skipping merge
// commits, until limit commits are collected.
func (h *GoGitHistory) RecentCommits(ctx context.Context, limit int) ([]CommitRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	head, err := h.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	iter, err := h.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	var commits []CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if len(commits) >= limit {
			return storer.ErrStop
		}
		if c.NumParents() > 1 {
			return nil
		}

		stats, err := c.Stats()
		if err != nil {
			return fmt.Errorf("failed to diff commit %s: %w", c.Hash, err)
		}
		files := make([]string, 0, len(stats))
		for _, s := range stats {
			files = append(files, s.Name)
		}

		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, CommitRecord{
			Hash:    c.Hash.String(),
			Subject: strings.TrimSpace(subject),
			Files:   files,
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to walk commit history: %w", err)
	}

	return commits, nil
}
