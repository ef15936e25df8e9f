// internal/source/gitdiff.go
package source

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// ErrNotRepository reports that --since was requested outside a git worktree.
var ErrNotRepository = errors.New("source: not inside a git repository")

// ChangedSince resolves the files touched between a revision and the current
// worktree: the diff from <rev> to HEAD plus anything staged, modified or
// untracked right now. Paths in the returned set are absolute.
func ChangedSince(dir, rev string, logger *zap.Logger) (map[string]struct{}, error) {
	log := logger.Named("gitdiff")

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolving worktree: %w", err)
	}
	repoRoot := worktree.Filesystem.Root()

	changed := make(map[string]struct{})
	add := func(rel string) {
		if rel == "" {
			return
		}
		changed[filepath.Join(repoRoot, filepath.FromSlash(rel))] = struct{}{}
	}

	// Committed changes: diff <rev>..HEAD.
	sinceHash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	sinceCommit, err := repo.CommitObject(*sinceHash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", sinceHash, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("loading HEAD commit: %w", err)
	}

	if sinceCommit.Hash != headCommit.Hash {
		patch, err := sinceCommit.Patch(headCommit)
		if err != nil {
			return nil, fmt.Errorf("diffing %s..HEAD: %w", rev, err)
		}
		for _, filePatch := range patch.FilePatches() {
			from, to := filePatch.Files()
			if to != nil {
				add(to.Path())
			} else if from != nil {
				add(from.Path())
			}
		}
	}

	// Uncommitted changes: worktree status.
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}
	for rel, fileStatus := range status {
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			add(rel)
		}
	}

	log.Debug("Resolved changed files",
		zap.String("since", rev),
		zap.Int("count", len(changed)),
	)
	return changed, nil
}
