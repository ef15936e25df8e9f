// internal/source/gitdiff_test.go
package source_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/flotsam/internal/source"
)

func initRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return dir, wt
}

func commitAll(t *testing.T, wt *git.Worktree, msg string) plumbing.Hash {
	t.Helper()
	_, err := wt.Add(".")
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestChangedSinceAcrossCommits(t *testing.T) {
	dir, wt := initRepo(t)
	writeTree(t, dir, map[string]string{
		"stable.js":   "s();",
		"modified.js": "m();",
		"drop.js":     "d();",
	})
	base := commitAll(t, wt, "base")

	writeTree(t, dir, map[string]string{
		"modified.js": "m(); m();",
		"added.js":    "a();",
	})
	_, err := wt.Remove("drop.js")
	require.NoError(t, err)
	commitAll(t, wt, "second")

	// Untracked worktree change on top of the committed history.
	writeTree(t, dir, map[string]string{"dirty.js": "x();"})

	changed, err := source.ChangedSince(dir, base.String(), zaptest.NewLogger(t))
	require.NoError(t, err)

	root := wt.Filesystem.Root()
	assert.Contains(t, changed, filepath.Join(root, "modified.js"))
	assert.Contains(t, changed, filepath.Join(root, "added.js"))
	assert.Contains(t, changed, filepath.Join(root, "drop.js"))
	assert.Contains(t, changed, filepath.Join(root, "dirty.js"))
	assert.NotContains(t, changed, filepath.Join(root, "stable.js"))
}

func TestChangedSinceWorktreeOnly(t *testing.T) {
	dir, wt := initRepo(t)
	writeTree(t, dir, map[string]string{
		"sub/nested.js": "n();",
		"clean.js":      "c();",
	})
	commitAll(t, wt, "base")

	writeTree(t, dir, map[string]string{"sub/nested.js": "n(); n();"})

	// HEAD..HEAD contributes nothing; only worktree status counts. Opening
	// from a subdirectory must still find the repository root.
	changed, err := source.ChangedSince(filepath.Join(dir, "sub"), "HEAD", zaptest.NewLogger(t))
	require.NoError(t, err)

	root := wt.Filesystem.Root()
	assert.Contains(t, changed, filepath.Join(root, "sub", "nested.js"))
	assert.NotContains(t, changed, filepath.Join(root, "clean.js"))
	assert.Len(t, changed, 1)
}

func TestChangedSinceCleanWorktree(t *testing.T) {
	dir, wt := initRepo(t)
	writeTree(t, dir, map[string]string{"only.js": "o();"})
	commitAll(t, wt, "base")

	changed, err := source.ChangedSince(dir, "HEAD", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestChangedSinceNotRepository(t *testing.T) {
	_, err := source.ChangedSince(t.TempDir(), "HEAD", zaptest.NewLogger(t))
	assert.ErrorIs(t, err, source.ErrNotRepository)
}

func TestChangedSinceBadRevision(t *testing.T) {
	dir, wt := initRepo(t)
	writeTree(t, dir, map[string]string{"only.js": "o();"})
	commitAll(t, wt, "base")

	_, err := source.ChangedSince(dir, "not-a-revision", zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving revision")
}
