// Package gittest builds throwaway on-disk repositories for command tests.
package gittest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type Repo struct {
	Dir  string
	Repo *git.Repository

	t *testing.T
	n int
}

func Init(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return &Repo{Dir: dir, Repo: repo, t: t}
}

// Commit writes a new file revision and commits it.
func (r *Repo) Commit() plumbing.Hash {
	r.t.Helper()
	r.n++

	err := os.WriteFile(filepath.Join(r.Dir, "file.txt"), []byte(fmt.Sprintf("commit %d\n", r.n)), 0o644)
	require.NoError(r.t, err)

	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)

	_, err = wt.Add("file.txt")
	require.NoError(r.t, err)

	h, err := wt.Commit(fmt.Sprintf("commit %d", r.n), &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(r.t, err)
	return h
}

// Tag creates a lightweight tag.
func (r *Repo) Tag(name string, h plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, h, nil)
	require.NoError(r.t, err)
}

// HasTag reports whether a tag called name exists.
func (r *Repo) HasTag(name string) bool {
	r.t.Helper()
	_, err := r.Repo.Tag(name)
	if err == git.ErrTagNotFound {
		return false
	}
	require.NoError(r.t, err)
	return true
}

// WriteFile writes a file relative to the repository root without
// committing it.
func (r *Repo) WriteFile(name, content string) {
	r.t.Helper()
	require.NoError(r.t, os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o644))
}

// Orphan points HEAD at a branch with no commits, as after
// git checkout --orphan.
func (r *Repo) Orphan(branch string) {
	r.t.Helper()
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	require.NoError(r.t, r.Repo.Storer.SetReference(ref))
}
