package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/gt"

	"github.com/classtools/classlab/pkg/infra/gitrepo"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) string {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))

	worktree, err := repo.Worktree()
	gt.NoError(t, err)
	_, err = worktree.Add(name)
	gt.NoError(t, err)

	hash, err := worktree.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "author@example.com",
			When:  time.Now(),
		},
	})
	gt.NoError(t, err)
	return hash.String()
}

func TestHardReset(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	gt.NoError(t, err)

	first := commitFile(t, repo, dir, "a.txt", "one")
	commitFile(t, repo, dir, "b.txt", "two")

	gt.NoError(t, gitrepo.HardReset(repo, first))

	head, err := repo.Head()
	gt.NoError(t, err)
	gt.Equal(t, head.Hash().String(), first)

	if _, err := os.Stat(filepath.Join(dir, "b.txt")); !os.IsNotExist(err) {
		t.Errorf("b.txt still present after hard reset: %v", err)
	}
}

func TestCloneOrFetch(t *testing.T) {
	// Source repository with one commit.
	srcDir := t.TempDir()
	src, err := git.PlainInit(srcDir, false)
	gt.NoError(t, err)
	sha := commitFile(t, src, srcDir, "readme.md", "hello")

	t.Run("clone from scratch", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "clone")
		repo, err := gitrepo.CloneOrFetch(context.Background(), dst, srcDir, "")
		gt.NoError(t, err)

		head, err := repo.Head()
		gt.NoError(t, err)
		gt.Equal(t, head.Hash().String(), sha)
	})

	t.Run("fetch existing clone", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "clone")
		_, err := gitrepo.CloneOrFetch(context.Background(), dst, srcDir, "")
		gt.NoError(t, err)

		// A second call takes the fetch path and must succeed even when
		// nothing changed.
		_, err = gitrepo.CloneOrFetch(context.Background(), dst, srcDir, "")
		gt.NoError(t, err)
	})

	t.Run("refuse non-empty non-repository", func(t *testing.T) {
		dst := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(dst, "junk"), []byte("x"), 0644))

		_, err := gitrepo.CloneOrFetch(context.Background(), dst, srcDir, "")
		gt.Error(t, err)
	})
}
