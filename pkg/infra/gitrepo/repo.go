// Package gitrepo manages the local working copies created by the clone
// command.
package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/classtools/classlab/pkg/domain/types"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/m-mizutani/goerr/v2"
)

func tokenAuth(token types.Secret) transport.AuthMethod {
	if token == "" {
		return nil
	}
	// GitLab accepts any username with a private token over HTTPS.
	return &githttp.BasicAuth{Username: "oauth2", Password: token.Unwrap()}
}

// CloneOrFetch ensures localPath holds an up-to-date working copy of the
// repository at url. An existing repository is fetched; anything else in
// the way of the clone is an error.
func CloneOrFetch(ctx context.Context, localPath, url string, token types.Secret) (*git.Repository, error) {
	if _, err := os.Stat(filepath.Join(localPath, ".git")); err == nil {
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open local repository",
				goerr.V("path", localPath))
		}
		err = repo.FetchContext(ctx, &git.FetchOptions{
			Auth:  tokenAuth(token),
			Force: true,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil, goerr.Wrap(err, "failed to fetch local repository",
				goerr.V("path", localPath))
		}
		return repo, nil
	}

	if entries, err := os.ReadDir(localPath); err == nil && len(entries) > 0 {
		return nil, goerr.New("local path is a non-empty directory that is not a repository",
			goerr.V("path", localPath))
	}

	if err := os.MkdirAll(localPath, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create local path",
			goerr.V("path", localPath))
	}

	repo, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL:  url,
		Auth: tokenAuth(token),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to clone repository",
			goerr.V("path", localPath), goerr.V("url", url))
	}
	return repo, nil
}

// HardReset moves the working copy to the given commit, discarding local
// changes.
func HardReset(repo *git.Repository, sha string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return goerr.Wrap(err, "failed to open worktree")
	}
	err = worktree.Reset(&git.ResetOptions{
		Commit: plumbing.NewHash(sha),
		Mode:   git.HardReset,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to reset to commit", goerr.V("sha", sha))
	}
	return nil
}
