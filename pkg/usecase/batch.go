// Package usecase implements the per-row actions that make up a batch
// run: each action folds over the roster, maps rows to GitLab calls and
// records one outcome per row without ever aborting the whole batch.
package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/classtools/classlab/pkg/domain/interfaces"
	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/utils/templating"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Batch runs actions over all roster rows against one GitLab instance.
type Batch struct {
	gl          interfaces.GitLabClient
	roster      *model.Roster
	loginColumn string
	gitToken    types.Secret
	dryRun      bool
}

// Option configures a Batch.
type Option func(*Batch)

// WithDryRun makes mutating actions log what they would do without
// touching the instance.
func WithDryRun(dryRun bool) Option {
	return func(b *Batch) { b.dryRun = dryRun }
}

// WithGitToken provides the token used for git-over-HTTPS operations
// (clone, fetch).
func WithGitToken(token types.Secret) Option {
	return func(b *Batch) { b.gitToken = token }
}

// New creates a batch runner over the given roster.
func New(gl interfaces.GitLabClient, roster *model.Roster, loginColumn string, options ...Option) *Batch {
	b := &Batch{
		gl:          gl,
		roster:      roster,
		loginColumn: loginColumn,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// rowFunc processes one roster row whose project reference has already
// been resolved.
type rowFunc func(ctx context.Context, row model.Row, project *gitlab.Project) error

// forEachProject is the batch fold: expand the project template per row,
// resolve the project and hand it to fn. A failing row is recorded and
// logged, never raised. With dedup set, rows expanding to an already
// processed project path are skipped (several rows may share a project,
// e.g. team repositories).
func (b *Batch) forEachProject(ctx context.Context, projectTemplate string, dedup bool, fn rowFunc) *model.BatchResult {
	logger := ctxlog.From(ctx)
	result := &model.BatchResult{}
	seen := map[string]bool{}

	for _, row := range b.roster.Rows {
		label := row.Get(b.loginColumn)

		path, err := templating.Expand(projectTemplate, row)
		if err != nil {
			logger.Error("Failed to expand project template",
				slog.String("login", label), slog.Any("error", err))
			result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row, Err: err})
			continue
		}

		if dedup && seen[path] {
			continue
		}
		seen[path] = true

		project, err := b.gl.GetProject(ctx, path)
		if err != nil {
			logger.Error("Failed to resolve project",
				slog.String("login", label),
				slog.String("project", path),
				slog.Any("error", err))
			result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row, Err: err})
			continue
		}

		if err := fn(ctx, row, project); err != nil {
			logger.Error("Row failed",
				slog.String("login", label),
				slog.String("project", project.PathWithNamespace),
				slog.Any("error", err))
			result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row, Err: err})
			continue
		}

		result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row})
	}

	return result
}

// projectIDPath turns a numeric project id into the path form accepted
// by GetProject.
func projectIDPath(id int) string {
	return strconv.Itoa(id)
}

// resolveUser finds the GitLab account of a roster row. A missing
// account is reported as a not-found error; membership actions turn it
// into a warning and skip the row.
func (b *Batch) resolveUser(ctx context.Context, row model.Row) (*gitlab.User, error) {
	login := row.Get(b.loginColumn)
	if login == "" {
		return nil, goerr.New("roster row has an empty login",
			goerr.T(types.ErrTagNotFound), goerr.V("column", b.loginColumn))
	}
	return b.gl.FindUser(ctx, login)
}

// Err converts a batch result into the command's final error: nil when
// every row succeeded, ErrPartialFailure otherwise.
func Err(result *model.BatchResult) error {
	if result.Failed() > 0 {
		return goerr.Wrap(types.ErrPartialFailure, "batch finished with failures",
			goerr.V("failed", result.Failed()),
			goerr.V("succeeded", result.Succeeded()))
	}
	return nil
}
