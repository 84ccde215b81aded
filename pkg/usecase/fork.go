package usecase

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/utils/templating"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// ForkInput describes one fork batch: a fixed source project forked once
// per roster row into a templated destination path.
type ForkInput struct {
	From       string
	ToTemplate string
	HideFork   bool
}

const (
	forkWaitAttempts = 60
	forkWaitInterval = 5 * time.Second
)

// Fork forks the source project for every roster row. An already
// existing destination is picked up as-is, so re-running the command is
// safe.
func (b *Batch) Fork(ctx context.Context, input ForkInput) (*model.BatchResult, error) {
	logger := ctxlog.From(ctx)

	source, err := b.gl.GetProject(ctx, input.From)
	if err != nil {
		return nil, goerr.Wrap(err, "source project not found",
			goerr.V("project", input.From))
	}

	result := &model.BatchResult{}
	for _, row := range b.roster.Rows {
		label := row.Get(b.loginColumn)
		err := b.forkOne(ctx, source, row, input)
		if err != nil {
			logger.Error("Fork failed",
				slog.String("login", label), slog.Any("error", err))
		}
		result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row, Err: err})
	}
	return result, nil
}

func (b *Batch) forkOne(ctx context.Context, source *gitlab.Project, row model.Row, input ForkInput) error {
	logger := ctxlog.From(ctx)

	toPath, err := templating.Expand(input.ToTemplate, row)
	if err != nil {
		return err
	}
	namespace := path.Dir(toPath)
	if namespace == "." {
		// No slash in the target: fork into the token owner's namespace.
		namespace = ""
	}
	name := path.Base(toPath)

	logger.Info("Forking project",
		slog.String("from", source.PathWithNamespace),
		slog.String("to", toPath))

	if b.dryRun {
		return nil
	}

	fork, err := b.gl.ForkProject(ctx, source.ID, namespace, name, name)
	switch {
	case err == nil:
		if err := b.waitForFork(ctx, fork.ID); err != nil {
			return err
		}
	case goerr.HasTag(err, types.ErrTagConflict):
		// Destination already exists: not an error, re-runs are expected.
		logger.Debug("Fork already exists", slog.String("to", toPath))
		fork, err = b.gl.GetProject(ctx, toPath)
		if err != nil {
			return err
		}
	default:
		return err
	}

	if input.HideFork {
		if err := b.gl.DeleteForkRelation(ctx, fork.ID); err != nil {
			if !goerr.HasTag(err, types.ErrTagConflict) {
				return err
			}
			// 304: relation already removed.
		}
	}
	return nil
}

// waitForFork polls until the forked repository is populated. Forking is
// asynchronous on the server side and follow-up actions need the
// repository content to exist.
func (b *Batch) waitForFork(ctx context.Context, projectID int) error {
	for attempt := 0; attempt < forkWaitAttempts; attempt++ {
		project, err := b.gl.GetProject(ctx, projectIDPath(projectID))
		if err != nil {
			return err
		}
		if !project.EmptyRepo {
			return nil
		}
		select {
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "cancelled while waiting for fork")
		case <-time.After(forkWaitInterval):
		}
	}
	return goerr.New("timed out waiting for fork to be populated",
		goerr.V("project_id", projectID))
}
