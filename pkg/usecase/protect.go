package usecase

import (
	"context"
	"log/slog"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// ProtectBranchInput configures branch protection across projects.
type ProtectBranchInput struct {
	ProjectTemplate string
	Branch          string
	PushLevel       gitlab.AccessLevelValue
	MergeLevel      gitlab.AccessLevelValue
}

// ProtectBranch protects a branch in every project. Protecting an
// already protected branch re-applies the requested access levels.
func (b *Batch) ProtectBranch(ctx context.Context, input ProtectBranchInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, true,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)
			logger.Info("Protecting branch",
				slog.String("project", project.PathWithNamespace),
				slog.String("branch", input.Branch))
			if b.dryRun {
				return nil
			}

			err := b.gl.ProtectBranch(ctx, project.ID, input.Branch, input.PushLevel, input.MergeLevel)
			if err != nil && goerr.HasTag(err, types.ErrTagConflict) {
				// Already protected: drop the old rule and apply the new
				// levels so the command stays idempotent.
				if err := b.gl.UnprotectBranch(ctx, project.ID, input.Branch); err != nil {
					return err
				}
				err = b.gl.ProtectBranch(ctx, project.ID, input.Branch, input.PushLevel, input.MergeLevel)
			}
			return err
		})
}

// UnprotectBranchInput configures branch unprotection across projects.
type UnprotectBranchInput struct {
	ProjectTemplate string
	Branch          string
}

// UnprotectBranch removes branch protection in every project. A branch
// that is not protected is a no-op.
func (b *Batch) UnprotectBranch(ctx context.Context, input UnprotectBranchInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, true,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)
			logger.Info("Unprotecting branch",
				slog.String("project", project.PathWithNamespace),
				slog.String("branch", input.Branch))
			if b.dryRun {
				return nil
			}

			err := b.gl.UnprotectBranch(ctx, project.ID, input.Branch)
			if err != nil && goerr.HasTag(err, types.ErrTagNotFound) {
				logger.Debug("Branch was not protected",
					slog.String("project", project.PathWithNamespace),
					slog.String("branch", input.Branch))
				return nil
			}
			return err
		})
}

// ProtectTagInput configures tag protection across projects.
type ProtectTagInput struct {
	ProjectTemplate string
	Tag             string
	CreateLevel     gitlab.AccessLevelValue
}

// ProtectTag protects a tag pattern in every project, re-applying the
// create access level when the pattern is already protected.
func (b *Batch) ProtectTag(ctx context.Context, input ProtectTagInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, true,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)
			logger.Info("Protecting tag",
				slog.String("project", project.PathWithNamespace),
				slog.String("tag", input.Tag))
			if b.dryRun {
				return nil
			}

			err := b.gl.ProtectTag(ctx, project.ID, input.Tag, input.CreateLevel)
			if err != nil && goerr.HasTag(err, types.ErrTagConflict) {
				if err := b.gl.UnprotectTag(ctx, project.ID, input.Tag); err != nil {
					return err
				}
				err = b.gl.ProtectTag(ctx, project.ID, input.Tag, input.CreateLevel)
			}
			return err
		})
}

// UnprotectTagInput configures tag unprotection across projects.
type UnprotectTagInput struct {
	ProjectTemplate string
	Tag             string
}

// UnprotectTag removes tag protection in every project. An unprotected
// tag is a no-op.
func (b *Batch) UnprotectTag(ctx context.Context, input UnprotectTagInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, true,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)
			logger.Info("Unprotecting tag",
				slog.String("project", project.PathWithNamespace),
				slog.String("tag", input.Tag))
			if b.dryRun {
				return nil
			}

			err := b.gl.UnprotectTag(ctx, project.ID, input.Tag)
			if err != nil && goerr.HasTag(err, types.ErrTagNotFound) {
				logger.Debug("Tag was not protected",
					slog.String("project", project.PathWithNamespace),
					slog.String("tag", input.Tag))
				return nil
			}
			return err
		})
}
