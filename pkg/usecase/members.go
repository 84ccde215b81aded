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

// AddMemberInput configures the add-member batch.
type AddMemberInput struct {
	ProjectTemplate string
	Level           gitlab.AccessLevelValue
}

// AddMember adds each roster user to their project at the given access
// level. Users who are already members get their level updated. Logins
// without a GitLab account are skipped with a warning.
func (b *Batch) AddMember(ctx context.Context, input AddMemberInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			user, err := b.resolveUser(ctx, row)
			if err != nil {
				if goerr.HasTag(err, types.ErrTagNotFound) {
					logger.Warn("User not found, skipping",
						slog.String("login", row.Get(b.loginColumn)))
					return nil
				}
				return err
			}

			logger.Info("Adding member",
				slog.String("user", user.Username),
				slog.String("project", project.PathWithNamespace),
				slog.Int("access_level", int(input.Level)))
			if b.dryRun {
				return nil
			}

			err = b.gl.AddMember(ctx, project.ID, user.ID, input.Level)
			if err != nil && goerr.HasTag(err, types.ErrTagConflict) {
				// Already a member: update the access level instead.
				return b.gl.EditMember(ctx, project.ID, user.ID, input.Level)
			}
			return err
		})
}

// RemoveMemberInput configures the remove-member batch.
type RemoveMemberInput struct {
	ProjectTemplate string
}

// RemoveMember removes each roster user from their project. Removing
// someone who is not a member is a no-op.
func (b *Batch) RemoveMember(ctx context.Context, input RemoveMemberInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			user, err := b.resolveUser(ctx, row)
			if err != nil {
				if goerr.HasTag(err, types.ErrTagNotFound) {
					logger.Warn("User not found, skipping",
						slog.String("login", row.Get(b.loginColumn)))
					return nil
				}
				return err
			}

			logger.Info("Removing member",
				slog.String("user", user.Username),
				slog.String("project", project.PathWithNamespace))
			if b.dryRun {
				return nil
			}

			err = b.gl.RemoveMember(ctx, project.ID, user.ID)
			if err != nil && goerr.HasTag(err, types.ErrTagNotFound) {
				logger.Debug("User was not a member",
					slog.String("user", user.Username),
					slog.String("project", project.PathWithNamespace))
				return nil
			}
			return err
		})
}
