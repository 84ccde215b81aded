package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/infra/gitrepo"
	"github.com/classtools/classlab/pkg/utils/templating"
	"github.com/m-mizutani/ctxlog"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// CloneInput configures the clone batch.
type CloneInput struct {
	ProjectTemplate string
	LocalTemplate   string
	Branch          string
	// CommitTemplate pins the checked-out commit per row. When empty,
	// the deadline scan picks the commit.
	CommitTemplate string
	Deadline       time.Time
	Filter         CommitFilter
}

// Clone clones or updates a local working copy per roster row and hard
// resets it to the selected commit.
func (b *Batch) Clone(ctx context.Context, input CloneInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			localPath, err := templating.Expand(input.LocalTemplate, row)
			if err != nil {
				return err
			}

			var commit *gitlab.Commit
			if input.CommitTemplate != "" {
				sha, err := templating.Expand(input.CommitTemplate, row)
				if err != nil {
					return err
				}
				commit, err = b.gl.GetCommit(ctx, project.ID, sha)
				if err != nil {
					return err
				}
			} else {
				commit, err = b.ResolveDeadlineCommit(ctx, project.ID, input.Branch,
					input.Deadline, input.Filter, "")
				if err != nil {
					return err
				}
			}

			logger.Info("Cloning project",
				slog.String("project", project.PathWithNamespace),
				slog.String("local_path", localPath),
				slog.String("commit", commit.ID))
			if b.dryRun {
				return nil
			}

			repo, err := gitrepo.CloneOrFetch(ctx, localPath, project.HTTPURLToRepo, b.gitToken)
			if err != nil {
				return err
			}
			return gitrepo.HardReset(repo, commit.ID)
		})
}
