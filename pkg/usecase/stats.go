package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// CommitStatsInput configures the commit-stats batch.
type CommitStatsInput struct {
	ProjectTemplate string
	Branch          string
}

// CommitStats collects the full commit history of every project with
// per-commit line statistics. One extra API call per commit is needed
// because the list endpoint does not include stats.
func (b *Batch) CommitStats(ctx context.Context, input CommitStatsInput) ([]model.ProjectStats, *model.BatchResult) {
	var reports []model.ProjectStats

	result := b.forEachProject(ctx, input.ProjectTemplate, true,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			branch := input.Branch
			if branch == "" {
				branch = project.DefaultBranch
			}

			commits, err := b.gl.ListCommits(ctx, project.ID, branch, time.Time{})
			if err != nil {
				return err
			}

			stats := model.ProjectStats{
				Project: project.PathWithNamespace,
				Commits: make(map[string]model.CommitStat, len(commits)),
			}
			for _, c := range commits {
				detail, err := b.gl.GetCommit(ctx, project.ID, c.ID)
				if err != nil {
					return err
				}
				entry := model.CommitStat{
					Parents:     detail.ParentIDs,
					Subject:     detail.Title,
					AuthorEmail: detail.AuthorEmail,
					AuthorDate:  commitTime(detail),
				}
				if detail.Stats != nil {
					entry.Additions = detail.Stats.Additions
					entry.Deletions = detail.Stats.Deletions
				}
				stats.Commits[detail.ID] = entry
			}
			reports = append(reports, stats)

			logger.Debug("Collected commit stats",
				slog.String("project", project.PathWithNamespace),
				slog.Int("commits", len(commits)))
			return nil
		})

	return reports, result
}
