package usecase

import (
	"context"
	"log/slog"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// LastPipelineInput configures the get-last-pipeline batch.
type LastPipelineInput struct {
	ProjectTemplate string
}

// LastPipeline collects the latest pipeline of every project together
// with its jobs. Projects without pipelines report status "none".
func (b *Batch) LastPipeline(ctx context.Context, input LastPipelineInput) (model.PipelineReport, *model.BatchResult) {
	report := model.PipelineReport{}

	result := b.forEachProject(ctx, input.ProjectTemplate, true,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			pipeline, err := b.gl.LatestPipeline(ctx, project.ID)
			if err != nil {
				return err
			}
			if pipeline == nil {
				report[project.PathWithNamespace] = model.PipelineStatus{Status: "none"}
				return nil
			}

			jobs, err := b.gl.ListPipelineJobs(ctx, project.ID, pipeline.ID)
			if err != nil {
				return err
			}

			status := model.PipelineStatus{
				Status: pipeline.Status,
				ID:     pipeline.ID,
				Commit: pipeline.SHA,
			}
			for _, job := range jobs {
				status.Jobs = append(status.Jobs, model.PipelineJob{
					Status: job.Status,
					ID:     job.ID,
					Name:   job.Name,
				})
			}
			report[project.PathWithNamespace] = status

			logger.Debug("Collected pipeline status",
				slog.String("project", project.PathWithNamespace),
				slog.String("status", pipeline.Status))
			return nil
		})

	return report, result
}
