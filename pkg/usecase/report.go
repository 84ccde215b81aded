package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/utils/templating"
	"github.com/m-mizutani/ctxlog"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// commitValues exposes the selected commit to output row templates.
func commitValues(c *gitlab.Commit) map[string]string {
	values := map[string]string{
		"commit.id":     c.ID,
		"commit.sha":    c.ID,
		"commit.short":  c.ShortID,
		"commit.author": c.AuthorEmail,
		"commit.title":  c.Title,
	}
	if ts := commitTime(c); !ts.IsZero() {
		values["commit.date"] = ts.Format(time.RFC3339)
	} else {
		values["commit.date"] = ""
	}
	return values
}

// DeadlineReportInput configures the deadline-commit batch.
type DeadlineReportInput struct {
	ProjectTemplate string
	Branch          string
	Deadline        time.Time
	Filter          CommitFilter
	PreferTag       string
	Header          string
	RowFormat       string
	Output          io.Writer
}

// DeadlineReport resolves the deadline commit per roster row and writes
// one templated output line per row, preceded by the header line.
func (b *Batch) DeadlineReport(ctx context.Context, input DeadlineReportInput) (*model.BatchResult, error) {
	if _, err := fmt.Fprintln(input.Output, input.Header); err != nil {
		return nil, err
	}

	result := b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			commit, err := b.ResolveDeadlineCommit(ctx, project.ID, input.Branch,
				input.Deadline, input.Filter, input.PreferTag)
			if err != nil {
				return err
			}

			logger.Debug("Resolved deadline commit",
				slog.String("project", project.PathWithNamespace),
				slog.String("commit", commit.ID))

			line, err := templating.Expand(input.RowFormat, row.Values(commitValues(commit)))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(input.Output, line)
			return err
		})
	return result, nil
}

// PipelineAtCommitInput configures the get-pipeline-at-commit batch.
type PipelineAtCommitInput struct {
	ProjectTemplate string
	Branch          string
	Deadline        time.Time
	Filter          CommitFilter
	Header          string
	RowFormat       string
	Output          io.Writer
}

// PipelineAtCommit resolves the deadline commit per row and reports the
// most recent pipeline run for it. A commit without pipelines yields
// status "none" rather than a row failure.
func (b *Batch) PipelineAtCommit(ctx context.Context, input PipelineAtCommitInput) (*model.BatchResult, error) {
	if _, err := fmt.Fprintln(input.Output, input.Header); err != nil {
		return nil, err
	}

	result := b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			commit, err := b.ResolveDeadlineCommit(ctx, project.ID, input.Branch,
				input.Deadline, input.Filter, "")
			if err != nil {
				return err
			}

			pipelines, err := b.gl.PipelinesForCommit(ctx, project.ID, commit.ID)
			if err != nil {
				return err
			}

			values := commitValues(commit)
			if len(pipelines) == 0 {
				values["pipeline.id"] = ""
				values["pipeline.status"] = "none"
			} else {
				values["pipeline.id"] = strconv.Itoa(pipelines[0].ID)
				values["pipeline.status"] = pipelines[0].Status
			}

			line, err := templating.Expand(input.RowFormat, row.Values(values))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(input.Output, line)
			return err
		})
	return result, nil
}
