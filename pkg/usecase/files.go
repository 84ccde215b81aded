package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/utils/templating"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GetFileInput configures the get-file batch.
type GetFileInput struct {
	ProjectTemplate    string
	RemoteFileTemplate string
	LocalFileTemplate  string
	Branch             string
	Deadline           time.Time
	Filter             CommitFilter
}

// GetFile downloads one file per roster row at that row's deadline
// commit.
func (b *Batch) GetFile(ctx context.Context, input GetFileInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			remoteFile, err := templating.Expand(input.RemoteFileTemplate, row)
			if err != nil {
				return err
			}
			localFile, err := templating.Expand(input.LocalFileTemplate, row)
			if err != nil {
				return err
			}

			commit, err := b.ResolveDeadlineCommit(ctx, project.ID, input.Branch,
				input.Deadline, input.Filter, "")
			if err != nil {
				return err
			}

			content, err := b.gl.GetFileRaw(ctx, project.ID, remoteFile, commit.ID)
			if err != nil {
				return err
			}

			logger.Info("Fetched file",
				slog.String("project", project.PathWithNamespace),
				slog.String("file", remoteFile),
				slog.Int("size_bytes", len(content)))
			if b.dryRun {
				return nil
			}

			if err := os.MkdirAll(filepath.Dir(localFile), 0755); err != nil {
				return goerr.Wrap(err, "failed to create local directory",
					goerr.V("path", localFile))
			}
			if err := os.WriteFile(localFile, content, 0644); err != nil {
				return goerr.Wrap(err, "failed to write local file",
					goerr.V("path", localFile))
			}
			return nil
		})
}

// PutFileInput configures the put-file batch.
type PutFileInput struct {
	ProjectTemplate string
	FromTemplate    string
	ToTemplate      string
	Branch          string
	MessageTemplate string
	// ForceCommit uploads without comparing current remote content.
	ForceCommit bool
	// OnlyOnce never overwrites a file that already exists.
	OnlyOnce bool
}

// PutFile uploads a local file to every project, committing only when
// the remote content differs.
func (b *Batch) PutFile(ctx context.Context, input PutFileInput) *model.BatchResult {
	return b.forEachProject(ctx, input.ProjectTemplate, false,
		func(ctx context.Context, row model.Row, project *gitlab.Project) error {
			logger := ctxlog.From(ctx)

			fromFile, err := templating.Expand(input.FromTemplate, row)
			if err != nil {
				return err
			}
			toFile, err := templating.Expand(input.ToTemplate, row)
			if err != nil {
				return err
			}
			message, err := templating.Expand(input.MessageTemplate,
				row.Values(map[string]string{"target_filename": toFile}))
			if err != nil {
				return err
			}

			content, err := os.ReadFile(fromFile)
			if err != nil {
				return goerr.Wrap(err, "failed to read local file",
					goerr.V("path", fromFile))
			}

			alreadyExists := false
			if !input.ForceCommit {
				current, err := b.gl.GetFileRaw(ctx, project.ID, toFile, input.Branch)
				switch {
				case err == nil:
					alreadyExists = true
					if bytes.Equal(current, content) {
						logger.Info("No change, skipping",
							slog.String("project", project.PathWithNamespace),
							slog.String("file", toFile))
						return nil
					}
				case goerr.HasTag(err, types.ErrTagNotFound):
					// File not there yet, upload it.
				default:
					return err
				}
			}

			if alreadyExists && input.OnlyOnce {
				logger.Info("Not overwriting existing file",
					slog.String("project", project.PathWithNamespace),
					slog.String("file", toFile))
				return nil
			}

			logger.Info("Uploading file",
				slog.String("project", project.PathWithNamespace),
				slog.String("from", fromFile),
				slog.String("to", toFile))
			if b.dryRun {
				return nil
			}

			return b.gl.PutFile(ctx, project.ID, toFile, input.Branch, message,
				content, !input.OnlyOnce)
		})
}
