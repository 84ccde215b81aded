package cli

import (
	"context"
	"log/slog"

	"github.com/classtools/classlab/pkg/cli/config"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger
	var logger *slog.Logger

	app := &cli.Command{
		Name:    "classlab",
		Usage:   "Batch GitLab operations over a class roster",
		Version: types.Version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("run_id", uuid.NewString()))

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdFork(),
			cmdProtect(),
			cmdUnprotect(),
			cmdProtectTag(),
			cmdUnprotectTag(),
			cmdAddMember(),
			cmdRemoveMember(),
			cmdClone(),
			cmdDeadlineCommit(),
			cmdGetFile(),
			cmdPutFile(),
			cmdGetLastPipeline(),
			cmdGetPipelineAtCommit(),
			cmdCommitStats(),
			cmdAccounts(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
