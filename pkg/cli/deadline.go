package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/cli/config"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdDeadlineCommit() *cli.Command {
	var (
		batchCfg    batchConfig
		deadlineCfg deadlineConfig
		outputCfg   config.Output
		project     string
		preferTag   string
	)

	flags := append(batchCfg.Flags(), deadlineCfg.Flags()...)
	flags = append(flags, outputCfg.Flags("login,commit", "{login},{commit.id}")...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "prefer-tag",
			Usage:       "Prefer the commit with this tag when it is before the deadline",
			Destination: &preferTag,
		},
	)

	return &cli.Command{
		Name:  "deadline-commit",
		Usage: "Resolve the last commit before the deadline per roster row",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			deadline, filter, err := deadlineCfg.Resolve()
			if err != nil {
				return err
			}

			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			out, err := outputCfg.Writer()
			if err != nil {
				return err
			}
			defer out.Close()

			result, err := batch.DeadlineReport(ctx, usecase.DeadlineReportInput{
				ProjectTemplate: project,
				Branch:          deadlineCfg.Branch,
				Deadline:        deadline,
				Filter:          filter,
				PreferTag:       preferTag,
				Header:          outputCfg.Header,
				RowFormat:       outputCfg.Format,
				Output:          out,
			})
			if err != nil {
				return err
			}
			return usecase.Err(result)
		},
	}
}
