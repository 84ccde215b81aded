package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdClone() *cli.Command {
	var (
		batchCfg    batchConfig
		deadlineCfg deadlineConfig
		project     string
		to          string
		commit      string
	)

	flags := append(batchCfg.Flags(), deadlineCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "Local repository path, formatted from roster columns",
			Required:    true,
			Destination: &to,
		},
		&cli.StringFlag{
			Name:        "commit",
			Usage:       "Commit to reset to, formatted from roster columns (overrides the deadline scan)",
			Destination: &commit,
		},
	)

	return &cli.Command{
		Name:  "clone",
		Usage: "Clone or update a local working copy per roster row",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if commit != "" && c.IsSet("deadline") {
				return goerr.New("--commit and --deadline are mutually exclusive")
			}

			deadline, filter, err := deadlineCfg.Resolve()
			if err != nil {
				return err
			}

			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.Clone(ctx, usecase.CloneInput{
				ProjectTemplate: project,
				LocalTemplate:   to,
				Branch:          deadlineCfg.Branch,
				CommitTemplate:  commit,
				Deadline:        deadline,
				Filter:          filter,
			})
			return usecase.Err(result)
		},
	}
}
