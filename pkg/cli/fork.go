package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFork() *cli.Command {
	var (
		batchCfg batchConfig
		from     string
		to       string
		hideFork bool
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "from",
			Usage:       "Parent repository path",
			Required:    true,
			Destination: &from,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "Target repository path, formatted from roster columns",
			Required:    true,
			Destination: &to,
		},
		&cli.BoolFlag{
			Name:        "hide-fork",
			Usage:       "Remove the fork relationship after forking",
			Destination: &hideFork,
		},
	)

	return &cli.Command{
		Name:  "fork",
		Usage: "Fork one repository per roster row",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result, err := batch.Fork(ctx, usecase.ForkInput{
				From:       from,
				ToTemplate: to,
				HideFork:   hideFork,
			})
			if err != nil {
				return err
			}
			return usecase.Err(result)
		},
	}
}
