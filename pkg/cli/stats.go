package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/classtools/classlab/pkg/cli/config"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCommitStats() *cli.Command {
	var (
		batchCfg  batchConfig
		outputCfg config.Output
		project   string
		branch    string
	)

	flags := append(batchCfg.Flags(), outputCfg.Flags("", "")...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch to inspect (defaults to the project default branch)",
			Destination: &branch,
		},
	)

	return &cli.Command{
		Name:  "commit-stats",
		Usage: "Report per-commit line statistics of every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			reports, result := batch.CommitStats(ctx, usecase.CommitStatsInput{
				ProjectTemplate: project,
				Branch:          branch,
			})

			out, err := outputCfg.Writer()
			if err != nil {
				return err
			}
			defer out.Close()

			encoded, err := json.MarshalIndent(reports, "", "    ")
			if err != nil {
				return goerr.Wrap(err, "failed to encode commit statistics")
			}
			fmt.Fprintln(out, string(encoded))

			return usecase.Err(result)
		},
	}
}
