package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdProtect() *cli.Command {
	var (
		batchCfg   batchConfig
		project    string
		branch     string
		pushLevel  string
		mergeLevel string
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch name to set protection on",
			Required:    true,
			Destination: &branch,
		},
		&cli.StringFlag{
			Name:        "push-level",
			Usage:       "Minimum level allowed to push (guest, reporter, devel, maintainer)",
			Value:       "maintainer",
			Destination: &pushLevel,
		},
		&cli.StringFlag{
			Name:        "merge-level",
			Usage:       "Minimum level allowed to merge (guest, reporter, devel, maintainer)",
			Value:       "maintainer",
			Destination: &mergeLevel,
		},
	)

	return &cli.Command{
		Name:  "protect",
		Usage: "Set branch protection on every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			push, err := model.ParseAccessLevel(pushLevel)
			if err != nil {
				return err
			}
			merge, err := model.ParseAccessLevel(mergeLevel)
			if err != nil {
				return err
			}

			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.ProtectBranch(ctx, usecase.ProtectBranchInput{
				ProjectTemplate: project,
				Branch:          branch,
				PushLevel:       push,
				MergeLevel:      merge,
			})
			return usecase.Err(result)
		},
	}
}

func cmdUnprotect() *cli.Command {
	var (
		batchCfg batchConfig
		project  string
		branch   string
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch name to unprotect",
			Required:    true,
			Destination: &branch,
		},
	)

	return &cli.Command{
		Name:  "unprotect",
		Usage: "Remove branch protection from every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.UnprotectBranch(ctx, usecase.UnprotectBranchInput{
				ProjectTemplate: project,
				Branch:          branch,
			})
			return usecase.Err(result)
		},
	}
}
