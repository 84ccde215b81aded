package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdProtectTag() *cli.Command {
	var (
		batchCfg    batchConfig
		project     string
		tag         string
		createLevel string
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Tag name or wildcard pattern to protect",
			Required:    true,
			Destination: &tag,
		},
		&cli.StringFlag{
			Name:        "create-level",
			Usage:       "Minimum level allowed to create the tag (guest, reporter, devel, maintainer)",
			Value:       "maintainer",
			Destination: &createLevel,
		},
	)

	return &cli.Command{
		Name:  "protect-tag",
		Usage: "Set tag protection on every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			level, err := model.ParseAccessLevel(createLevel)
			if err != nil {
				return err
			}

			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.ProtectTag(ctx, usecase.ProtectTagInput{
				ProjectTemplate: project,
				Tag:             tag,
				CreateLevel:     level,
			})
			return usecase.Err(result)
		},
	}
}

func cmdUnprotectTag() *cli.Command {
	var (
		batchCfg batchConfig
		project  string
		tag      string
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Tag name or wildcard pattern to unprotect",
			Required:    true,
			Destination: &tag,
		},
	)

	return &cli.Command{
		Name:  "unprotect-tag",
		Usage: "Remove tag protection from every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.UnprotectTag(ctx, usecase.UnprotectTagInput{
				ProjectTemplate: project,
				Tag:             tag,
			})
			return usecase.Err(result)
		},
	}
}
