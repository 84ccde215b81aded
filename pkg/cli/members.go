package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdAddMember() *cli.Command {
	var (
		batchCfg    batchConfig
		project     string
		accessLevel string
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "access-level",
			Usage:       "Access level: guest, reporter, devel or maintainer",
			Required:    true,
			Destination: &accessLevel,
		},
	)

	return &cli.Command{
		Name:  "add-member",
		Usage: "Add each roster user to their project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			level, err := model.ParseAccessLevel(accessLevel)
			if err != nil {
				return err
			}

			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.AddMember(ctx, usecase.AddMemberInput{
				ProjectTemplate: project,
				Level:           level,
			})
			return usecase.Err(result)
		},
	}
}

func cmdRemoveMember() *cli.Command {
	var (
		batchCfg batchConfig
		project  string
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
	)

	return &cli.Command{
		Name:  "remove-member",
		Usage: "Remove each roster user from their project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.RemoveMember(ctx, usecase.RemoveMemberInput{
				ProjectTemplate: project,
			})
			return usecase.Err(result)
		},
	}
}
