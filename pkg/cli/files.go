package cli

import (
	"context"

	"github.com/classtools/classlab/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdGetFile() *cli.Command {
	var (
		batchCfg    batchConfig
		deadlineCfg deadlineConfig
		project     string
		remoteFile  string
		localFile   string
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
			Name:        "remote-file",
			Usage:       "Remote file path, formatted from roster columns",
			Required:    true,
			Destination: &remoteFile,
		},
		&cli.StringFlag{
			Name:        "local-file",
			Usage:       "Local file path, formatted from roster columns",
			Required:    true,
			Destination: &localFile,
		},
	)

	return &cli.Command{
		Name:  "get-file",
		Usage: "Download one file per roster row at the deadline commit",
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

			result := batch.GetFile(ctx, usecase.GetFileInput{
				ProjectTemplate:    project,
				RemoteFileTemplate: remoteFile,
				LocalFileTemplate:  localFile,
				Branch:             deadlineCfg.Branch,
				Deadline:           deadline,
				Filter:             filter,
			})
			return usecase.Err(result)
		},
	}
}

func cmdPutFile() *cli.Command {
	var (
		batchCfg    batchConfig
		project     string
		fromFile    string
		toFile      string
		branch      string
		message     string
		forceCommit bool
		onlyOnce    bool
	)

	flags := append(batchCfg.Flags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.StringFlag{
			Name:        "from",
			Usage:       "Local file path, formatted from roster columns",
			Required:    true,
			Destination: &fromFile,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "Remote file path, formatted from roster columns",
			Required:    true,
			Destination: &toFile,
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch to commit to",
			Value:       "main",
			Destination: &branch,
		},
		&cli.StringFlag{
			Name:        "message",
			Usage:       "Commit message, formatted from roster columns (extra key target_filename)",
			Value:       "Updating {target_filename}",
			Destination: &message,
		},
		&cli.BoolFlag{
			Name:        "force-commit",
			Usage:       "Do not check current file content, always upload",
			Destination: &forceCommit,
		},
		&cli.BoolFlag{
			Name:        "once",
			Usage:       "Upload the file only if it is not present yet",
			Destination: &onlyOnce,
		},
	)

	return &cli.Command{
		Name:  "put-file",
		Usage: "Upload a local file to every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if forceCommit && onlyOnce {
				return goerr.New("--force-commit and --once together do not make sense")
			}

			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			result := batch.PutFile(ctx, usecase.PutFileInput{
				ProjectTemplate: project,
				FromTemplate:    fromFile,
				ToTemplate:      toFile,
				Branch:          branch,
				MessageTemplate: message,
				ForceCommit:     forceCommit,
				OnlyOnce:        onlyOnce,
			})
			return usecase.Err(result)
		},
	}
}
