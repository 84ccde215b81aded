package cli

import (
	"time"

	"github.com/classtools/classlab/pkg/cli/config"
	"github.com/classtools/classlab/pkg/infra/gitlabapi"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// batchConfig bundles the configuration every subcommand shares: the
// GitLab instance, the roster and the dry-run switch.
type batchConfig struct {
	gitlab config.GitLab
	roster config.Roster
	dryRun bool
}

func (c *batchConfig) Flags() []cli.Flag {
	flags := append(c.gitlab.Flags(), c.roster.Flags()...)
	return append(flags,
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Simulate but do not make any real changes",
			Destination: &c.dryRun,
		},
	)
}

// Build resolves the instance, loads the roster and assembles the batch
// runner. Configuration problems are fatal before any row is touched.
func (c *batchConfig) Build(options ...usecase.Option) (*usecase.Batch, error) {
	instance, err := c.gitlab.Load()
	if err != nil {
		return nil, err
	}

	client, err := gitlabapi.New(gitlabapi.Config{
		URL:       instance.URL,
		Token:     instance.Token,
		SSLVerify: instance.SSLVerify,
		Timeout:   instance.Timeout,
		RetryMax:  instance.RetryMax,
	})
	if err != nil {
		return nil, err
	}

	roster, err := c.roster.Load()
	if err != nil {
		return nil, err
	}

	options = append(options,
		usecase.WithDryRun(c.dryRun),
		usecase.WithGitToken(instance.Token),
	)
	return usecase.New(client, roster, c.roster.LoginColumn, options...), nil
}

// deadlineConfig holds the flags of commands that resolve a commit
// against a submission deadline.
type deadlineConfig struct {
	Branch    string
	Deadline  string
	Blacklist string
}

func (c *deadlineConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch to inspect",
			Value:       "main",
			Destination: &c.Branch,
		},
		&cli.StringFlag{
			Name:        "deadline",
			Usage:       "Submission deadline, e.g. 2026-05-01T23:59:59Z (defaults to now)",
			Value:       "now",
			Destination: &c.Deadline,
		},
		&cli.StringFlag{
			Name:        "blacklist",
			Usage:       "Commit authors to ignore (regular expression)",
			Destination: &c.Blacklist,
		},
	}
}

// Resolve parses the deadline and compiles the author blacklist.
func (c *deadlineConfig) Resolve() (time.Time, usecase.CommitFilter, error) {
	deadline, err := usecase.ParseDeadline(c.Deadline, time.Now())
	if err != nil {
		return time.Time{}, nil, err
	}

	var filter usecase.CommitFilter = usecase.AcceptAll
	if c.Blacklist != "" {
		filter, err = usecase.ExcludeAuthors(c.Blacklist)
		if err != nil {
			return time.Time{}, nil, err
		}
	}
	return deadline, filter, nil
}
