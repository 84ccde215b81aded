package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/classtools/classlab/pkg/usecase"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func cmdAccounts() *cli.Command {
	var (
		batchCfg    batchConfig
		showSummary bool
	)

	flags := append(batchCfg.Flags(),
		&cli.BoolFlag{
			Name:        "show-summary",
			Usage:       "Show summary numbers",
			Destination: &showSummary,
		},
	)

	return &cli.Command{
		Name:  "accounts",
		Usage: "Check which roster logins exist on the GitLab instance",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			summary, result := batch.Accounts(ctx)

			if showSummary {
				found := summary.Total - summary.NotFound
				fmt.Printf("found: %s\n", color.GreenString("%d", found))
				if summary.NotFound > 0 {
					fmt.Printf("missing: %s\n", color.RedString("%d", summary.NotFound))
				} else {
					fmt.Printf("missing: %d\n", summary.NotFound)
				}
				fmt.Printf("total: %d\n", summary.Total)
			} else if summary.NotFound > 0 {
				fmt.Fprintf(os.Stderr, "%d of %d roster logins have no account\n",
					summary.NotFound, summary.Total)
			}

			return usecase.Err(result)
		},
	}
}
