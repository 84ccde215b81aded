package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/classtools/classlab/pkg/cli/config"
	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdGetLastPipeline() *cli.Command {
	var (
		batchCfg    batchConfig
		outputCfg   config.Output
		project     string
		summaryOnly bool
	)

	flags := append(batchCfg.Flags(), outputCfg.Flags("", "")...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
		&cli.BoolFlag{
			Name:        "summary-only",
			Usage:       "Print only the ratio of pipeline states across projects",
			Destination: &summaryOnly,
		},
	)

	return &cli.Command{
		Name:  "get-last-pipeline",
		Usage: "Report the latest pipeline status of every project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			batch, err := batchCfg.Build()
			if err != nil {
				return err
			}

			report, result := batch.LastPipeline(ctx, usecase.LastPipelineInput{
				ProjectTemplate: project,
			})

			out, err := outputCfg.Writer()
			if err != nil {
				return err
			}
			defer out.Close()

			if summaryOnly {
				printPipelineSummary(out, report)
			} else {
				encoded, err := json.MarshalIndent(report, "", "    ")
				if err != nil {
					return goerr.Wrap(err, "failed to encode pipeline report")
				}
				fmt.Fprintln(out, string(encoded))
			}
			return usecase.Err(result)
		},
	}
}

// statusColors highlight the overall pipeline state in summary output.
var statusColors = map[string]*color.Color{
	"success": color.New(color.FgGreen),
	"failed":  color.New(color.FgRed),
	"running": color.New(color.FgYellow),
	"none":    color.New(color.FgHiBlack),
}

func printPipelineSummary(out io.Writer, report model.PipelineReport) {
	summary := report.Summary()

	states := make([]string, 0, len(summary))
	total := 0
	for state, count := range summary {
		states = append(states, state)
		total += count
	}
	// Most common state first, ties by name.
	sort.Slice(states, func(i, j int) bool {
		if summary[states[i]] != summary[states[j]] {
			return summary[states[i]] > summary[states[j]]
		}
		return states[i] < states[j]
	})

	for _, state := range states {
		count := summary[state]
		label := state
		if clr, ok := statusColors[state]; ok {
			label = clr.Sprint(state)
		}
		fmt.Fprintf(out, "%s: %d (%.0f%%)\n", label, count, 100*float64(count)/float64(total))
	}
	fmt.Fprintf(out, "total: %d\n", total)
}

func cmdGetPipelineAtCommit() *cli.Command {
	var (
		batchCfg    batchConfig
		deadlineCfg deadlineConfig
		outputCfg   config.Output
		project     string
	)

	flags := append(batchCfg.Flags(), deadlineCfg.Flags()...)
	flags = append(flags, outputCfg.Flags("login,commit,status", "{login},{commit.id},{pipeline.status}")...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project path, formatted from roster columns",
			Required:    true,
			Destination: &project,
		},
	)

	return &cli.Command{
		Name:  "get-pipeline-at-commit",
		Usage: "Report the pipeline of the deadline commit per roster row",
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

			result, err := batch.PipelineAtCommit(ctx, usecase.PipelineAtCommitInput{
				ProjectTemplate: project,
				Branch:          deadlineCfg.Branch,
				Deadline:        deadline,
				Filter:          filter,
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
