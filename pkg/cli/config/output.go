package config

import (
	"io"
	"os"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Output selects where and how per-row command results are written.
type Output struct {
	Path   string
	Header string
	Format string
}

// Flags returns CLI flags for output selection. Commands pass their own
// header and row-template defaults.
func (c *Output) Flags(defaultHeader, defaultFormat string) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Output file (defaults to stdout)",
			Destination: &c.Path,
		},
	}
	if defaultFormat != "" {
		flags = append(flags,
			&cli.StringFlag{
				Name:        "first-line",
				Usage:       "Header line written before the rows",
				Value:       defaultHeader,
				Destination: &c.Header,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Template for one output row",
				Value:       defaultFormat,
				Destination: &c.Format,
			},
		)
	}
	return flags
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Writer opens the output destination. Closing the stdout destination is
// a no-op.
func (c *Output) Writer() (io.WriteCloser, error) {
	if c.Path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create output file",
			goerr.T(types.ErrTagConfig), goerr.V("path", c.Path))
	}
	return f, nil
}
