package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	Format string
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("CLASSLAB_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console or json)",
			Value:       "console",
			Destination: &c.Format,
			Sources:     cli.EnvVars("CLASSLAB_LOG_FORMAT"),
		},
	}
}

// Configure builds the logger. Logs go to stderr so that command output
// (CSV, JSON) can be piped from stdout. Private tokens are masked.
func (c *Logger) Configure() (*slog.Logger, error) {
	return c.build(os.Stderr)
}

func (c *Logger) build(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level",
			goerr.T(types.ErrTagConfig), goerr.V("level", c.Level))
	}

	redact := masq.New(masq.WithType[types.Secret]())

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "console", "":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
		)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	default:
		return nil, goerr.New("invalid log format",
			goerr.T(types.ErrTagConfig), goerr.V("format", c.Format))
	}

	return slog.New(handler), nil
}
