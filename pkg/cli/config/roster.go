package config

import (
	"unicode/utf8"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/infra/roster"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Roster holds roster file configuration
type Roster struct {
	Path        string
	LoginColumn string
	Delimiter   string
}

// Flags returns CLI flags for the roster file
func (c *Roster) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "users",
			Usage:       "CSV file with one row per student",
			Required:    true,
			Destination: &c.Path,
			Sources:     cli.EnvVars("CLASSLAB_USERS"),
		},
		&cli.StringFlag{
			Name:        "login-column",
			Usage:       "Roster column holding the GitLab login",
			Value:       "login",
			Destination: &c.LoginColumn,
		},
		&cli.StringFlag{
			Name:        "delimiter",
			Usage:       "Roster field delimiter",
			Value:       ",",
			Destination: &c.Delimiter,
		},
	}
}

// Load reads and validates the roster file.
func (c *Roster) Load() (*model.Roster, error) {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return nil, goerr.New("delimiter must be a single character",
			goerr.T(types.ErrTagRoster), goerr.V("delimiter", c.Delimiter))
	}
	comma, _ := utf8.DecodeRuneInString(c.Delimiter)

	r, err := roster.Load(c.Path, comma)
	if err != nil {
		return nil, err
	}
	if !r.HasColumn(c.LoginColumn) {
		return nil, goerr.New("roster is missing the login column",
			goerr.T(types.ErrTagRoster), goerr.V("column", c.LoginColumn))
	}
	return r, nil
}
