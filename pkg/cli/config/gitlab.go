package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/go-ini/ini"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Instance is the resolved configuration of one GitLab instance. It is
// immutable once loaded and handed to the API client at construction.
type Instance struct {
	Name      string
	URL       string
	Token     types.Secret
	SSLVerify bool
	Timeout   time.Duration
	RetryMax  int
}

// GitLab selects the configuration file(s) and the instance to use.
//
// The file format follows the usual section layout: a [global] section
// with a "default" instance name and optional "ssl_verify", "timeout"
// and "retry_max" keys, plus one section per instance with "url" and
// "private_token".
type GitLab struct {
	ConfigFiles []string
	Instance    string
}

// Flags returns CLI flags for instance selection
func (c *GitLab) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "config-file",
			Usage:       "GitLab configuration file (repeatable, later files override earlier ones)",
			Destination: &c.ConfigFiles,
			Sources:     cli.EnvVars("CLASSLAB_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:        "instance",
			Usage:       "Which GitLab instance to use (defaults to [global] default)",
			Destination: &c.Instance,
			Sources:     cli.EnvVars("CLASSLAB_INSTANCE"),
		},
	}
}

// defaultConfigFiles are consulted when no --config-file is given.
func defaultConfigFiles() []string {
	var files []string
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", "classlab", "config.ini"))
	}
	files = append(files, "classlab.ini")
	return files
}

// Load parses the configuration file(s) and resolves the selected
// instance. Explicitly given files must exist; default locations are
// tried loosely.
func (c *GitLab) Load() (*Instance, error) {
	files := c.ConfigFiles
	strict := true
	if len(files) == 0 {
		files = defaultConfigFiles()
		strict = false
	}

	sources := make([]any, len(files))
	for i, f := range files {
		sources[i] = f
	}

	var cfg *ini.File
	var err error
	if strict {
		cfg, err = ini.Load(sources[0], sources[1:]...)
	} else {
		cfg, err = ini.LooseLoad(sources[0], sources[1:]...)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load configuration file",
			goerr.T(types.ErrTagConfig), goerr.V("files", files))
	}

	global := cfg.Section("global")

	name := c.Instance
	if name == "" {
		name = global.Key("default").String()
	}
	if name == "" {
		return nil, goerr.New("no instance selected (use --instance or set default in [global])",
			goerr.T(types.ErrTagConfig), goerr.V("files", files))
	}

	section, err := cfg.GetSection(name)
	if err != nil {
		return nil, goerr.Wrap(err, "unknown GitLab instance",
			goerr.T(types.ErrTagConfig), goerr.V("instance", name))
	}

	url := section.Key("url").String()
	if url == "" {
		return nil, goerr.New("instance has no url",
			goerr.T(types.ErrTagConfig), goerr.V("instance", name))
	}
	token := section.Key("private_token").String()
	if token == "" {
		return nil, goerr.New("instance has no private_token",
			goerr.T(types.ErrTagConfig), goerr.V("instance", name))
	}

	return &Instance{
		Name:      name,
		URL:       url,
		Token:     types.Secret(token),
		SSLVerify: global.Key("ssl_verify").MustBool(true),
		Timeout:   time.Duration(global.Key("timeout").MustInt(10)) * time.Second,
		RetryMax:  global.Key("retry_max").MustInt(3),
	}, nil
}
