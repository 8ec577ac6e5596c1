// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package database

import (
	"fmt"
	"strings"

	"github.com/hashicorp/stratum/internal/cmd/base"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
	"github.com/mitchellh/cli"
	"github.com/posener/complete"
)

var (
	_ cli.Command             = (*InstallCommand)(nil)
	_ cli.CommandAutocomplete = (*InstallCommand)(nil)
)

type InstallCommand struct {
	*base.Command

	flagDir       string
	flagTarget    string
	flagLogLevel  string
	flagLogFormat string
}

func (c *InstallCommand) Synopsis() string {
	return "Apply migrations to a database"
}

func (c *InstallCommand) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: stratum database install [options]",
		"",
		"  Apply every version of a migration collection that is newer than the database's current version, oldest first:",
		"",
		"    $ stratum database install -url postgres://stratum@localhost/app -dir ./migrations",
		"",
		"  Each version runs in its own transaction together with its log entry and its rollback scripts, so a version is either fully installed and recorded or not installed at all. The first failing version aborts the run; versions already committed stay committed.",
		"",
		"  The -target flag bounds the run, stopping after the given version:",
		"",
		"    $ stratum database install -url env://APP_DB_URL -dir ./migrations -target 2026.03.001",
	}) + c.Flags().Help()
}

func (c *InstallCommand) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetDatabase | base.FlagSetOutputFormat)

	f := set.NewFlagSet("Command Options")

	f.StringVar(&base.StringVar{
		Name:       base.FlagNameDir,
		Target:     &c.flagDir,
		EnvVar:     base.EnvMigrationsDir,
		Completion: complete.PredictDirs("*"),
		Usage:      "Path to the directory holding the migration collection.",
	})

	f.StringVar(&base.StringVar{
		Name:       base.FlagNameTarget,
		Target:     &c.flagTarget,
		Completion: complete.PredictAnything,
		Usage:      "If set, stop after installing the given version instead of installing the whole collection.",
	})

	f.StringVar(&base.StringVar{
		Name:       base.FlagNameLogLevel,
		Target:     &c.flagLogLevel,
		Default:    "info",
		EnvVar:     base.EnvLogLevel,
		Completion: complete.PredictSet("trace", "debug", "info", "warn", "err"),
		Usage: "Log verbosity level. Supported values (in order of more detail to less) are " +
			"\"trace\", \"debug\", \"info\", \"warn\", and \"err\".",
	})

	f.StringVar(&base.StringVar{
		Name:       base.FlagNameLogFormat,
		Target:     &c.flagLogFormat,
		EnvVar:     base.EnvLogFormat,
		Completion: complete.PredictSet("standard", "json"),
		Usage:      `Log format. Supported values are "standard" and "json".`,
	})

	return set
}

func (c *InstallCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *InstallCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *InstallCommand) Run(args []string) int {
	f := c.Flags()

	if err := f.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return base.CommandUserError
	}

	if c.flagDir == "" {
		c.UI.Error(fmt.Sprintf("Must specify a migration collection using -%s", base.FlagNameDir))
		return base.CommandUserError
	}

	if err := c.SetupLogging(c.flagLogLevel, c.flagLogFormat); err != nil {
		c.UI.Error(err.Error())
		return base.CommandCliError
	}

	b, err := bundle.LoadDir(c.Context, c.flagDir)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error loading migration collection: %w", err))
		return base.CommandUserError
	}

	d, dialect, err := c.ConnectToDatabase()
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error connecting to database: %w", err))
		return base.CommandUserError
	}
	defer d.Close()

	m, err := migrate.NewManager(c.Context, dialect, d, migrate.WithLogger(c.Logger))
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	before, err := m.State(c.Context, b)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error reading migration state: %w", err))
		return base.CommandCliError
	}

	var opt []migrate.Option
	if c.flagTarget != "" {
		opt = append(opt, migrate.WithTarget(c.flagTarget))
	}
	if err := m.Install(c.Context, b, opt...); err != nil {
		if errors.Match(errors.T(errors.MigrationCanceled), err) {
			c.UI.Warn("Install interrupted; versions already committed stay installed.")
			return base.CommandCliError
		}
		c.PrintCliError(fmt.Errorf("Error installing migrations: %w", err))
		return base.CommandCliError
	}

	after, err := m.State(c.Context, b)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error reading migration state: %w", err))
		return base.CommandCliError
	}
	applied := newVersions(before.Installed, after.Installed)

	switch base.Format(c.UI) {
	case "table":
		if len(applied) == 0 {
			c.UI.Info("Database is already up to date.")
			return base.CommandSuccess
		}
		nonAttributeMap := map[string]any{
			"Current Version":  after.CurrentVersion,
			"Applied Versions": strings.Join(applied, ", "),
		}
		maxLength := base.MaxAttributesLength(nonAttributeMap, nil, nil)
		ret := []string{
			"",
			"Migration run complete:",
			base.WrapMap(2, maxLength+2, nonAttributeMap),
			"",
		}
		c.UI.Output(base.WrapForHelpText(ret))
	case "json":
		info := &RunInfo{
			CurrentVersion: after.CurrentVersion,
			Applied:        applied,
		}
		out, err := base.JsonFormatter{}.Format(info)
		if err != nil {
			c.UI.Error(fmt.Errorf("Error formatting as JSON: %w", err).Error())
			return base.CommandCliError
		}
		c.UI.Output(string(out))
	}

	return base.CommandSuccess
}
