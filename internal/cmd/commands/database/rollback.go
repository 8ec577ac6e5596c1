// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package database

import (
	"fmt"
	"strings"

	"github.com/hashicorp/stratum/internal/cmd/base"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate"
	"github.com/mitchellh/cli"
	"github.com/posener/complete"
)

var (
	_ cli.Command             = (*RollbackCommand)(nil)
	_ cli.CommandAutocomplete = (*RollbackCommand)(nil)
)

type RollbackCommand struct {
	*base.Command

	flagTarget    string
	flagLogLevel  string
	flagLogFormat string
}

func (c *RollbackCommand) Synopsis() string {
	return "Revert installed migrations"
}

func (c *RollbackCommand) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: stratum database rollback [options]",
		"",
		"  Revert installed migration versions, newest first, down to but not including the -target version:",
		"",
		"    $ stratum database rollback -url postgres://stratum@localhost/app -target 2026.02.001",
		"",
		"  Without -target every installed version is reverted. Rollback runs the rollback scripts that were persisted into the database when each version was installed, so it needs no migration files on disk.",
		"",
		"  Each version is reverted in its own transaction together with the removal of its log entry; the first failing version aborts the run and versions already reverted stay reverted.",
	}) + c.Flags().Help()
}

func (c *RollbackCommand) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetDatabase | base.FlagSetOutputFormat)

	f := set.NewFlagSet("Command Options")

	f.StringVar(&base.StringVar{
		Name:       base.FlagNameTarget,
		Target:     &c.flagTarget,
		Completion: complete.PredictAnything,
		Usage:      "If set, stop reverting at the given version, leaving it installed. If not set, every installed version is reverted.",
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

func (c *RollbackCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *RollbackCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *RollbackCommand) Run(args []string) int {
	f := c.Flags()

	if err := f.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return base.CommandUserError
	}

	if err := c.SetupLogging(c.flagLogLevel, c.flagLogFormat); err != nil {
		c.UI.Error(err.Error())
		return base.CommandCliError
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

	before, err := m.State(c.Context, nil)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error reading migration state: %w", err))
		return base.CommandCliError
	}

	var opt []migrate.Option
	if c.flagTarget != "" {
		opt = append(opt, migrate.WithTarget(c.flagTarget))
	}
	if err := m.Rollback(c.Context, opt...); err != nil {
		if errors.Match(errors.T(errors.MigrationCanceled), err) {
			c.UI.Warn("Rollback interrupted; versions already reverted stay reverted.")
			return base.CommandCliError
		}
		c.PrintCliError(fmt.Errorf("Error rolling back migrations: %w", err))
		return base.CommandCliError
	}

	after, err := m.State(c.Context, nil)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error reading migration state: %w", err))
		return base.CommandCliError
	}
	reverted := newVersions(after.Installed, before.Installed)

	switch base.Format(c.UI) {
	case "table":
		if len(reverted) == 0 {
			c.UI.Info("Nothing to roll back.")
			return base.CommandSuccess
		}
		currentVersion := after.CurrentVersion
		if currentVersion == "" {
			currentVersion = base.NotSetValue
		}
		nonAttributeMap := map[string]any{
			"Current Version":   currentVersion,
			"Reverted Versions": strings.Join(reverted, ", "),
		}
		maxLength := base.MaxAttributesLength(nonAttributeMap, nil, nil)
		ret := []string{
			"",
			"Rollback complete:",
			base.WrapMap(2, maxLength+2, nonAttributeMap),
			"",
		}
		c.UI.Output(base.WrapForHelpText(ret))
	case "json":
		info := &RunInfo{
			CurrentVersion: after.CurrentVersion,
			Reverted:       reverted,
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
