// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package database

import (
	"fmt"

	"github.com/hashicorp/stratum/internal/cmd/base"
	"github.com/hashicorp/stratum/internal/migrate"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
	"github.com/mitchellh/cli"
	"github.com/posener/complete"
)

var (
	_ cli.Command             = (*StatusCommand)(nil)
	_ cli.CommandAutocomplete = (*StatusCommand)(nil)
)

type StatusCommand struct {
	*base.Command

	flagDir string
}

func (c *StatusCommand) Synopsis() string {
	return "Show the migration status of a database"
}

func (c *StatusCommand) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: stratum database status [options]",
		"",
		"  Show which migration versions a database has installed:",
		"",
		"    $ stratum database status -url postgres://stratum@localhost/app",
		"",
		"  When -dir points at a migration collection, the output also lists the versions an install would apply:",
		"",
		"    $ stratum database status -url env://APP_DB_URL -dir ./migrations",
	}) + c.Flags().Help()
}

func (c *StatusCommand) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetDatabase | base.FlagSetOutputFormat)

	f := set.NewFlagSet("Command Options")

	f.StringVar(&base.StringVar{
		Name:       base.FlagNameDir,
		Target:     &c.flagDir,
		EnvVar:     base.EnvMigrationsDir,
		Completion: complete.PredictDirs("*"),
		Usage:      "Path to the directory holding the migration collection. If set, pending versions are reported as well.",
	})

	return set
}

func (c *StatusCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *StatusCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *StatusCommand) Run(args []string) int {
	f := c.Flags()

	if err := f.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return base.CommandUserError
	}

	var b *bundle.Bundle
	if c.flagDir != "" {
		var err error
		b, err = bundle.LoadDir(c.Context, c.flagDir)
		if err != nil {
			c.PrintCliError(fmt.Errorf("Error loading migration collection: %w", err))
			return base.CommandUserError
		}
	}

	d, dialect, err := c.ConnectToDatabase()
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error connecting to database: %w", err))
		return base.CommandUserError
	}
	defer d.Close()

	m, err := migrate.NewManager(c.Context, dialect, d)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	st, err := m.State(c.Context, b)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error reading migration state: %w", err))
		return base.CommandCliError
	}

	switch base.Format(c.UI) {
	case "table":
		currentVersion := st.CurrentVersion
		if currentVersion == "" {
			currentVersion = base.NotSetValue
		}
		nonAttributeMap := map[string]any{
			"Dialect":         string(dialect),
			"Current Version": currentVersion,
		}
		maxLength := base.MaxAttributesLength(nonAttributeMap, nil, nil)
		ret := []string{
			"",
			"Migration status:",
			base.WrapMap(2, maxLength+2, nonAttributeMap),
			"",
		}
		if len(st.Installed) > 0 {
			ret = append(ret,
				"  Installed Versions:",
				base.WrapSlice(4, st.Installed),
				"",
			)
		}
		if b != nil {
			if len(st.Pending) > 0 {
				ret = append(ret,
					"  Pending Versions:",
					base.WrapSlice(4, st.Pending),
					"",
				)
			} else {
				ret = append(ret,
					"  No pending versions.",
					"",
				)
			}
		}
		c.UI.Output(base.WrapForHelpText(ret))
	case "json":
		info := &StatusInfo{
			Dialect:        string(dialect),
			CurrentVersion: st.CurrentVersion,
			Installed:      st.Installed,
			Pending:        st.Pending,
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
