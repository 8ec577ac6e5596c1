// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/stratum/internal/cmd/base"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate"
	"github.com/mitchellh/cli"
	"github.com/posener/complete"
)

var (
	_ cli.Command             = (*LogCommand)(nil)
	_ cli.CommandAutocomplete = (*LogCommand)(nil)
)

type LogCommand struct {
	*base.Command

	flagVersion string
}

func (c *LogCommand) Synopsis() string {
	return "Show stored migration logs"
}

func (c *LogCommand) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: stratum database log [options]",
		"",
		"  List the log entries recorded when migration versions were installed:",
		"",
		"    $ stratum database log -url postgres://stratum@localhost/app",
		"",
		"  With -version, print the full log captured while installing that version:",
		"",
		"    $ stratum database log -url env://APP_DB_URL -version 2026.03.001",
	}) + c.Flags().Help()
}

func (c *LogCommand) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetDatabase | base.FlagSetOutputFormat)

	f := set.NewFlagSet("Command Options")

	f.StringVar(&base.StringVar{
		Name:       "version",
		Target:     &c.flagVersion,
		Completion: complete.PredictAnything,
		Usage:      "If set, print the stored log for the given version instead of listing all entries.",
	})

	return set
}

func (c *LogCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *LogCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *LogCommand) Run(args []string) int {
	f := c.Flags()

	if err := f.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return base.CommandUserError
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

	if c.flagVersion != "" {
		return c.printVersionLog(m)
	}
	return c.listLogs(m)
}

func (c *LogCommand) printVersionLog(m *migrate.Manager) int {
	entry, err := m.MigrationLog(c.Context, c.flagVersion)
	if err != nil {
		if errors.Match(errors.T(errors.RecordNotFound), err) {
			c.PrintCliError(fmt.Errorf("No migration log recorded for version %q", c.flagVersion))
			return base.CommandUserError
		}
		c.PrintCliError(fmt.Errorf("Error reading migration log: %w", err))
		return base.CommandCliError
	}

	switch base.Format(c.UI) {
	case "table":
		nonAttributeMap := map[string]any{
			"Version":    entry.Version,
			"Applied At": entry.AppliedAt.Format(time.RFC3339),
		}
		maxLength := base.MaxAttributesLength(nonAttributeMap, nil, nil)
		ret := []string{
			"",
			"Migration log:",
			base.WrapMap(2, maxLength+2, nonAttributeMap),
			"",
		}
		if entry.Log != "" {
			ret = append(ret,
				base.WrapSlice(2, strings.Split(entry.Log, "\n")),
				"",
			)
		}
		c.UI.Output(base.WrapForHelpText(ret))
	case "json":
		info := &LogInfo{
			Version:   entry.Version,
			AppliedAt: entry.AppliedAt,
			Log:       entry.Log,
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

func (c *LogCommand) listLogs(m *migrate.Manager) int {
	entries, err := m.MigrationLogs(c.Context)
	if err != nil {
		c.PrintCliError(fmt.Errorf("Error listing migration logs: %w", err))
		return base.CommandCliError
	}

	switch base.Format(c.UI) {
	case "table":
		if len(entries) == 0 {
			c.UI.Info("No migration logs recorded.")
			return base.CommandSuccess
		}
		output := []string{"Version | Applied At | Log Lines"}
		for _, e := range entries {
			lines := 0
			if e.Log != "" {
				lines = len(strings.Split(e.Log, "\n"))
			}
			output = append(output, fmt.Sprintf("%s | %s | %d",
				e.Version,
				e.AppliedAt.Format(time.RFC3339),
				lines,
			))
		}
		c.UI.Output(base.TableOutput(output, nil))
	case "json":
		infos := make([]*LogInfo, 0, len(entries))
		for _, e := range entries {
			infos = append(infos, &LogInfo{
				Version:   e.Version,
				AppliedAt: e.AppliedAt,
				Log:       e.Log,
			})
		}
		out, err := base.JsonFormatter{}.Format(infos)
		if err != nil {
			c.UI.Error(fmt.Errorf("Error formatting as JSON: %w", err).Error())
			return base.CommandCliError
		}
		c.UI.Output(string(out))
	}

	return base.CommandSuccess
}
