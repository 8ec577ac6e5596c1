// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/hashicorp/stratum/internal/cmd/base"
	"github.com/hashicorp/stratum/internal/cmd/commands/database"
	"github.com/hashicorp/stratum/internal/cmd/commands/version"

	"github.com/mitchellh/cli"
)

// Commands is the mapping of all the available commands.
var Commands map[string]cli.CommandFactory

func initCommands(ui cli.Ui) {
	Commands = map[string]cli.CommandFactory{
		"database install": func() (cli.Command, error) {
			return &database.InstallCommand{
				Command: base.NewCommand(ui),
			}, nil
		},
		"database rollback": func() (cli.Command, error) {
			return &database.RollbackCommand{
				Command: base.NewCommand(ui),
			}, nil
		},
		"database status": func() (cli.Command, error) {
			return &database.StatusCommand{
				Command: base.NewCommand(ui),
			}, nil
		},
		"database log": func() (cli.Command, error) {
			return &database.LogCommand{
				Command: base.NewCommand(ui),
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{
				Command: base.NewCommand(ui),
			}, nil
		},
	}
}
