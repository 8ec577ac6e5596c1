// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package base

const (
	// FlagNameUrl is the flag used in the base command to read in the url
	// of the database to migrate.
	FlagNameUrl = "url"
	// FlagNameDialect is the flag used in the base command to read in the
	// SQL dialect of the database.
	FlagNameDialect = "dialect"
	// FlagNameDir is the flag used to read in the path of a migration
	// collection on disk.
	FlagNameDir = "dir"
	// FlagNameTarget is the flag used to bound an install or rollback run
	// at a version.
	FlagNameTarget = "target"
	// FlagNameLogLevel is the flag used to set the log verbosity level.
	FlagNameLogLevel = "log-level"
	// FlagNameLogFormat is the flag used to set the log output format.
	FlagNameLogFormat = "log-format"
)

const (
	EnvStratumCLINoColor = `STRATUM_CLI_NO_COLOR`
	EnvStratumCLIFormat  = `STRATUM_CLI_FORMAT`
	EnvDatabaseUrl       = `STRATUM_DB_URL`
	EnvDatabaseDialect   = `STRATUM_DB_DIALECT`
	EnvMigrationsDir     = `STRATUM_MIGRATIONS_DIR`
	EnvLogLevel          = `STRATUM_LOG_LEVEL`
	EnvLogFormat         = `STRATUM_LOG_FORMAT`
)
