// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package store defines the persistence contract for migration bookkeeping.
// A Store keeps the version log (which versions are installed and the output
// captured while installing them) and the rollback scripts persisted at
// install time so a rollback never depends on having the original collection
// on disk.
//
// Store methods take a db.Querier rather than a *sql.DB so they can run
// inside a transaction managed by the caller.
package store

import (
	"context"
	"time"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
)

// LogEntry records one installed version: when it was applied and the output
// log captured while applying it.
type LogEntry struct {
	Version   string
	AppliedAt time.Time
	Log       string
}

// Store is the interface a dialect driver implements to persist migration
// bookkeeping.
//
// Implementations must report missing rows from GetMigrationLog with a
// RecordNotFound error and must return versions from ListLoggedVersions and
// scripts from LoadRollbackScripts in ascending order.
type Store interface {
	// BookkeepingExists reports whether the bookkeeping tables are present.
	BookkeepingExists(ctx context.Context, q db.Querier) (bool, error)

	// CreateBookkeeping creates the bookkeeping tables.  It is a no-op when
	// they already exist.
	CreateBookkeeping(ctx context.Context, q db.Querier) error

	// IsVersionLogged reports whether the version has a log entry.
	IsVersionLogged(ctx context.Context, q db.Querier, version string) (bool, error)

	// InsertVersionLog writes the log entry for a newly installed version.
	InsertVersionLog(ctx context.Context, q db.Querier, e *LogEntry) error

	// RemoveVersionLog deletes a version's log entry along with its persisted
	// rollback scripts.
	RemoveVersionLog(ctx context.Context, q db.Querier, version string) error

	// ListLoggedVersions returns all logged versions in ascending order.
	ListLoggedVersions(ctx context.Context, q db.Querier) ([]string, error)

	// GetMigrationLog returns the log entry for a version.
	GetMigrationLog(ctx context.Context, q db.Querier, version string) (*LogEntry, error)

	// ListMigrationLogs returns all log entries in ascending version order.
	ListMigrationLogs(ctx context.Context, q db.Querier) ([]*LogEntry, error)

	// SaveRollbackScripts persists a version's rollback scripts.
	SaveRollbackScripts(ctx context.Context, q db.Querier, version string, scripts []bundle.Script) error

	// LoadRollbackScripts returns a version's persisted rollback scripts in
	// ascending name order.  A version with no scripts returns an empty
	// slice, not an error.
	LoadRollbackScripts(ctx context.Context, q db.Querier, version string) ([]bundle.Script, error)
}
