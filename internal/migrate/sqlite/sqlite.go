// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package sqlite implements the migration bookkeeping store for SQLite
// databases.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
	"github.com/hashicorp/stratum/internal/migrate/store"
)

// Store implements store.Store for sqlite.  It is stateless; every method
// runs against the db.Querier it is given, so callers control transaction
// boundaries.
//
// applied_at is stored as unix seconds since sqlite has no native timestamp
// type.
type Store struct{}

var _ store.Store = (*Store)(nil)

// New creates a sqlite Store.
func New() *Store {
	return &Store{}
}

// BookkeepingExists reports whether both bookkeeping tables are present.
func (s *Store) BookkeepingExists(ctx context.Context, q db.Querier) (bool, error) {
	const op = "sqlite.(Store).BookkeepingExists"
	for _, table := range []string{"stratum_version_log", "stratum_rollback_script"} {
		var exists bool
		row := q.QueryRowContext(ctx,
			`select exists(select 1 from sqlite_master where type = 'table' and name = ?)`, table)
		if err := row.Scan(&exists); err != nil {
			return false, errors.Wrap(err, op)
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

// CreateBookkeeping creates the bookkeeping tables if they do not exist.
func (s *Store) CreateBookkeeping(ctx context.Context, q db.Querier) error {
	const op = "sqlite.(Store).CreateBookkeeping"
	stmts := []string{
		`create table if not exists stratum_version_log (
  version text primary key,
  applied_at integer not null,
  log text not null
)`,
		`create table if not exists stratum_rollback_script (
  version text not null
    references stratum_version_log (version),
  name text not null,
  kind text not null,
  content text not null,
  primary key (version, name)
)`,
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, op)
		}
	}
	return nil
}

// IsVersionLogged reports whether the version has a log entry.
func (s *Store) IsVersionLogged(ctx context.Context, q db.Querier, version string) (bool, error) {
	const op = "sqlite.(Store).IsVersionLogged"
	if version == "" {
		return false, errors.New(errors.InvalidParameter, op, "missing version")
	}
	var logged bool
	row := q.QueryRowContext(ctx,
		`select exists(select 1 from stratum_version_log where version = ?)`, version)
	if err := row.Scan(&logged); err != nil {
		return false, errors.Wrap(err, op)
	}
	return logged, nil
}

// InsertVersionLog writes the log entry for a newly installed version.
func (s *Store) InsertVersionLog(ctx context.Context, q db.Querier, e *store.LogEntry) error {
	const op = "sqlite.(Store).InsertVersionLog"
	if e == nil {
		return errors.New(errors.InvalidParameter, op, "missing log entry")
	}
	if e.Version == "" {
		return errors.New(errors.InvalidParameter, op, "missing version")
	}
	_, err := q.ExecContext(ctx,
		`insert into stratum_version_log (version, applied_at, log) values (?, ?, ?)`,
		e.Version, e.AppliedAt.Unix(), e.Log)
	if err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// RemoveVersionLog deletes a version's log entry and its persisted rollback
// scripts.
func (s *Store) RemoveVersionLog(ctx context.Context, q db.Querier, version string) error {
	const op = "sqlite.(Store).RemoveVersionLog"
	if version == "" {
		return errors.New(errors.InvalidParameter, op, "missing version")
	}
	if _, err := q.ExecContext(ctx,
		`delete from stratum_rollback_script where version = ?`, version); err != nil {
		return errors.Wrap(err, op)
	}
	res, err := q.ExecContext(ctx,
		`delete from stratum_version_log where version = ?`, version)
	if err != nil {
		return errors.Wrap(err, op)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if rows == 0 {
		return errors.New(errors.RecordNotFound, op,
			fmt.Sprintf("version %q has no log entry", version))
	}
	return nil
}

// ListLoggedVersions returns all logged versions in ascending order.
func (s *Store) ListLoggedVersions(ctx context.Context, q db.Querier) ([]string, error) {
	const op = "sqlite.(Store).ListLoggedVersions"
	rows, err := q.QueryContext(ctx,
		`select version from stratum_version_log order by version asc`)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, op)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return versions, nil
}

// GetMigrationLog returns the log entry for a version.
func (s *Store) GetMigrationLog(ctx context.Context, q db.Querier, version string) (*store.LogEntry, error) {
	const op = "sqlite.(Store).GetMigrationLog"
	if version == "" {
		return nil, errors.New(errors.InvalidParameter, op, "missing version")
	}
	row := q.QueryRowContext(ctx,
		`select version, applied_at, log from stratum_version_log where version = ?`, version)
	var e store.LogEntry
	var appliedAt int64
	if err := row.Scan(&e.Version, &appliedAt, &e.Log); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.RecordNotFound, op,
				fmt.Sprintf("version %q has no log entry", version))
		}
		return nil, errors.Wrap(err, op)
	}
	e.AppliedAt = time.Unix(appliedAt, 0).UTC()
	return &e, nil
}

// ListMigrationLogs returns all log entries in ascending version order.
func (s *Store) ListMigrationLogs(ctx context.Context, q db.Querier) ([]*store.LogEntry, error) {
	const op = "sqlite.(Store).ListMigrationLogs"
	rows, err := q.QueryContext(ctx,
		`select version, applied_at, log from stratum_version_log order by version asc`)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	defer rows.Close()

	var entries []*store.LogEntry
	for rows.Next() {
		var e store.LogEntry
		var appliedAt int64
		if err := rows.Scan(&e.Version, &appliedAt, &e.Log); err != nil {
			return nil, errors.Wrap(err, op)
		}
		e.AppliedAt = time.Unix(appliedAt, 0).UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return entries, nil
}

// SaveRollbackScripts persists a version's rollback scripts.
func (s *Store) SaveRollbackScripts(ctx context.Context, q db.Querier, version string, scripts []bundle.Script) error {
	const op = "sqlite.(Store).SaveRollbackScripts"
	if version == "" {
		return errors.New(errors.InvalidParameter, op, "missing version")
	}
	for _, script := range scripts {
		_, err := q.ExecContext(ctx,
			`insert into stratum_rollback_script (version, name, kind, content) values (?, ?, ?, ?)`,
			version, script.Name, string(script.Kind), script.Content)
		if err != nil {
			return errors.Wrap(err, op)
		}
	}
	return nil
}

// LoadRollbackScripts returns a version's persisted rollback scripts in
// ascending name order.
func (s *Store) LoadRollbackScripts(ctx context.Context, q db.Querier, version string) ([]bundle.Script, error) {
	const op = "sqlite.(Store).LoadRollbackScripts"
	if version == "" {
		return nil, errors.New(errors.InvalidParameter, op, "missing version")
	}
	rows, err := q.QueryContext(ctx,
		`select name, kind, content from stratum_rollback_script where version = ? order by name asc`,
		version)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	defer rows.Close()

	scripts := make([]bundle.Script, 0)
	for rows.Next() {
		var script bundle.Script
		var kind string
		if err := rows.Scan(&script.Name, &kind, &script.Content); err != nil {
			return nil, errors.Wrap(err, op)
		}
		script.Kind = bundle.Kind(kind)
		scripts = append(scripts, script)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return scripts, nil
}
