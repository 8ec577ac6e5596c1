// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package migrate applies and reverts versioned migration collections
// against a target database.  A Manager installs versions oldest first and
// rolls them back newest first, each version in its own transaction together
// with its bookkeeping.  Rollback scripts are persisted into the database at
// install time, so a rollback only needs the database itself.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
	"github.com/hashicorp/stratum/internal/migrate/postgres"
	"github.com/hashicorp/stratum/internal/migrate/sandbox"
	"github.com/hashicorp/stratum/internal/migrate/sqlite"
	"github.com/hashicorp/stratum/internal/migrate/store"
)

// Manager coordinates migrations against a single database.
type Manager struct {
	dialect db.Dialect
	conn    *db.Conn
	store   store.Store
	log     hclog.Logger
}

// NewManager creates a Manager for the given dialect and database handle.
// The caller keeps ownership of the handle.  Supported options: WithLogger,
// WithStore.
func NewManager(ctx context.Context, dialect db.Dialect, d *sql.DB, opt ...Option) (*Manager, error) {
	const op = "migrate.NewManager"
	if d == nil {
		return nil, errors.New(errors.InvalidParameter, op, "missing database handle")
	}
	opts := getOpts(opt...)

	st := opts.withStore
	if st == nil {
		switch dialect {
		case db.Postgres:
			st = postgres.New()
		case db.Sqlite:
			st = sqlite.New()
		default:
			return nil, errors.New(errors.InvalidParameter, op, fmt.Sprintf("unknown dialect %q", dialect))
		}
	}
	logger := opts.withLogger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Manager{
		dialect: dialect,
		conn:    db.NewConn(d),
		store:   st,
		log:     logger,
	}, nil
}

// Install applies every version of b that is newer than the current version,
// oldest first.  Each version runs in its own transaction that also writes
// the version's log entry and persists its rollback scripts, so a version is
// either fully installed and recorded or not installed at all.  The first
// failing version aborts the run; versions already committed stay committed.
// Supported options: WithTarget bounds the run at a version (inclusive).
func (m *Manager) Install(ctx context.Context, b *bundle.Bundle, opt ...Option) error {
	const op = "migrate.(Manager).Install"
	if b == nil {
		return errors.New(errors.InvalidParameter, op, "missing bundle")
	}
	opts := getOpts(opt...)

	runID, err := newRunID()
	if err != nil {
		return errors.Wrap(err, op)
	}
	log := m.log.With("run_id", runID)

	if err := m.ensureBookkeeping(ctx); err != nil {
		return errors.Wrap(err, op)
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return errors.Wrap(err, op)
	}

	schedule := installSchedule(b.Versions(), current, opts.withTarget)
	log.Debug("computed install schedule",
		"current", current, "target", opts.withTarget, "versions", len(schedule))
	if len(schedule) == 0 {
		log.Info("database is up to date", "current", current)
		return nil
	}

	for _, id := range schedule {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), op, errors.WithCode(errors.MigrationCanceled))
		default:
		}
		v, ok := b.Version(id)
		if !ok {
			return errors.New(errors.Internal, op, fmt.Sprintf("version %q missing from bundle", id))
		}
		if err := m.installVersion(ctx, log, v); err != nil {
			return errors.Wrap(err, op)
		}
	}
	return nil
}

func (m *Manager) installVersion(ctx context.Context, log hclog.Logger, v *bundle.Version) error {
	log.Info("installing version", "version", v.ID, "scripts", len(v.Install))
	c := newCollector(log)
	return m.conn.RunInTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		for _, s := range v.Install {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "migrate.(Manager).installVersion",
					errors.WithCode(errors.MigrationCanceled))
			default:
			}
			src := path.Join(v.ID, "install", s.Name)
			if err := m.runScript(ctx, log, c, q, v.ID, s, src); err != nil {
				return err
			}
		}
		e := &store.LogEntry{
			Version:   v.ID,
			AppliedAt: time.Now().UTC(),
			Log:       c.Flush(),
		}
		if err := m.store.InsertVersionLog(ctx, q, e); err != nil {
			return err
		}
		if len(v.Rollback) > 0 {
			if err := m.store.SaveRollbackScripts(ctx, q, v.ID, v.Rollback); err != nil {
				return err
			}
		}
		return nil
	})
}

// Rollback reverts installed versions newest first using the rollback
// scripts persisted at install time; the migration collection is not needed.
// Each version's scripts and the removal of its bookkeeping run in one
// transaction.  The first failing version aborts the run.  Supported
// options: WithTarget names the version that must remain installed;
// everything newer is reverted.  Without a target everything is reverted.
func (m *Manager) Rollback(ctx context.Context, opt ...Option) error {
	const op = "migrate.(Manager).Rollback"
	opts := getOpts(opt...)

	runID, err := newRunID()
	if err != nil {
		return errors.Wrap(err, op)
	}
	log := m.log.With("run_id", runID)

	if err := m.ensureBookkeeping(ctx); err != nil {
		return errors.Wrap(err, op)
	}
	installed, err := m.listLogged(ctx)
	if err != nil {
		return errors.Wrap(err, op)
	}
	var current string
	if len(installed) > 0 {
		current = installed[len(installed)-1]
	}

	schedule := rollbackSchedule(installed, current, opts.withTarget)
	log.Debug("computed rollback schedule",
		"current", current, "target", opts.withTarget, "versions", len(schedule))
	if len(schedule) == 0 {
		log.Info("nothing to roll back", "current", current)
		return nil
	}

	for _, id := range schedule {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), op, errors.WithCode(errors.MigrationCanceled))
		default:
		}
		if err := m.rollbackVersion(ctx, log, id); err != nil {
			return errors.Wrap(err, op)
		}
	}
	return nil
}

func (m *Manager) rollbackVersion(ctx context.Context, log hclog.Logger, version string) error {
	log.Info("rolling back version", "version", version)
	c := newCollector(log)
	return m.conn.RunInTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		logged, err := m.store.IsVersionLogged(ctx, q, version)
		if err != nil {
			return err
		}
		if !logged {
			// already removed by someone else; nothing to revert
			log.Warn("version has no log entry, skipping rollback", "version", version)
			return nil
		}
		scripts, err := m.store.LoadRollbackScripts(ctx, q, version)
		if err != nil {
			return err
		}
		for _, s := range scripts {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "migrate.(Manager).rollbackVersion",
					errors.WithCode(errors.MigrationCanceled))
			default:
			}
			src := path.Join(version, "rollback", s.Name)
			if err := m.runScript(ctx, log, c, q, version, s, src); err != nil {
				return err
			}
		}
		return m.store.RemoveVersionLog(ctx, q, version)
	})
}

// runScript dispatches one script by kind.  SQL scripts run verbatim on the
// version transaction, script-coded migrations run in the sandbox, and
// unknown kinds are skipped with a warning so newer collections do not brick
// older tooling.
func (m *Manager) runScript(ctx context.Context, log hclog.Logger, c *collector, q db.Querier, version string, s bundle.Script, sourcePath string) error {
	const op = "migrate.(Manager).runScript"
	switch s.Kind {
	case bundle.KindSQL:
		log.Debug("running sql script", "version", version, "script", s.Name)
		if _, err := q.ExecContext(ctx, s.Content); err != nil {
			return errors.Wrap(err, op,
				errors.WithMsg(fmt.Sprintf("%s failed", sourcePath)))
		}
		c.Trace(fmt.Sprintf("applied %s", s.Name))
	case bundle.KindScript:
		log.Debug("running sandbox script", "version", version, "script", s.Name)
		meta := sandbox.Context{
			Version:    version,
			ScriptName: s.Name,
			SourcePath: sourcePath,
		}
		if err := sandbox.Run(ctx, meta, q, c, s.Content); err != nil {
			return errors.Wrap(err, op)
		}
		c.Trace(fmt.Sprintf("applied %s", s.Name))
	default:
		log.Warn("skipping script of unknown kind",
			"version", version, "script", s.Name, "kind", string(s.Kind))
		c.Warn(fmt.Sprintf("skipped %s: unknown kind %q", s.Name, s.Kind))
	}
	return nil
}

// CurrentVersion returns the newest installed version, or the empty string
// when nothing is installed, including when the bookkeeping tables do not
// exist yet.
func (m *Manager) CurrentVersion(ctx context.Context) (string, error) {
	const op = "migrate.(Manager).CurrentVersion"
	var current string
	err := m.conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		exists, err := m.store.BookkeepingExists(ctx, q)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		versions, err := m.store.ListLoggedVersions(ctx, q)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if v > current {
				current = v
			}
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, op)
	}
	return current, nil
}

func (m *Manager) ensureBookkeeping(ctx context.Context) error {
	const op = "migrate.(Manager).ensureBookkeeping"
	err := m.conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		exists, err := m.store.BookkeepingExists(ctx, q)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return m.store.CreateBookkeeping(ctx, q)
	})
	if err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

func (m *Manager) listLogged(ctx context.Context) ([]string, error) {
	const op = "migrate.(Manager).listLogged"
	var versions []string
	err := m.conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		versions, err = m.store.ListLoggedVersions(ctx, q)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return versions, nil
}

func newRunID() (string, error) {
	const op = "migrate.newRunID"
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", errors.Wrap(err, op)
	}
	return id, nil
}
