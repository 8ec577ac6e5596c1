// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"context"
	"fmt"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate/store"
)

// MigrationLog returns the log entry captured when version was installed.
// It returns a RecordNotFound error when the version is not installed or the
// bookkeeping tables do not exist.
func (m *Manager) MigrationLog(ctx context.Context, version string) (*store.LogEntry, error) {
	const op = "migrate.(Manager).MigrationLog"
	if version == "" {
		return nil, errors.New(errors.InvalidParameter, op, "missing version")
	}
	var entry *store.LogEntry
	err := m.conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		exists, err := m.store.BookkeepingExists(ctx, q)
		if err != nil {
			return err
		}
		if !exists {
			return errors.New(errors.RecordNotFound, op,
				fmt.Sprintf("version %q has no log entry", version))
		}
		entry, err = m.store.GetMigrationLog(ctx, q, version)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return entry, nil
}

// MigrationLogs returns the log entries of all installed versions in
// ascending version order.  A database without bookkeeping tables has no
// entries, which is not an error.
func (m *Manager) MigrationLogs(ctx context.Context) ([]*store.LogEntry, error) {
	const op = "migrate.(Manager).MigrationLogs"
	var entries []*store.LogEntry
	err := m.conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		exists, err := m.store.BookkeepingExists(ctx, q)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		entries, err = m.store.ListMigrationLogs(ctx, q)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return entries, nil
}
