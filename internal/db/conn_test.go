// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(db.Sqlite, ":memory:")
	require.NoError(t, err)
	d.SetMaxOpenConns(1)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestConn_RunInTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commits-on-success", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		conn := db.NewConn(d)

		err := conn.RunInTransaction(ctx, func(ctx context.Context, q db.Querier) error {
			if _, err := q.ExecContext(ctx, "create table pets (name text)"); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx, "insert into pets (name) values (?)", "rex")
			return err
		})
		require.NoError(err)

		var count int
		require.NoError(d.QueryRowContext(ctx, "select count(*) from pets").Scan(&count))
		assert.Equal(1, count)
	})

	t.Run("rolls-back-on-error", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		conn := db.NewConn(d)

		_, err := d.ExecContext(ctx, "create table pets (name text)")
		require.NoError(err)

		wantErr := errors.New(errors.ScriptFailure, "test.fn", "boom")
		err = conn.RunInTransaction(ctx, func(ctx context.Context, q db.Querier) error {
			if _, err := q.ExecContext(ctx, "insert into pets (name) values (?)", "rex"); err != nil {
				return err
			}
			return wantErr
		})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.ScriptFailure), err))
		assert.True(errors.Is(err, wantErr))

		var count int
		require.NoError(d.QueryRowContext(ctx, "select count(*) from pets").Scan(&count))
		assert.Equal(0, count, "insert should have rolled back")
	})

	t.Run("missing-function", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.NewConn(testDB(t))
		err := conn.RunInTransaction(ctx, nil)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}

func TestConn_RunWithoutTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("runs-directly", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		conn := db.NewConn(d)

		err := conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
			_, err := q.ExecContext(ctx, "create table pets (name text)")
			return err
		})
		require.NoError(err)

		var exists bool
		require.NoError(d.QueryRowContext(ctx,
			`select exists(select 1 from sqlite_master where type = 'table' and name = 'pets')`,
		).Scan(&exists))
		assert.True(exists)
	})

	t.Run("propagates-error", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.NewConn(testDB(t))

		wantErr := errors.New(errors.Internal, "test.fn", "boom")
		err := conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
			return wantErr
		})
		require.Error(err)
		assert.True(errors.Is(err, wantErr))
	})

	t.Run("missing-function", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.NewConn(testDB(t))
		err := conn.RunWithoutTransaction(ctx, nil)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}
