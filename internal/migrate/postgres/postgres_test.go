// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
	"github.com/hashicorp/stratum/internal/migrate/postgres"
	"github.com/hashicorp/stratum/internal/migrate/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_BookkeepingExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("both-present", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectQuery(`select to_regclass\(\$1\) is not null`).
			WithArgs("stratum_version_log").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`select to_regclass\(\$1\) is not null`).
			WithArgs("stratum_rollback_script").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		got, err := postgres.New().BookkeepingExists(ctx, d)
		require.NoError(err)
		assert.True(got)
		assert.NoError(mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectQuery(`select to_regclass\(\$1\) is not null`).
			WithArgs("stratum_version_log").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		got, err := postgres.New().BookkeepingExists(ctx, d)
		require.NoError(err)
		assert.False(got)
		assert.NoError(mock.ExpectationsWereMet())
	})
}

func TestStore_CreateBookkeeping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	d, mock, err := sqlmock.New()
	require.NoError(err)
	defer d.Close()

	mock.ExpectExec(`create table if not exists "stratum_version_log"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`create table if not exists "stratum_rollback_script"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(postgres.New().CreateBookkeeping(ctx, d))
	assert.NoError(mock.ExpectationsWereMet())
}

func TestStore_InsertVersionLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	d, mock, err := sqlmock.New()
	require.NoError(err)
	defer d.Close()

	appliedAt := time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)
	mock.ExpectExec(`insert into stratum_version_log \(version, applied_at, log\) values \(\$1, \$2, \$3\)`).
		WithArgs("0001", appliedAt, "ran 2 scripts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = postgres.New().InsertVersionLog(ctx, d, &store.LogEntry{
		Version:   "0001",
		AppliedAt: appliedAt,
		Log:       "ran 2 scripts",
	})
	require.NoError(err)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestStore_GetMigrationLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		appliedAt := time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)
		mock.ExpectQuery(`select version, applied_at, log from stratum_version_log where version = \$1`).
			WithArgs("0001").
			WillReturnRows(sqlmock.NewRows([]string{"version", "applied_at", "log"}).
				AddRow("0001", appliedAt, "ok"))

		got, err := postgres.New().GetMigrationLog(ctx, d, "0001")
		require.NoError(err)
		assert.Equal("0001", got.Version)
		assert.True(appliedAt.Equal(got.AppliedAt))
		assert.Equal("ok", got.Log)
	})

	t.Run("not-found", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectQuery(`select version, applied_at, log from stratum_version_log where version = \$1`).
			WithArgs("0099").
			WillReturnRows(sqlmock.NewRows([]string{"version", "applied_at", "log"}))

		_, err = postgres.New().GetMigrationLog(ctx, d, "0099")
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})
}

func TestStore_RemoveVersionLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes-scripts-first", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectExec(`delete from stratum_rollback_script where version = \$1`).
			WithArgs("0001").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`delete from stratum_version_log where version = \$1`).
			WithArgs("0001").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(postgres.New().RemoveVersionLog(ctx, d, "0001"))
		assert.NoError(mock.ExpectationsWereMet())
	})

	t.Run("not-found", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectExec(`delete from stratum_rollback_script where version = \$1`).
			WithArgs("0099").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`delete from stratum_version_log where version = \$1`).
			WithArgs("0099").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = postgres.New().RemoveVersionLog(ctx, d, "0099")
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})
}

func TestStore_RollbackScripts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("save", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectExec(`insert into stratum_rollback_script \(version, name, kind, content\) values \(\$1, \$2, \$3, \$4\)`).
			WithArgs("0001", "01_drop.sql", "sql", "drop table t;").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = postgres.New().SaveRollbackScripts(ctx, d, "0001", []bundle.Script{
			{Name: "01_drop.sql", Kind: bundle.KindSQL, Content: "drop table t;"},
		})
		require.NoError(err)
		assert.NoError(mock.ExpectationsWereMet())
	})

	t.Run("load", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, mock, err := sqlmock.New()
		require.NoError(err)
		defer d.Close()

		mock.ExpectQuery(`select name, kind, content from stratum_rollback_script where version = \$1 order by name asc`).
			WithArgs("0001").
			WillReturnRows(sqlmock.NewRows([]string{"name", "kind", "content"}).
				AddRow("01_drop.sql", "sql", "drop table t;").
				AddRow("02_users.js", "script", "function migration() {}"))

		got, err := postgres.New().LoadRollbackScripts(ctx, d, "0001")
		require.NoError(err)
		require.Len(got, 2)
		assert.Equal(bundle.KindSQL, got[0].Kind)
		assert.Equal("02_users.js", got[1].Name)
		assert.Equal(bundle.KindScript, got[1].Kind)
	})
}
