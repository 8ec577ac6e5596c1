// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package db_test

import (
	"context"
	"testing"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		s            string
		want         db.Dialect
		wantErrMatch *errors.Template
	}{
		{
			name: "postgres",
			s:    "postgres",
			want: db.Postgres,
		},
		{
			name: "sqlite",
			s:    "sqlite",
			want: db.Sqlite,
		},
		{
			name:         "unknown",
			s:            "oracle",
			wantErrMatch: errors.T(errors.InvalidParameter),
		},
		{
			name:         "empty",
			s:            "",
			wantErrMatch: errors.T(errors.InvalidParameter),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := db.ParseDialect(tt.s)
			if tt.wantErrMatch != nil {
				require.Error(err)
				assert.True(errors.Match(tt.wantErrMatch, err))
				return
			}
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sqlite-in-memory", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, err := db.Open(db.Sqlite, ":memory:")
		require.NoError(err)
		t.Cleanup(func() { d.Close() })

		require.NoError(d.PingContext(ctx))
		_, err = d.ExecContext(ctx, "create table greetings (msg text)")
		require.NoError(err)
		_, err = d.ExecContext(ctx, "insert into greetings (msg) values (?)", "hello")
		require.NoError(err)

		var msg string
		require.NoError(d.QueryRowContext(ctx, "select msg from greetings").Scan(&msg))
		assert.Equal("hello", msg)
	})

	t.Run("unknown-dialect", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d, err := db.Open(db.Dialect("oracle"), ":memory:")
		require.Error(err)
		assert.Nil(d)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}
