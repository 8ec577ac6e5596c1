// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sandbox_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Trace(msg string) { l.lines = append(l.lines, "trace: "+msg) }
func (l *recordingLogger) Info(msg string)  { l.lines = append(l.lines, "info: "+msg) }
func (l *recordingLogger) Warn(msg string)  { l.lines = append(l.lines, "warn: "+msg) }

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(db.Sqlite, ":memory:")
	require.NoError(t, err)
	d.SetMaxOpenConns(1)
	t.Cleanup(func() { d.Close() })
	return d
}

func testMeta(name string) sandbox.Context {
	return sandbox.Context{
		Version:    "0001",
		ScriptName: name,
		SourcePath: "0001/install/" + name,
	}
}

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("execute-and-log", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		log := &recordingLogger{}

		src := `
function migration(ctx, conn, log) {
	conn.execute("create table pets (name text)");
	var n = conn.execute("insert into pets (name) values (?), (?)", "rex", "milo");
	log.info("inserted " + n);
}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_pets.js"), d, log, src))
		assert.Equal([]string{"info: inserted 2"}, log.lines)

		var count int
		require.NoError(d.QueryRowContext(ctx, "select count(*) from pets").Scan(&count))
		assert.Equal(2, count)
	})

	t.Run("execute-scalar", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		log := &recordingLogger{}

		src := `
function migration(ctx, conn, log) {
	conn.execute("create table pets (name text)");
	conn.execute("insert into pets (name) values (?)", "rex");
	log.info("count=" + conn.executeScalar("select count(*) from pets"));
	log.info("first=" + conn.executeScalar("select name from pets"));
	log.info("missing=" + conn.executeScalar("select name from pets where name = ?", "nope"));
}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_pets.js"), d, log, src))
		assert.Equal([]string{
			"info: count=1",
			"info: first=rex",
			"info: missing=null",
		}, log.lines)
	})

	t.Run("context-capability", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		log := &recordingLogger{}

		src := `
function migration(ctx, conn, log) {
	log.trace(ctx.version + " " + ctx.scriptName + " " + ctx.sourcePath);
}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_noop.js"), d, log, src))
		assert.Equal([]string{"trace: 0001 01_noop.js 0001/install/01_noop.js"}, log.lines)
	})

	t.Run("const-arrow-entry", func(t *testing.T) {
		require := require.New(t)
		d := testDB(t)

		src := `const migration = (ctx, conn, log) => { log.info("ok"); };`
		require.NoError(sandbox.Run(ctx, testMeta("01_arrow.js"), d, &recordingLogger{}, src))
	})

	t.Run("async-entry", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		log := &recordingLogger{}

		src := `
async function migration(ctx, conn, log) {
	conn.execute("create table pets (name text)");
	await conn.execute("insert into pets (name) values (?)", "rex");
	log.info("done");
}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_async.js"), d, log, src))
		assert.Equal([]string{"info: done"}, log.lines)

		var count int
		require.NoError(d.QueryRowContext(ctx, "select count(*) from pets").Scan(&count))
		assert.Equal(1, count)
	})

	t.Run("no-ambient-authority", func(t *testing.T) {
		require := require.New(t)
		d := testDB(t)

		src := `
function migration(ctx, conn, log) {
	if (typeof require !== "undefined") throw new Error("require leaked");
	if (typeof process !== "undefined") throw new Error("process leaked");
	if (typeof console !== "undefined") throw new Error("console leaked");
}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_isolated.js"), d, &recordingLogger{}, src))
	})

	t.Run("fresh-runtime-per-script", func(t *testing.T) {
		require := require.New(t)
		d := testDB(t)

		first := `
globalThis.leak = "be gone";
function migration(ctx, conn, log) {}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_first.js"), d, &recordingLogger{}, first))

		second := `
function migration(ctx, conn, log) {
	if (typeof leak !== "undefined") throw new Error("state leaked between scripts");
}
`
		require.NoError(sandbox.Run(ctx, testMeta("02_second.js"), d, &recordingLogger{}, second))
	})

	t.Run("bridge-error-catchable", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		d := testDB(t)
		log := &recordingLogger{}

		src := `
function migration(ctx, conn, log) {
	try {
		conn.execute("definitely not sql");
	} catch (e) {
		log.warn("caught");
	}
}
`
		require.NoError(sandbox.Run(ctx, testMeta("01_catch.js"), d, log, src))
		assert.Equal([]string{"warn: caught"}, log.lines)
	})
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name         string
		src          string
		wantErrMatch *errors.Template
	}{
		{
			name:         "compile-error",
			src:          `function migration( {`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "evaluation-throws",
			src:          `throw new Error("top level boom");`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "missing-entry",
			src:          `function notMigration() {}`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "entry-not-a-function",
			src:          `var migration = 42;`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "entry-throws",
			src:          `function migration() { throw new Error("boom"); }`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "uncaught-bridge-error",
			src:          `function migration(ctx, conn) { conn.execute("definitely not sql"); }`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "rejected-promise",
			src:          `function migration() { return Promise.reject(new Error("nope")); }`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "async-throw",
			src:          `async function migration() { throw new Error("async boom"); }`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
		{
			name:         "never-settles",
			src:          `function migration() { return new Promise(function() {}); }`,
			wantErrMatch: errors.T(errors.ScriptFailure),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			d := testDB(t)
			err := sandbox.Run(ctx, testMeta(tt.name+".js"), d, &recordingLogger{}, tt.src)
			require.Error(err)
			assert.True(errors.Match(tt.wantErrMatch, err), "got %v", err)
		})
	}
}

func TestRun_MissingParams(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	d := testDB(t)

	err := sandbox.Run(ctx, testMeta("x.js"), nil, &recordingLogger{}, "function migration() {}")
	require.Error(err)
	assert.True(errors.Match(errors.T(errors.InvalidParameter), err))

	err = sandbox.Run(ctx, testMeta("x.js"), d, nil, "function migration() {}")
	require.Error(err)
	assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
}
