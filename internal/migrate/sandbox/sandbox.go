// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package sandbox runs script-coded migrations.  Every script is evaluated
// in a fresh goja runtime with no host globals, no module system and no
// ambient authority; the only way a script can touch the outside world is
// through the three capabilities handed to its entry function:
//
//	migration(context, connection, logger)
//
// context carries the script's identity, connection bridges into the version
// transaction, and logger writes to the version's captured log.
package sandbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dop251/goja"
	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
)

// entryFunc is the function a script must define to be runnable.
const entryFunc = "migration"

// Context identifies the script being run.  It is exposed to the script as
// the first capability: {version, scriptName, sourcePath}.
type Context struct {
	Version    string
	ScriptName string
	SourcePath string
}

// Logger receives log lines emitted by a script through its logger
// capability.
type Logger interface {
	Trace(msg string)
	Info(msg string)
	Warn(msg string)
}

// Run compiles and evaluates source in a fresh runtime, resolves the
// script's migration entry function and invokes it with the context,
// connection and logger capabilities.  All capabilities are synchronous, so
// by the time the call returns the runtime's job queue has drained; a
// returned promise still pending at that point can never settle and is
// reported as a failure, as is a rejected promise, a thrown exception or a
// missing entry function.
//
// Database work done through the connection capability runs on q, which is
// expected to be the version's transaction.  ctx is threaded into every
// bridged query.
func Run(ctx context.Context, meta Context, q db.Querier, log Logger, source string) error {
	const op = "sandbox.Run"
	if q == nil {
		return errors.New(errors.InvalidParameter, op, "missing querier")
	}
	if log == nil {
		return errors.New(errors.InvalidParameter, op, "missing logger")
	}

	rt := goja.New()

	prog, err := goja.Compile(meta.SourcePath, source, false)
	if err != nil {
		return errors.Wrap(err, op, errors.WithCode(errors.ScriptFailure),
			errors.WithMsg(fmt.Sprintf("%s: compile failed", meta.SourcePath)))
	}
	if _, err := rt.RunProgram(prog); err != nil {
		return errors.Wrap(err, op, errors.WithCode(errors.ScriptFailure),
			errors.WithMsg(fmt.Sprintf("%s: evaluation failed", meta.SourcePath)))
	}

	// RunString resolves lexical bindings (let/const) as well as globals.
	entry, err := rt.RunString(entryFunc)
	if err != nil {
		return errors.New(errors.ScriptFailure, op,
			fmt.Sprintf("%s: does not define a %q function", meta.SourcePath, entryFunc))
	}
	fn, ok := goja.AssertFunction(entry)
	if !ok {
		return errors.New(errors.ScriptFailure, op,
			fmt.Sprintf("%s: %q is not a function", meta.SourcePath, entryFunc))
	}

	res, err := fn(goja.Undefined(),
		contextValue(rt, meta),
		connectionValue(ctx, rt, q),
		loggerValue(rt, log),
	)
	if err != nil {
		return errors.Wrap(err, op, errors.WithCode(errors.ScriptFailure),
			errors.WithMsg(fmt.Sprintf("%s: script failed", meta.SourcePath)))
	}

	if p, ok := res.Export().(*goja.Promise); ok {
		switch p.State() {
		case goja.PromiseStateRejected:
			return errors.New(errors.ScriptFailure, op,
				fmt.Sprintf("%s: promise rejected: %s", meta.SourcePath, promiseResult(p)))
		case goja.PromiseStatePending:
			// nothing left that could resolve it
			return errors.New(errors.ScriptFailure, op,
				fmt.Sprintf("%s: script never settled", meta.SourcePath))
		}
	}
	return nil
}

func contextValue(rt *goja.Runtime, meta Context) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("version", meta.Version)
	_ = obj.Set("scriptName", meta.ScriptName)
	_ = obj.Set("sourcePath", meta.SourcePath)
	return obj
}

// connectionValue bridges the script into the version transaction.  Errors
// returned by the Go side are thrown into the script as exceptions.
func connectionValue(ctx context.Context, rt *goja.Runtime, q db.Querier) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("execute", func(query string, args ...any) (int64, error) {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		return n, nil
	})
	_ = obj.Set("executeScalar", func(query string, args ...any) (any, error) {
		var v any
		if err := q.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, err
		}
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return v, nil
	})
	return obj
}

func loggerValue(rt *goja.Runtime, log Logger) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("trace", func(msg string) { log.Trace(msg) })
	_ = obj.Set("info", func(msg string) { log.Info(msg) })
	_ = obj.Set("warn", func(msg string) { log.Warn(msg) })
	return obj
}

func promiseResult(p *goja.Promise) string {
	v := p.Result()
	if v == nil {
		return "undefined"
	}
	return v.String()
}
