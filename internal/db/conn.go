// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package db

import (
	"context"
	"database/sql"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/stratum/internal/errors"
)

// Conn provides units of work over a database handle.
type Conn struct {
	db *sql.DB
}

// NewConn wraps a database handle.  The caller keeps ownership of the handle
// and is responsible for closing it.
func NewConn(d *sql.DB) *Conn {
	return &Conn{db: d}
}

// RunWithoutTransaction runs fn directly against the handle.  Use it for
// statements that must not run inside a transaction, like idempotent table
// creation.
func (c *Conn) RunWithoutTransaction(ctx context.Context, fn func(context.Context, Querier) error) error {
	const op = "db.(Conn).RunWithoutTransaction"
	if fn == nil {
		return errors.New(errors.InvalidParameter, op, "missing function")
	}
	if err := fn(ctx, c.db); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// RunInTransaction runs fn as one unit of work.  The transaction commits
// when fn returns nil and rolls back when it returns an error; a rollback
// failure is appended to fn's error.
func (c *Conn) RunInTransaction(ctx context.Context, fn func(context.Context, Querier) error) error {
	const op = "db.(Conn).RunInTransaction"
	if fn == nil {
		return errors.New(errors.InvalidParameter, op, "missing function")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, op)
	}
	if err := fn(ctx, tx); err != nil {
		err = errors.Wrap(err, op)
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			err = multierror.Append(err, errors.Wrap(rbErr, op))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
