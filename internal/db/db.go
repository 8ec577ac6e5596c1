// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package db provides database handles and the Querier interface shared by
// everything that talks to a migration target database.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/stratum/internal/errors"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver
	_ "github.com/lib/pq"             // registers the "postgres" driver
)

// Dialect identifies the SQL dialect of a migration target database.
type Dialect string

const (
	Postgres Dialect = "postgres"
	Sqlite   Dialect = "sqlite"
)

// ParseDialect returns the Dialect for the given string.
func ParseDialect(s string) (Dialect, error) {
	const op = "db.ParseDialect"
	switch Dialect(s) {
	case Postgres:
		return Postgres, nil
	case Sqlite:
		return Sqlite, nil
	default:
		return "", errors.New(errors.InvalidParameter, op, fmt.Sprintf("unknown dialect %q", s))
	}
}

// Querier is the set of query methods shared by *sql.DB, *sql.Conn and
// *sql.Tx.  Code that must run both inside and outside of a transaction
// should accept a Querier.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens a database handle for the given dialect.  The url is a driver
// specific data source name.  Open does not ping the database; the first use
// of the handle will report connectivity problems.
func Open(dialect Dialect, url string) (*sql.DB, error) {
	const op = "db.Open"
	var driverName string
	switch dialect {
	case Postgres:
		driverName = "postgres"
	case Sqlite:
		driverName = "sqlite"
	default:
		return nil, errors.New(errors.InvalidParameter, op, fmt.Sprintf("unknown dialect %q", dialect))
	}
	d, err := sql.Open(driverName, url)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return d, nil
}
