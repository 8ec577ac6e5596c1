// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

var (
	// ErrInvalidParameter defines a value for invalid parameter errors
	ErrInvalidParameter = E(WithCode(InvalidParameter))

	// ErrNotUnique defines a value for errors raised by unique constraint
	// violations
	ErrNotUnique = E(WithCode(NotUnique))

	// ErrNotNull defines a value for errors raised by not null constraint
	// violations
	ErrNotNull = E(WithCode(NotNull))

	// ErrCheckConstraint defines a value for errors raised by check constraint
	// violations
	ErrCheckConstraint = E(WithCode(CheckConstraint))

	// ErrMissingTable defines a value for errors raised when a table is
	// undefined
	ErrMissingTable = E(WithCode(MissingTable))

	// ErrRecordNotFound defines a value for errors raised when a record is
	// not found in the db
	ErrRecordNotFound = E(WithCode(RecordNotFound))
)
