// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

import (
	"github.com/lib/pq"
)

// Convert will convert the error to an Err (if that's not possible, it just
// returns nil) and it will attempt to add a helpful error msg as well.
func Convert(e error) *Err {
	// nothing to convert.
	if e == nil {
		return nil
	}

	var alreadyConverted *Err
	if As(e, &alreadyConverted) {
		return alreadyConverted
	}

	var pqError *pq.Error
	if As(e, &pqError) {
		if pqError.Code.Class() == "23" { // class of integrity constraint violations
			switch pqError.Code {
			case "23505": // unique_violation
				return E(WithMsg(pqError.Message), WithWrap(ErrNotUnique), WithCode(NotUnique)).(*Err)
			case "23502": // not_null_violation
				return E(WithMsg(pqError.Message), WithWrap(ErrNotNull), WithCode(NotNull)).(*Err)
			case "23514": // check_violation
				return E(WithMsg(pqError.Message), WithWrap(ErrCheckConstraint), WithCode(CheckConstraint)).(*Err)
			default:
				return E(WithMsg(pqError.Message), WithCode(NotSpecificIntegrity)).(*Err)
			}
		}
		switch pqError.Code {
		case "42P01": // undefined_table
			return E(WithMsg(pqError.Message), WithWrap(ErrMissingTable), WithCode(MissingTable)).(*Err)
		case "42703": // undefined_column
			return E(WithMsg(pqError.Message), WithCode(NotSpecificIntegrity)).(*Err)
		}
	}
	// unfortunately, we can't help.
	return nil
}
