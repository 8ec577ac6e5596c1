// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

import (
	"github.com/lib/pq"
)

// IsUniqueError returns a boolean indicating whether the error is known to
// report a unique constraint violation.
func IsUniqueError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == NotUnique {
			return true
		}
	}

	var pqError *pq.Error
	if As(err, &pqError) {
		if pqError.Code.Name() == "unique_violation" {
			return true
		}
	}

	return false
}

// IsNotNullError returns a boolean indicating whether the error is known to
// report a not-null constraint violation.
func IsNotNullError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == NotNull {
			return true
		}
	}

	var pqError *pq.Error
	if As(err, &pqError) {
		if pqError.Code.Name() == "not_null_violation" {
			return true
		}
	}

	return false
}

// IsCheckConstraintError returns a boolean indicating whether the error is
// known to report a check constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == CheckConstraint {
			return true
		}
	}

	var pqError *pq.Error
	if As(err, &pqError) {
		if pqError.Code.Name() == "check_violation" {
			return true
		}
	}

	return false
}

// IsMissingTableError returns a boolean indicating whether the error is known
// to report an undefined table.
func IsMissingTableError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == MissingTable {
			return true
		}
	}

	var pqError *pq.Error
	if As(err, &pqError) {
		if pqError.Code.Name() == "undefined_table" {
			return true
		}
	}

	return false
}
