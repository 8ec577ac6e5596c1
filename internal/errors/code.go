// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

// Code specifies a code for the error.
type Code uint32

// Info will look up the Code's Info
func (c Code) Info() Info {
	if info, ok := errorCodeInfo[c]; ok {
		return info
	}
	return errorCodeInfo[Unknown]
}

// String will return the Code's Info.Message
func (c Code) String() string {
	return c.Info().Message
}

const (
	Unknown Code = 0 // Unknown will be equal to a zero value for Codes

	// General function errors are reserved Codes 100-999
	InvalidParameter Code = 100 // InvalidParameter represents an invalid parameter for an operation
	InvalidVersion   Code = 101 // InvalidVersion represents an invalid migration version identifier
	Internal         Code = 500 // Internal represents the class of errors internal to the system

	// DB errors are reserved Codes from 1000-1999
	CheckConstraint      Code = 1000 // CheckConstraint represents a check constraint error
	NotNull              Code = 1001 // NotNull represents a value must not be null error
	NotUnique            Code = 1002 // NotUnique represents a value must be unique error
	NotSpecificIntegrity Code = 1003 // NotSpecificIntegrity represents an integrity error that has no specific domain error code
	MissingTable         Code = 1004 // MissingTable represents an undefined table error
	RecordNotFound       Code = 1100 // RecordNotFound represents that a record/row was not found matching the criteria
	MultipleRecords      Code = 1101 // MultipleRecords represents that multiple records/rows were found matching the criteria

	// Migration errors are reserved Codes from 2000-2999
	MigrationIntegrity Code = 2000 // MigrationIntegrity represents an error with the version log or rollback bookkeeping
	ScriptFailure      Code = 2001 // ScriptFailure represents a migration script that failed to run to completion
	MigrationCanceled  Code = 2002 // MigrationCanceled represents a migration run interrupted by its context
)
