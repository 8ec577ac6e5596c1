// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

// Kind specifies the kind of error (unknown, parameter, integrity, etc).
type Kind uint32

const (
	Other Kind = iota
	Parameter
	Integrity
	Search
	Migration
	External
)

func (e Kind) String() string {
	switch e {
	case Parameter:
		return "parameter violation"
	case Integrity:
		return "integrity violation"
	case Search:
		return "search issue"
	case Migration:
		return "migration issue"
	case External:
		return "external system issue"
	default:
		return "unknown"
	}
}
