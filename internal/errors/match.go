// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

// Template is useful constructing Match Err templates.  A Template can match
// any combination of an Err's: Code, Msg, Op, and Wrapped error.  Template
// fields that are empty are ignored when Match-ing.
type Template struct {
	Err       // Err embedded to support matching Errs
	Kind Kind // Kind of error
}

// T creates a new Template for matching Targets.  Invalid parameters are
// ignored.
func T(args ...any) *Template {
	t := &Template{}
	for _, a := range args {
		switch arg := a.(type) {
		case Code:
			t.Code = arg
		case string:
			t.Msg = arg
		case Op:
			t.Op = arg
		case *Err: // order is important, this match must be before "error"
			c := *arg
			t.Err = c
		case error:
			t.Wrapped = arg
		case Kind:
			t.Kind = arg
		default:
			// ignore it
		}
	}
	return t
}

// Match the template against the error.  The error must be a *Err, or match
// will return false.  Matches all non-empty fields of the template against the
// error.
func Match(t *Template, err error) bool {
	if t == nil || err == nil {
		return false
	}

	var errErr *Err
	if !As(err, &errErr) {
		return false
	}

	if t.Code != Unknown && t.Code != errErr.Code {
		return false
	}
	if t.Msg != "" && t.Msg != errErr.Msg {
		return false
	}
	if t.Op != "" && t.Op != errErr.Op {
		return false
	}
	if t.Kind != Other && errErr.Info().Kind != t.Kind {
		return false
	}
	if t.Wrapped != nil {
		if wrappedT, ok := t.Wrapped.(*Template); ok {
			return Match(wrappedT, errErr.Wrapped)
		}
		if errErr.Wrapped != nil && t.Wrapped.Error() != errErr.Wrapped.Error() {
			return false
		}
	}
	return true
}
