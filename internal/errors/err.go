// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

import (
	"fmt"
	"strings"
)

// Err provides the ability to specify a Msg, Op, Code and Wrapped error.
// We've chosen Err over Error for the identifier to support the easy embedding
// of Errs.  Errs can be embedded without a conflict between the embedded Err
// and Err.Error().
type Err struct {
	// Code is the error's code, which can be used to get the error's
	// errorCodeInfo, which contains the error's Kind and Message
	Code Code

	// Msg for the error
	Msg string

	// Op represents the operation raising/propagating an error and is optional
	Op Op

	// Wrapped is the error which this Err wraps and will be nil if there's no
	// error to wrap.
	Wrapped error
}

// E creates a new Err with provided code and supports the options of:
//
// * WithOp() - allows you to specify an optional Op (operation)
//
// * WithMsg() - allows you to specify an optional error msg, if the default
// msg for the error Code is not sufficient
//
// * WithWrap() - allows you to specify an error to wrap
func E(opt ...Option) error {
	opts := GetOpts(opt...)
	var code Code
	if opts.withErrCode != nil {
		code = *opts.withErrCode
	}
	return &Err{
		Code:    code,
		Op:      opts.withOp,
		Msg:     opts.withErrMsg,
		Wrapped: opts.withErrWrapped,
	}
}

// New creates a new Err with provided code, op and msg.  It supports the
// option of WithWrap() - allows you to specify an error to wrap.
func New(c Code, op Op, msg string, opt ...Option) error {
	opt = append(opt, WithOp(op), WithCode(c), WithMsg(msg))
	return E(opt...)
}

// Wrap creates a new Err from the provided err and op.  Database driver
// errors are converted (see Convert) so they surface as their domain
// equivalents.  If no WithCode() option is given, the new Err inherits the
// Code of the wrapped Err.  It supports the options of WithMsg() and
// WithCode().
func Wrap(e error, op Op, opt ...Option) error {
	var wrapped *Err
	if !As(e, &wrapped) {
		if converted := Convert(e); converted != nil {
			e = converted
			wrapped = converted
		}
	}
	opt = append(opt, WithWrap(e))
	if op != "" {
		opt = append(opt, WithOp(op))
	}
	opts := GetOpts(opt...)
	if opts.withErrCode == nil && wrapped != nil {
		opt = append(opt, WithCode(wrapped.Code))
	}
	return E(opt...)
}

// Info about the Err
func (e *Err) Info() Info {
	if e == nil {
		return errorCodeInfo[Unknown]
	}
	return e.Code.Info()
}

// Error satisfies the error interface and returns a string representation of
// the Err
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	var s strings.Builder
	if e.Op != "" {
		join(&s, ": ", string(e.Op))
	}
	if e.Msg != "" {
		join(&s, ": ", e.Msg)
	}

	var skipInfo bool
	if e.Wrapped != nil {
		var wrapped *Err
		if As(e.Wrapped, &wrapped) && wrapped.Code == e.Code {
			// no need to repeat the inherited code's info in the msg
			skipInfo = true
		}
	}

	if info, ok := errorCodeInfo[e.Code]; ok && !skipInfo {
		if e.Msg == "" {
			join(&s, ": ", info.Message) // provide a default.
			join(&s, ", ", info.Kind.String())
		}
		join(&s, ": ", fmt.Sprintf("error #%d", e.Code))
	}

	if e.Wrapped != nil {
		join(&s, ": ", e.Wrapped.Error())
	}
	return s.String()
}

func join(str *strings.Builder, delim string, s string) {
	if str.Len() == 0 {
		_, _ = str.WriteString(s)
		return
	}
	_, _ = str.WriteString(delim + s)
}

// Unwrap implements the errors.Unwrap interface and allows callers to use the
// errors.Is() and errors.As() functions effectively for any wrapped errors.
func (e *Err) Unwrap() error {
	return e.Wrapped
}
