// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

// GetOpts - iterate the inbound Options and return a struct
func GetOpts(opt ...Option) Options {
	opts := getDefaultOptions()
	for _, o := range opt {
		if o != nil {
			o(&opts)
		}
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*Options)

// Options - how Options are represented
type Options struct {
	withErrMsg     string
	withErrWrapped error
	withErrCode    *Code
	withOp         Op
}

func getDefaultOptions() Options {
	return Options{}
}

// WithMsg provides an option to provide a message when creating a new error
func WithMsg(msg string) Option {
	return func(o *Options) {
		o.withErrMsg = msg
	}
}

// WithWrap provides an option to provide an error to wrap when creating a
// new error
func WithWrap(e error) Option {
	return func(o *Options) {
		o.withErrWrapped = e
	}
}

// WithCode provides an option to provide a code when creating a new error
func WithCode(code Code) Option {
	return func(o *Options) {
		o.withErrCode = &code
	}
}

// WithOp provides an option to provide the operation that's raising/propagating
// the error
func WithOp(op Op) Option {
	return func(o *Options) {
		o.withOp = op
	}
}
