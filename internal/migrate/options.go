// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/stratum/internal/migrate/store"
)

// getOpts - iterate the inbound Options and return a struct
func getOpts(opt ...Option) Options {
	opts := getDefaultOptions()
	for _, o := range opt {
		if o == nil {
			continue
		}
		o(&opts)
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*Options)

// Options - how Options are represented
type Options struct {
	withTarget string
	withLogger hclog.Logger
	withStore  store.Store
}

func getDefaultOptions() Options {
	return Options{}
}

// WithTarget provides an option to bound an install or a rollback at a
// specific version.  An install stops after the target is installed; a
// rollback stops once the target is the newest installed version.  The zero
// value means no bound.
func WithTarget(version string) Option {
	return func(o *Options) {
		o.withTarget = version
	}
}

// WithLogger provides an option to use a specific logger for progress and
// warnings.
func WithLogger(l hclog.Logger) Option {
	return func(o *Options) {
		o.withLogger = l
	}
}

// WithStore provides an option to use a specific bookkeeping store instead
// of the dialect's default.
func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.withStore = s
	}
}
