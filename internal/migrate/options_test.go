// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/stratum/internal/migrate/sqlite"
	"github.com/stretchr/testify/assert"
)

func Test_getOpts(t *testing.T) {
	t.Parallel()

	t.Run("WithTarget", func(t *testing.T) {
		assert := assert.New(t)
		opts := getOpts(WithTarget("0002"))
		testOpts := getDefaultOptions()
		testOpts.withTarget = "0002"
		assert.Equal(testOpts, opts)
	})

	t.Run("WithLogger", func(t *testing.T) {
		assert := assert.New(t)
		logger := hclog.NewNullLogger()
		opts := getOpts(WithLogger(logger))
		assert.Equal(logger, opts.withLogger)
	})

	t.Run("WithStore", func(t *testing.T) {
		assert := assert.New(t)
		s := sqlite.New()
		opts := getOpts(WithStore(s))
		assert.Equal(s, opts.withStore)
	})

	t.Run("nil-option", func(t *testing.T) {
		assert := assert.New(t)
		opts := getOpts(nil, WithTarget("0001"))
		assert.Equal("0001", opts.withTarget)
	})

	t.Run("defaults", func(t *testing.T) {
		assert := assert.New(t)
		opts := getOpts()
		assert.Empty(opts.withTarget)
		assert.Nil(opts.withLogger)
		assert.Nil(opts.withStore)
	})
}
