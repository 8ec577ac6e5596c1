// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func Test_collector(t *testing.T) {
	t.Parallel()

	t.Run("records-in-order", func(t *testing.T) {
		assert := assert.New(t)
		c := newCollector(hclog.NewNullLogger())
		c.Trace("starting")
		c.Info("created table users")
		c.Warn("skipped 03_future.lua: unknown kind \"unknown\"")

		assert.Equal(
			"[trace] starting\n[info] created table users\n[warn] skipped 03_future.lua: unknown kind \"unknown\"",
			c.Flush(),
		)
	})

	t.Run("flush-clears", func(t *testing.T) {
		assert := assert.New(t)
		c := newCollector(hclog.NewNullLogger())
		c.Info("one")
		assert.Equal("[info] one", c.Flush())
		assert.Equal("", c.Flush())
	})

	t.Run("concurrent-writers", func(t *testing.T) {
		assert := assert.New(t)
		c := newCollector(hclog.NewNullLogger())
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Info("line")
			}()
		}
		wg.Wait()
		assert.Len(c.lines, 10)
	})
}
