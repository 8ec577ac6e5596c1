// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// collector accumulates the log lines emitted while migrating one version so
// they can be persisted in the version's log entry.  Lines are also echoed
// to the manager's logger as they arrive.  It satisfies sandbox.Logger.
type collector struct {
	mu    sync.Mutex
	log   hclog.Logger
	lines []string
}

func newCollector(log hclog.Logger) *collector {
	return &collector{log: log}
}

func (c *collector) Trace(msg string) {
	c.record("trace", msg)
	c.log.Trace(msg)
}

func (c *collector) Info(msg string) {
	c.record("info", msg)
	c.log.Info(msg)
}

func (c *collector) Warn(msg string) {
	c.record("warn", msg)
	c.log.Warn(msg)
}

func (c *collector) record(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf("[%s] %s", level, msg))
}

// Flush returns the accumulated lines joined by newlines and clears the
// collector.
func (c *collector) Flush() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := strings.Join(c.lines, "\n")
	c.lines = nil
	return out
}
