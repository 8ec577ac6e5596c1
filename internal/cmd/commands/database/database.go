// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package database holds the stratum database subcommands: install,
// rollback, status and log.
package database

import (
	"time"
)

// RunInfo summarizes an install or rollback run for output.
type RunInfo struct {
	CurrentVersion string   `json:"current_version"`
	Applied        []string `json:"applied,omitempty"`
	Reverted       []string `json:"reverted,omitempty"`
}

// StatusInfo summarizes a database's migration state for output.
type StatusInfo struct {
	Dialect        string   `json:"dialect"`
	CurrentVersion string   `json:"current_version"`
	Installed      []string `json:"installed"`
	Pending        []string `json:"pending,omitempty"`
}

// LogInfo is one stored migration log entry for output.
type LogInfo struct {
	Version   string    `json:"version"`
	AppliedAt time.Time `json:"applied_at"`
	Log       string    `json:"log"`
}

// newVersions returns the versions present in b but not in a, keeping b's
// order.
func newVersions(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	var ret []string
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			ret = append(ret, v)
		}
	}
	return ret
}
