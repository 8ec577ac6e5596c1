// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_installSchedule(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		available []string
		current   string
		target    string
		want      []string
	}{
		{
			name:      "fresh-database",
			available: []string{"0002", "0001", "0003"},
			current:   "",
			target:    "",
			want:      []string{"0001", "0002", "0003"},
		},
		{
			name:      "skips-installed",
			available: []string{"0001", "0002", "0003"},
			current:   "0002",
			target:    "",
			want:      []string{"0003"},
		},
		{
			name:      "honors-target",
			available: []string{"20210101", "20210202", "20210303"},
			current:   "",
			target:    "20210202",
			want:      []string{"20210101", "20210202"},
		},
		{
			name:      "current-and-target",
			available: []string{"0001", "0002", "0003", "0004"},
			current:   "0001",
			target:    "0003",
			want:      []string{"0002", "0003"},
		},
		{
			name:      "target-equals-current",
			available: []string{"0001", "0002"},
			current:   "0002",
			target:    "0002",
			want:      []string{},
		},
		{
			name:      "target-not-in-set",
			available: []string{"0001", "0003"},
			current:   "",
			target:    "0002",
			want:      []string{"0001"},
		},
		{
			name:      "up-to-date",
			available: []string{"0001", "0002"},
			current:   "0002",
			target:    "",
			want:      []string{},
		},
		{
			name:      "empty-input",
			available: nil,
			current:   "0001",
			target:    "",
			want:      []string{},
		},
		{
			name:      "lexicographic-not-numeric",
			available: []string{"9", "10"},
			current:   "",
			target:    "",
			want:      []string{"10", "9"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, installSchedule(tt.available, tt.current, tt.target))
		})
	}
}

func Test_rollbackSchedule(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		installed []string
		current   string
		target    string
		want      []string
	}{
		{
			name:      "everything-newest-first",
			installed: []string{"0001", "0002", "0003"},
			current:   "0003",
			target:    "",
			want:      []string{"0003", "0002", "0001"},
		},
		{
			name:      "target-survives",
			installed: []string{"20210101", "20210202", "20210303"},
			current:   "20210303",
			target:    "20210101",
			want:      []string{"20210303", "20210202"},
		},
		{
			name:      "target-equals-current",
			installed: []string{"0001", "0002"},
			current:   "0002",
			target:    "0002",
			want:      []string{},
		},
		{
			name:      "target-not-in-set",
			installed: []string{"0001", "0003"},
			current:   "0003",
			target:    "0002",
			want:      []string{"0003"},
		},
		{
			name:      "drops-above-current",
			installed: []string{"0001", "0002", "0003"},
			current:   "0002",
			target:    "",
			want:      []string{"0002", "0001"},
		},
		{
			name:      "empty-input",
			installed: nil,
			current:   "",
			target:    "",
			want:      []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, rollbackSchedule(tt.installed, tt.current, tt.target))
		})
	}
}
