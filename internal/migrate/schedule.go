// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import "sort"

// installSchedule returns the versions to install, oldest first.  Versions
// at or below current are already installed and dropped; versions above
// target are out of scope and dropped.  An empty current means nothing is
// installed yet and an empty target means install everything.
func installSchedule(available []string, current, target string) []string {
	schedule := make([]string, 0, len(available))
	for _, v := range available {
		if current != "" && v <= current {
			continue
		}
		if target != "" && v > target {
			continue
		}
		schedule = append(schedule, v)
	}
	sort.Strings(schedule)
	return schedule
}

// rollbackSchedule returns the versions to roll back, newest first.
// Versions above current are not installed and dropped; versions at or below
// target stay installed and are dropped, so the target itself survives.  An
// empty target means roll back everything.
func rollbackSchedule(installed []string, current, target string) []string {
	schedule := make([]string, 0, len(installed))
	for _, v := range installed {
		if current != "" && v > current {
			continue
		}
		if target != "" && v <= target {
			continue
		}
		schedule = append(schedule, v)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(schedule)))
	return schedule
}
