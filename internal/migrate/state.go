// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"context"

	"github.com/hashicorp/stratum/internal/db"
	"github.com/hashicorp/stratum/internal/errors"
	"github.com/hashicorp/stratum/internal/migrate/bundle"
)

// State reports where a database stands relative to a migration collection.
type State struct {
	// CurrentVersion is the newest installed version, "" when nothing is
	// installed.
	CurrentVersion string

	// Installed holds all installed versions in ascending order.
	Installed []string

	// Pending holds the versions an unbounded install would apply, in
	// order.  It is nil when State was asked without a collection.
	Pending []string
}

// State reports the database's migration state.  b may be nil when no
// collection is at hand; Pending is left nil in that case.
func (m *Manager) State(ctx context.Context, b *bundle.Bundle) (*State, error) {
	const op = "migrate.(Manager).State"
	s := &State{}
	err := m.conn.RunWithoutTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		exists, err := m.store.BookkeepingExists(ctx, q)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		s.Installed, err = m.store.ListLoggedVersions(ctx, q)
		if err != nil {
			return err
		}
		for _, v := range s.Installed {
			if v > s.CurrentVersion {
				s.CurrentVersion = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if b != nil {
		s.Pending = installSchedule(b.Versions(), s.CurrentVersion, "")
	}
	return s, nil
}
