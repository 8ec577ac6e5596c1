// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package bundle defines the in-memory representation of a migration
// collection: an ordered set of versions, each carrying the scripts that
// install it and the scripts that roll it back.
package bundle

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/stratum/internal/errors"
)

// Kind identifies how a script's content should be run.
type Kind string

const (
	// KindSQL scripts are executed directly against the database.
	KindSQL Kind = "sql"

	// KindScript scripts are run by the script sandbox.
	KindScript Kind = "script"

	// KindUnknown scripts cannot be run by this release.  They are skipped
	// with a warning so newer collections remain loadable by older tooling.
	KindUnknown Kind = "unknown"
)

// KindForName returns the Kind implied by a script file name's extension.
func KindForName(name string) Kind {
	switch strings.ToLower(path.Ext(name)) {
	case ".sql":
		return KindSQL
	case ".js":
		return KindScript
	default:
		return KindUnknown
	}
}

// Script is a single migration step.  Name is the script's file name and is
// unique within its version and direction.  Scripts run in ascending Name
// order.
type Script struct {
	Name    string
	Kind    Kind
	Content string
}

// Version holds everything needed to install one version or roll it back.
type Version struct {
	ID       string
	Install  []Script
	Rollback []Script
}

// Bundle is a collection of migration versions keyed by their IDs.  IDs are
// opaque strings ordered by byte-wise lexicographic comparison.
type Bundle struct {
	versions map[string]*Version
}

// New creates an empty Bundle.
func New() *Bundle {
	return &Bundle{
		versions: make(map[string]*Version),
	}
}

// AddVersion creates an empty version.  A version with no install scripts is
// legal; installing it only records the version in the log.
func (b *Bundle) AddVersion(version string) error {
	const op = "bundle.(Bundle).AddVersion"
	_, err := b.upsert(version, op)
	return err
}

// AddInstall appends an install script to the given version, creating the
// version if needed.  Script names must be unique within a version's install
// scripts.
func (b *Bundle) AddInstall(version string, s Script) error {
	const op = "bundle.(Bundle).AddInstall"
	v, err := b.upsert(version, op)
	if err != nil {
		return err
	}
	for _, have := range v.Install {
		if have.Name == s.Name {
			return errors.New(errors.MigrationIntegrity, op,
				fmt.Sprintf("duplicate install script %q in version %q", s.Name, version))
		}
	}
	v.Install = append(v.Install, s)
	sortScripts(v.Install)
	return nil
}

// AddRollback appends a rollback script to the given version, creating the
// version if needed.  Script names must be unique within a version's rollback
// scripts.
func (b *Bundle) AddRollback(version string, s Script) error {
	const op = "bundle.(Bundle).AddRollback"
	v, err := b.upsert(version, op)
	if err != nil {
		return err
	}
	for _, have := range v.Rollback {
		if have.Name == s.Name {
			return errors.New(errors.MigrationIntegrity, op,
				fmt.Sprintf("duplicate rollback script %q in version %q", s.Name, version))
		}
	}
	v.Rollback = append(v.Rollback, s)
	sortScripts(v.Rollback)
	return nil
}

func (b *Bundle) upsert(version string, op errors.Op) (*Version, error) {
	if version == "" {
		return nil, errors.New(errors.InvalidVersion, op, "missing version")
	}
	if strings.ContainsAny(version, "/\\") {
		return nil, errors.New(errors.InvalidVersion, op,
			fmt.Sprintf("version %q contains a path separator", version))
	}
	v, ok := b.versions[version]
	if !ok {
		v = &Version{ID: version}
		b.versions[version] = v
	}
	return v, nil
}

// Version returns the named version and whether it exists.
func (b *Bundle) Version(id string) (*Version, bool) {
	v, ok := b.versions[id]
	return v, ok
}

// Versions returns all version IDs in ascending order.
func (b *Bundle) Versions() []string {
	ids := make([]string, 0, len(b.versions))
	for id := range b.versions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Latest returns the highest version ID, or the empty string for an empty
// Bundle.
func (b *Bundle) Latest() string {
	var latest string
	for id := range b.versions {
		if id > latest {
			latest = id
		}
	}
	return latest
}

func sortScripts(ss []Script) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].Name < ss[j].Name })
}
