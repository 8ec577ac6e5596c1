// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/hashicorp/stratum/internal/errors"
)

const (
	installDir  = "install"
	rollbackDir = "rollback"
)

// Load reads a migration collection from fsys.  Every top level directory is
// a version; a version's install/ and rollback/ subdirectories hold its
// scripts.  A script's Kind comes from its file extension, so a collection
// can carry kinds this release does not know how to run; they load as
// KindUnknown.  Load stops at the first malformed entry and honors ctx
// between file reads.
func Load(ctx context.Context, fsys fs.FS) (*Bundle, error) {
	const op = "bundle.Load"
	b := New()

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	for _, e := range entries {
		if !e.IsDir() {
			return nil, errors.New(errors.InvalidParameter, op,
				fmt.Sprintf("%q is not a version directory", e.Name()))
		}
		version := e.Name()
		if err := b.AddVersion(version); err != nil {
			return nil, errors.Wrap(err, op)
		}

		subs, err := fs.ReadDir(fsys, version)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		for _, sub := range subs {
			if !sub.IsDir() {
				return nil, errors.New(errors.InvalidParameter, op,
					fmt.Sprintf("%q: only %s/ and %s/ directories are allowed in a version directory",
						path.Join(version, sub.Name()), installDir, rollbackDir))
			}
			switch sub.Name() {
			case installDir, rollbackDir:
			default:
				return nil, errors.New(errors.InvalidParameter, op,
					fmt.Sprintf("%q: unexpected directory, want %s/ or %s/",
						path.Join(version, sub.Name()), installDir, rollbackDir))
			}

			dir := path.Join(version, sub.Name())
			files, err := fs.ReadDir(fsys, dir)
			if err != nil {
				return nil, errors.Wrap(err, op)
			}
			for _, f := range files {
				select {
				case <-ctx.Done():
					return nil, errors.Wrap(ctx.Err(), op, errors.WithCode(errors.MigrationCanceled))
				default:
				}
				if f.IsDir() {
					return nil, errors.New(errors.InvalidParameter, op,
						fmt.Sprintf("%q: nested directories are not allowed", path.Join(dir, f.Name())))
				}
				content, err := fs.ReadFile(fsys, path.Join(dir, f.Name()))
				if err != nil {
					return nil, errors.Wrap(err, op)
				}
				s := Script{
					Name:    f.Name(),
					Kind:    KindForName(f.Name()),
					Content: string(content),
				}
				switch sub.Name() {
				case installDir:
					err = b.AddInstall(version, s)
				case rollbackDir:
					err = b.AddRollback(version, s)
				}
				if err != nil {
					return nil, errors.Wrap(err, op)
				}
			}
		}
	}
	return b, nil
}

// LoadDir reads a migration collection from a directory on the local
// filesystem.
func LoadDir(ctx context.Context, dir string) (*Bundle, error) {
	const op = "bundle.LoadDir"
	if dir == "" {
		return nil, errors.New(errors.InvalidParameter, op, "missing directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.InvalidParameter, op, fmt.Sprintf("%q is not a directory", dir))
	}
	b, err := Load(ctx, os.DirFS(dir))
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return b, nil
}
