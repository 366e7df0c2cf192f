// Copyright © 2018 One Concern

// Package localfs implements a read-only storage.Store over a file system tree.
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/storage"
	"github.com/oneconcern/docshelf/pkg/storage/status"
)

// New creates a new local file system backed store, rooted at the given directory
func New(fs afero.Fs, root string) storage.ExecutableStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		fs:   afero.NewBasePathFs(fs, root),
		root: root,
	}
}

type localFS struct {
	fs   afero.Fs
	root string
}

func (l *localFS) key(key string) string {
	return filepath.FromSlash(key)
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(l.key(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errors.Newf("checking %q: %v", key, err).Wrap(status.ErrStorageAPI)
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.Newf("%s not found in %s", key, l).Wrap(status.ErrNotExists)
	}
	f, err := l.fs.Open(l.key(key))
	if err != nil {
		return nil, errors.Newf("opening %q: %v", key, err).Wrap(status.ErrStorageAPI)
	}
	return f, nil
}

// Executable tells if any of the execute bits of the file is set
func (l *localFS) Executable(ctx context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(l.key(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, errors.Newf("%s not found in %s", key, l).Wrap(status.ErrNotExists)
		}
		return false, errors.Newf("checking %q: %v", key, err).Wrap(status.ErrStorageAPI)
	}
	return fi.Mode().Perm()&0o111 != 0, nil
}

// Keys lists all files, sorted
func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	var res []string
	e := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fileInfo, err := l.fs.Stat(path)
		if err != nil {
			return err
		}
		if fileInfo.IsDir() {
			return nil
		}
		res = append(res, filepath.ToSlash(path))
		return nil
	})
	if e != nil {
		if errors.Is(e, os.ErrNotExist) {
			return nil, errors.Newf("directory %s does not exist", l.root).Wrap(status.ErrNotExists)
		}
		return nil, errors.Newf("walking %s: %v", l.root, e).Wrap(status.ErrStorageAPI)
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	if l.root == "" {
		return localfs
	}
	return localfs + "@" + l.root
}
