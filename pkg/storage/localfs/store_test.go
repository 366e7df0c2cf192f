// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/storage"
	"github.com/oneconcern/docshelf/pkg/storage/status"
)

func setupStore(t testing.TB) storage.ExecutableStore {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/site/index.html", []byte("this is the text"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/site/css/style.css", []byte("body {}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/site/bin/run.sh", []byte("#!/bin/sh"), 0o755))
	require.NoError(t, afero.WriteFile(fs, "/elsewhere.txt", []byte("outside"), 0o644))
	require.NoError(t, fs.MkdirAll("/site/empty", 0o755))

	return New(fs, "/site")
}

func TestHas(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	has, err := bs.Has(ctx, "index.html")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "css/style.css")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "css")
	require.NoError(t, err)
	require.False(t, has)

	has, err = bs.Has(ctx, "missing.html")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	rdr, err := bs.Get(ctx, "index.html")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(ctx, "missing.html")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))

	b, err = storage.ReadAll(ctx, bs, "css/style.css")
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(b))
}

func TestKeys(t *testing.T) {
	bs := setupStore(t)

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bin/run.sh", "css/style.css", "index.html"}, keys)

	_, err = New(afero.NewMemMapFs(), "/nowhere").Keys(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestExecutable(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	exec, err := storage.IsExecutable(ctx, bs, "bin/run.sh")
	require.NoError(t, err)
	assert.True(t, exec)

	exec, err = storage.IsExecutable(ctx, bs, "index.html")
	require.NoError(t, err)
	assert.False(t, exec)

	_, err = bs.Executable(ctx, "missing")
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs@/site", setupStore(t).String())
}
