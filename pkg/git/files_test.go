// Copyright © 2018 One Concern

package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git/status"
)

func symlink(pth, target string) FileInfo {
	return NewFileInfo(pth, []byte(target), ModeSymlink)
}

func siteRepo(t *testing.T) *Repo {
	r := testRepo(t)
	commitFiles(t, r, "gh-pages",
		file("versions.json", "[]"),
		file("1.0/index.html", "one"),
		file("1.0/page/index.html", "page"),
		symlink("latest", "1.0"),
		symlink("stable", "latest"),
		symlink("1.0/up", "../1.0"),
		symlink("loop-a", "loop-b"),
		symlink("loop-b", "loop-a"),
		symlink("escape", "../outside"),
		symlink("absolute", "/etc"),
	)
	return r
}

func TestFileInfo(t *testing.T) {
	f := NewFileInfo(`/1.0/index.html/`, []byte("x"), 0)
	assert.Equal(t, "1.0/index.html", f.Path)
	assert.Equal(t, ModeFile, f.Mode)

	moved := f.Rebase("1.0", "latest")
	assert.Equal(t, "latest/index.html", moved.Path)
	assert.Equal(t, f.Data, moved.Data)
	assert.Equal(t, "1.0/index.html", f.Path)

	assert.Equal(t, "prefix/1.0/index.html", f.Rebase("", "prefix").Path)
}

func TestFileMode(t *testing.T) {
	r := siteRepo(t)
	ctx := context.Background()

	tests := []struct {
		path     string
		expected uint32
		err      bool
	}{
		{path: "", expected: ModeDir},
		{path: "/", expected: ModeDir},
		{path: "1.0", expected: ModeDir},
		{path: "1.0/", expected: ModeDir},
		{path: "1.0/index.html", expected: ModeFile},
		{path: "latest", expected: ModeSymlink},
		{path: "nope", err: true},
		{path: "1.0/nope", err: true},
	}

	for _, tts := range tests {
		tt := tts
		t.Run(tt.path, func(t *testing.T) {
			mode, err := r.FileMode(ctx, "gh-pages", tt.path)
			if tt.err {
				require.Error(t, err)
				assert.True(t, errors.Is(err, status.ErrFileNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}

func TestReadFile(t *testing.T) {
	r := siteRepo(t)
	ctx := context.Background()

	data, err := r.ReadFile(ctx, "gh-pages", "1.0/index.html")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	target, err := r.ReadFile(ctx, "gh-pages", "latest")
	require.NoError(t, err)
	assert.Equal(t, "1.0", string(target))

	_, err = r.ReadFile(ctx, "gh-pages", "missing.html")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrGit))

	_, err = r.ReadFile(ctx, "no-such-branch", "1.0/index.html")
	require.Error(t, err)
}

func TestWalkFiles(t *testing.T) {
	r := siteRepo(t)
	ctx := context.Background()

	files, err := r.WalkFiles(ctx, "gh-pages", "1.0")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, FileInfo{Path: "1.0/index.html", Data: []byte("one"), Mode: ModeFile}, files[0])
	assert.Equal(t, FileInfo{Path: "1.0/page/index.html", Data: []byte("page"), Mode: ModeFile}, files[1])
	assert.Equal(t, FileInfo{Path: "1.0/up", Data: []byte("../1.0"), Mode: ModeSymlink}, files[2])

	none, err := r.WalkFiles(ctx, "gh-pages", "2.0")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = r.WalkFiles(ctx, "no-such-branch", "")
	require.Error(t, err)
}

func TestRealPath(t *testing.T) {
	r := siteRepo(t)
	ctx := context.Background()

	tests := []struct {
		path     string
		expected string
		err      bool
	}{
		{path: "", expected: ""},
		{path: "versions.json", expected: "versions.json"},
		{path: "1.0/page/", expected: "1.0/page"},
		{path: "latest", expected: "1.0"},
		{path: "latest/page/index.html", expected: "1.0/page/index.html"},
		{path: "stable/index.html", expected: "1.0/index.html"},
		{path: "1.0/up/up/index.html", expected: "1.0/index.html"},
		{path: "latest/missing.html", err: true},
		{path: "loop-a", err: true},
		{path: "escape", err: true},
		{path: "absolute", err: true},
	}

	for _, tts := range tests {
		tt := tts
		t.Run(tt.path, func(t *testing.T) {
			real, err := r.RealPath(ctx, "gh-pages", tt.path)
			if tt.err {
				require.Error(t, err)
				assert.True(t, errors.Is(err, status.ErrFileNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, real)
		})
	}
}
