// Copyright © 2018 One Concern

package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git/status"
)

// Git tree entry modes
const (
	ModeFile       uint32 = 0o100644
	ModeExecutable uint32 = 0o100755
	ModeSymlink    uint32 = 0o120000
	ModeDir        uint32 = 0o040000
	ModeSubmodule  uint32 = 0o160000
)

const maxSymlinkHops = 40

// FileInfo is a file to be written to, or read from, a branch.
//
// Path uses forward slashes and is relative to the root of the branch.
// For a symlink, Data holds the link target.
type FileInfo struct {
	Path string
	Data []byte
	Mode uint32
}

// NewFileInfo builds a FileInfo, defaulting to a regular file mode
func NewFileInfo(pth string, data []byte, mode uint32) FileInfo {
	if mode == 0 {
		mode = ModeFile
	}
	return FileInfo{Path: cleanPath(pth), Data: data, Mode: mode}
}

// Rebase returns a copy of the file, moved from the directory "from" to the directory "to".
func (f FileInfo) Rebase(from, to string) FileInfo {
	rel := strings.TrimPrefix(f.Path, cleanPath(from))
	rel = strings.TrimPrefix(rel, "/")
	return FileInfo{Path: path.Join(cleanPath(to), rel), Data: f.Data, Mode: f.Mode}
}

func cleanPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

type treeEntry struct {
	mode uint32
	kind string
	sha  string
	path string
}

func parseTreeEntry(line string) (treeEntry, error) {
	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		return treeEntry{}, errors.Newf("unexpected ls-tree output: %q", line).Wrap(status.ErrGit)
	}
	fields := strings.Fields(line[:tab])
	if len(fields) != 3 {
		return treeEntry{}, errors.Newf("unexpected ls-tree output: %q", line).Wrap(status.ErrGit)
	}
	mode, err := strconv.ParseUint(fields[0], 8, 32)
	if err != nil {
		return treeEntry{}, errors.Newf("unexpected file mode in ls-tree output: %q", line).Wrap(status.ErrGit)
	}
	return treeEntry{mode: uint32(mode), kind: fields[1], sha: fields[2], path: line[tab+1:]}, nil
}

func (r *Repo) lsTree(ctx context.Context, branch, pth string, recursive bool) ([]treeEntry, error) {
	args := []string{"ls-tree", "-z", "--full-tree"}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, "--", branch)
	if pth != "" {
		args = append(args, pth)
	}

	out, err := r.run(ctx, nil, args...)
	if err != nil {
		return nil, errors.Newf("error listing %s on %s: %v", pth, branch, err).Wrap(err)
	}

	var entries []treeEntry
	for _, line := range strings.Split(string(out), "\x00") {
		if line == "" {
			continue
		}
		entry, err := parseTreeEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FileMode returns the git mode of a path on a branch. The root of the branch is a directory.
func (r *Repo) FileMode(ctx context.Context, branch, pth string) (uint32, error) {
	pth = cleanPath(pth)
	if pth == "" {
		return ModeDir, nil
	}

	entries, err := r.lsTree(ctx, branch, pth, false)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.path == pth {
			return entry.mode, nil
		}
	}
	return 0, errors.Newf("%s not found on %s", pth, branch).Wrap(status.ErrFileNotFound)
}

// ReadFile returns the content of a file on a branch. For a symlink, this is the link target.
func (r *Repo) ReadFile(ctx context.Context, branch, pth string) ([]byte, error) {
	pth = cleanPath(pth)
	out, err := r.run(ctx, nil, "cat-file", "blob", branch+":"+pth)
	if err != nil {
		return nil, errors.Newf("unable to read %s on %s: %v", pth, branch, err).Wrap(status.ErrFileNotFound)
	}
	return out, nil
}

// WalkFiles returns all files found under a directory of a branch, recursively.
// Submodules are skipped. An empty directory path walks the entire branch.
func (r *Repo) WalkFiles(ctx context.Context, branch, dir string) ([]FileInfo, error) {
	entries, err := r.lsTree(ctx, branch, cleanPath(dir), true)
	if err != nil {
		return nil, err
	}

	blobs := make([]treeEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.kind == "blob" {
			blobs = append(blobs, entry)
		}
	}
	if len(blobs) == 0 {
		return nil, nil
	}

	shas := make([]string, len(blobs))
	for i, blob := range blobs {
		shas[i] = blob.sha
	}
	contents, err := r.readBlobs(ctx, shas)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, len(blobs))
	for i, blob := range blobs {
		files[i] = FileInfo{Path: blob.path, Data: contents[i], Mode: blob.mode}
	}
	return files, nil
}

// readBlobs reads many blobs with a single cat-file process
func (r *Repo) readBlobs(ctx context.Context, shas []string) ([][]byte, error) {
	out, err := r.run(ctx, strings.NewReader(strings.Join(shas, "\n")+"\n"), "cat-file", "--batch")
	if err != nil {
		return nil, errors.Newf("error reading blobs: %v", err).Wrap(err)
	}

	rd := bufio.NewReader(bytes.NewReader(out))
	contents := make([][]byte, 0, len(shas))
	for range shas {
		header, err := rd.ReadString('\n')
		if err != nil {
			return nil, errors.Newf("unexpected end of cat-file output").Wrap(status.ErrGit)
		}
		fields := strings.Fields(header)
		if len(fields) != 3 {
			return nil, errors.Newf("unexpected cat-file output: %q", header).Wrap(status.ErrGit)
		}
		size, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Newf("unexpected cat-file output: %q", header).Wrap(status.ErrGit)
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(rd, data); err != nil {
			return nil, errors.Newf("unexpected end of cat-file output").Wrap(status.ErrGit)
		}
		if _, err := rd.ReadByte(); err != nil {
			return nil, errors.Newf("unexpected end of cat-file output").Wrap(status.ErrGit)
		}
		contents = append(contents, data)
	}
	return contents, nil
}

// RealPath resolves all symlinks found along a path on a branch.
//
// Links pointing outside of the branch are rejected.
func (r *Repo) RealPath(ctx context.Context, branch, pth string) (string, error) {
	pending := splitPath(pth)
	resolved := ""
	hops := 0

	for len(pending) > 0 {
		next := path.Join(resolved, pending[0])
		pending = pending[1:]

		mode, err := r.FileMode(ctx, branch, next)
		if err != nil {
			return "", err
		}
		if mode != ModeSymlink {
			resolved = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", errors.Newf("too many levels of symbolic links resolving %s", pth).Wrap(status.ErrFileNotFound)
		}
		target, err := r.ReadFile(ctx, branch, next)
		if err != nil {
			return "", err
		}
		if path.IsAbs(string(target)) {
			return "", errors.Newf("%s links outside of %s", next, branch).Wrap(status.ErrFileNotFound)
		}
		joined := path.Join(resolved, string(target))
		if joined == ".." || strings.HasPrefix(joined, "../") {
			return "", errors.Newf("%s links outside of %s", next, branch).Wrap(status.ErrFileNotFound)
		}
		pending = append(splitPath(joined), pending...)
		resolved = ""
	}
	return resolved, nil
}

func splitPath(p string) []string {
	p = cleanPath(p)
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

// quotePath quotes a path for fast-import when it cannot be written verbatim
func quotePath(p string) string {
	if !strings.ContainsAny(p, "\n\"\\") && !strings.HasPrefix(p, "\"") {
		return p
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
