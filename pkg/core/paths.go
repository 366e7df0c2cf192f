// Copyright © 2018 One Concern

package core

import (
	"path"
	"strings"
)

const (
	versionsFile  = "versions.json"
	nojekyllFile  = ".nojekyll"
	indexFile     = "index.html"
	parentDirPath = ".."
)

func cleanPrefix(prefix string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if prefix == "" {
		return ""
	}
	return path.Clean(prefix)
}

// shelfPath locates some identifier or file under the deploy prefix
func (s *Shelf) shelfPath(elems ...string) string {
	return path.Join(append([]string{s.prefix}, elems...)...)
}

func (s *Shelf) versionsPath() string {
	return s.shelfPath(versionsFile)
}

func (s *Shelf) nojekyllPath() string {
	return s.shelfPath(nojekyllFile)
}

func (s *Shelf) indexPath() string {
	return s.shelfPath(indexFile)
}

func (s *Shelf) identifierPaths(identifiers ...string) []string {
	paths := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		paths = append(paths, s.shelfPath(identifier))
	}
	return paths
}

func splitDir(p string) []string {
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

// relPath computes the relative path from directory base to target. Both are slash-separated and relative to the same root.
func relPath(base, target string) string {
	b, t := splitDir(path.Clean(base)), splitDir(path.Clean(target))
	common := 0
	for common < len(b) && common < len(t) && b[common] == t[common] {
		common++
	}

	parts := make([]string, 0, len(b)-common+len(t)-common)
	for range b[common:] {
		parts = append(parts, parentDirPath)
	}
	parts = append(parts, t[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}
