// Copyright © 2018 One Concern

package core

import (
	"context"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/core/status"
	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
	"github.com/oneconcern/docshelf/pkg/versions"
)

// AliasType tells how an alias is materialized on the branch
type AliasType string

// Alias types
const (
	// AliasSymlink writes the alias as a symbolic link to the version directory
	AliasSymlink AliasType = "symlink"
	// AliasCopy writes a full copy of the version directory
	AliasCopy AliasType = "copy"
	// AliasRedirect writes one HTML page per page of the version, redirecting to it
	AliasRedirect AliasType = "redirect"
)

// ParseAliasType reads an alias type. An empty string yields the default symlink type.
func ParseAliasType(s string) (AliasType, error) {
	switch t := AliasType(strings.ToLower(s)); t {
	case "":
		return AliasSymlink, nil
	case AliasSymlink, AliasCopy, AliasRedirect:
		return t, nil
	default:
		return "", errors.Newf("invalid alias type %q: expected one of symlink, copy, redirect", s).Wrap(status.ErrInvalidArgs)
	}
}

func (t AliasType) needsFiles() bool {
	return t == AliasCopy || t == AliasRedirect
}

func isHTML(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// addAliases stages the content of aliases of a version. Files are those of the version directory.
func (s *Shelf) addAliases(c *git.Commit, version string, aliases []string, files []git.FileInfo) error {
	versionDir := s.shelfPath(version)
	for _, alias := range aliases {
		aliasDir := s.shelfPath(alias)
		s.logger.Debug("adding alias", zap.String("alias", alias), zap.String("version", version), zap.String("type", string(s.aliasType)))

		switch s.aliasType {
		case AliasCopy:
			for _, f := range files {
				if err := c.AddFile(f.Rebase(versionDir, aliasDir)); err != nil {
					return err
				}
			}

		case AliasRedirect:
			for _, f := range files {
				if !isHTML(f.Path) {
					continue
				}
				page, err := s.redirectPage(versionDir, aliasDir, f)
				if err != nil {
					return err
				}
				if err = c.AddFile(page); err != nil {
					return err
				}
			}

		default:
			// both directories live side by side under the prefix
			if err := c.AddFile(git.NewFileInfo(aliasDir, []byte(version), git.ModeSymlink)); err != nil {
				return err
			}
		}
	}
	return nil
}

// redirectPage builds the page of an alias redirecting to the matching page of its version
func (s *Shelf) redirectPage(versionDir, aliasDir string, f git.FileInfo) (git.FileInfo, error) {
	moved := f.Rebase(versionDir, aliasDir)
	pageDir := path.Dir(moved.Path)
	target := f.Path

	var href string
	if s.useDirectoryURLs && path.Base(target) == indexFile {
		href = relPath(pageDir, path.Dir(target)) + "/"
	} else {
		href = relPath(pageDir, target)
	}

	data, err := s.template.Render(href)
	if err != nil {
		return git.FileInfo{}, err
	}
	return git.NewFileInfo(moved.Path, data, git.ModeFile), nil
}

// Alias adds aliases to an existing version, copying from the content already deployed on the branch.
func (s *Shelf) Alias(ctx context.Context, identifier string, aliases []string, updateAliases bool) error {
	all, err := s.ListVersions(ctx)
	if err != nil {
		return err
	}
	key, err := all.FindStrict(identifier)
	if err != nil {
		return err
	}

	added, err := all.Update(identifier, versions.Aliases(aliases...), versions.UpdateAliases(updateAliases))
	if err != nil {
		return err
	}
	newAliases := added.Sorted()

	var files []git.FileInfo
	if s.aliasType.needsFiles() && len(newAliases) > 0 {
		if files, err = s.repo.WalkFiles(ctx, s.branch, s.shelfPath(key.Version)); err != nil {
			return err
		}
	}

	return s.commit(ctx, s.aliasMessage(key.Version, newAliases), func(c *git.Commit) error {
		if len(newAliases) > 0 {
			if err := c.DeleteFiles(s.identifierPaths(newAliases...)...); err != nil {
				return err
			}
		}
		if err := s.addAliases(c, key.Version, newAliases, files); err != nil {
			return err
		}
		return s.addVersionsFile(c, all)
	})
}
