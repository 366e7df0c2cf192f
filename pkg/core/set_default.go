// Copyright © 2018 One Concern

package core

import (
	"context"

	"github.com/oneconcern/docshelf/pkg/git"
	"github.com/oneconcern/docshelf/pkg/versions"
)

// SetDefault writes a root page redirecting to some version or alias.
//
// Unless allowUndefined is set, the identifier must be found in the registry.
func (s *Shelf) SetDefault(ctx context.Context, identifier string, allowUndefined bool) error {
	if err := versions.ValidateIdentifier(identifier); err != nil {
		return err
	}
	if !allowUndefined {
		all, err := s.ListVersions(ctx)
		if err != nil {
			return err
		}
		if _, err = all.FindStrict(identifier); err != nil {
			return err
		}
	}

	page, err := s.template.Render(identifier + "/")
	if err != nil {
		return err
	}

	return s.commit(ctx, s.defaultMessage(identifier), func(c *git.Commit) error {
		return c.AddFile(git.NewFileInfo(s.indexPath(), page, git.ModeFile))
	})
}
