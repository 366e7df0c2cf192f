// Copyright © 2018 One Concern

package core

import (
	"context"

	"github.com/oneconcern/docshelf/pkg/git"
	"github.com/oneconcern/docshelf/pkg/versions"
)

// Retitle changes the title of a version
func (s *Shelf) Retitle(ctx context.Context, identifier, title string) error {
	all, err := s.ListVersions(ctx)
	if err != nil {
		return err
	}
	if _, err = all.Update(identifier, versions.Title(title)); err != nil {
		return err
	}

	return s.commit(ctx, s.retitleMessage(identifier, title), func(c *git.Commit) error {
		return s.addVersionsFile(c, all)
	})
}
