// Copyright © 2018 One Concern

package core

import (
	"context"

	"github.com/oneconcern/docshelf/pkg/core/status"
	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
)

// Delete removes versions or aliases from the branch.
//
// Removing a version removes all its aliases. With all, everything under the deploy prefix is removed.
func (s *Shelf) Delete(ctx context.Context, identifiers []string, all bool) error {
	if all {
		return s.commit(ctx, s.deleteMessage(nil, true), func(c *git.Commit) error {
			if s.prefix != "" {
				return c.DeleteFiles(s.prefix)
			}
			return c.DeleteAll()
		})
	}

	if len(identifiers) == 0 {
		return errors.New("specify an identifier to delete, or all").Wrap(status.ErrInvalidArgs)
	}

	registry, err := s.ListVersions(ctx)
	if err != nil {
		return err
	}
	removed, err := registry.DifferenceUpdate(identifiers)
	if err != nil {
		return err
	}

	var dirs []string
	for _, r := range removed {
		dirs = append(dirs, r.Key.Identifier())
		if r.Info != nil {
			dirs = append(dirs, r.Info.Aliases.Sorted()...)
		}
	}

	return s.commit(ctx, s.deleteMessage(identifiers, false), func(c *git.Commit) error {
		if err := c.DeleteFiles(s.identifierPaths(dirs...)...); err != nil {
			return err
		}
		return s.addVersionsFile(c, registry)
	})
}
