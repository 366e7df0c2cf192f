// Copyright © 2018 One Concern

// Package core implements the operations on a documentation shelf:
// a branch holding several deployed versions of a static site.
//
// Every mutating operation loads the version registry from the branch,
// updates it in memory, then writes the registry and the affected files
// in a single commit. When anything fails, the branch is left untouched.
package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/core/status"
	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
	gitstatus "github.com/oneconcern/docshelf/pkg/git/status"
	"github.com/oneconcern/docshelf/pkg/site"
	"github.com/oneconcern/docshelf/pkg/versions"
)

// Shelf is a set of versioned docs deployed on a branch
type Shelf struct {
	repo             *git.Repo
	branch           string
	prefix           string
	message          string
	allowEmpty       bool
	aliasType        AliasType
	template         *site.RedirectTemplate
	useDirectoryURLs bool
	appVersion       string
	logger           *zap.Logger
}

func defaultShelf(repo *git.Repo) *Shelf {
	return &Shelf{
		repo:             repo,
		branch:           DefaultBranch,
		aliasType:        AliasSymlink,
		useDirectoryURLs: true,
		logger:           zap.NewNop(),
	}
}

// NewShelf builds a shelf on top of a git repository
func NewShelf(repo *git.Repo, opts ...ShelfOption) *Shelf {
	s := defaultShelf(repo)
	for _, apply := range opts {
		apply(s)
	}
	if s.template == nil {
		s.template = site.DefaultRedirectTemplate()
	}
	return s
}

// Branch where docs are deployed
func (s *Shelf) Branch() string {
	return s.branch
}

// Prefix under which docs are deployed on the branch
func (s *Shelf) Prefix() string {
	return s.prefix
}

// ListVersions loads the registry of deployed versions.
//
// A branch without versions file yields an empty registry.
func (s *Shelf) ListVersions(ctx context.Context) (*versions.Versions, error) {
	data, err := s.repo.ReadFile(ctx, s.branch, s.versionsPath())
	if err != nil {
		if errors.Is(err, gitstatus.ErrFileNotFound) {
			s.logger.Debug("no versions file", zap.String("branch", s.branch), zap.String("path", s.versionsPath()))
			return versions.New(), nil
		}
		return nil, err
	}

	all, err := versions.Loads(data)
	if err != nil {
		return nil, errors.Newf("cannot read %s on %s: %v", s.versionsPath(), s.branch, err).Wrap(status.ErrInvalidRegistry)
	}
	return all, nil
}

// Sync brings the local branch up to date with its remote-tracking counterpart.
// With rebase, the local branch is reset to the remote one.
func (s *Shelf) Sync(ctx context.Context, remote string, rebase bool) error {
	return s.repo.TryRebaseBranch(ctx, remote, s.branch, rebase)
}

// Push the branch to a remote
func (s *Shelf) Push(ctx context.Context, remote string) error {
	s.logger.Info("pushing", zap.String("remote", remote), zap.String("branch", s.branch))
	return s.repo.PushBranch(ctx, remote, s.branch, false)
}

func (s *Shelf) commit(ctx context.Context, message string, fn func(*git.Commit) error) error {
	if s.message != "" {
		message = s.message
	}
	s.logger.Debug("committing", zap.String("branch", s.branch), zap.String("message", message))
	return s.repo.WithCommit(ctx, s.branch, message, fn, git.AllowEmpty(s.allowEmpty))
}

func (s *Shelf) addVersionsFile(c *git.Commit, all *versions.Versions) error {
	data, err := all.Dumps()
	if err != nil {
		return err
	}
	return c.AddFile(git.NewFileInfo(s.versionsPath(), data, git.ModeFile))
}
