// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/core"
	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
	gitstatus "github.com/oneconcern/docshelf/pkg/git/status"
)

func newShelf(s *settings) *core.Shelf {
	return core.NewShelf(git.New(git.Logger(logger)),
		core.Branch(s.branch),
		core.Prefix(s.prefix),
		core.Message(docshelfFlags.root.message),
		core.AllowEmpty(docshelfFlags.root.allowEmpty),
		core.WithAliasType(s.aliasType),
		core.RedirectTemplate(s.template),
		core.DirectoryURLs(s.directoryURL),
		core.AppVersion(NewVersionInfo().Version),
		core.Logger(logger),
	)
}

// prepareShelf resolves settings and checks the remote branch.
//
// With strict, a local branch which diverged from the remote one is fatal,
// otherwise it is only reported.
func prepareShelf(ctx context.Context, needDocs, strict bool) (*core.Shelf, *settings) {
	s, err := resolveSettings(needDocs)
	if err != nil {
		wrapFatalln("invalid settings", err)
		return nil, nil
	}
	shelf := newShelf(s)
	checkRemote(ctx, shelf, s.remote, strict)
	return shelf, s
}

func checkRemote(ctx context.Context, shelf *core.Shelf, remote string, strict bool) {
	if docshelfFlags.root.ignoreRemoteStatus {
		return
	}
	err := shelf.Sync(ctx, remote, docshelfFlags.root.rebase)
	if err == nil {
		return
	}
	if errors.Is(err, gitstatus.ErrBranchDiverged) || errors.Is(err, gitstatus.ErrRevUnrelated) {
		msg := err.Error() + "; pass --ignore-remote-status to ignore this or --rebase to rebase onto remote"
		if strict {
			wrapFatalln(msg, nil)
			return
		}
		logger.Warn(msg)
		return
	}
	wrapFatalln("cannot check remote status", err)
}

// committed reports the outcome of a mutating operation and pushes when asked to
func committed(ctx context.Context, shelf *core.Shelf, s *settings, msg string, err error) {
	switch {
	case errors.Is(err, gitstatus.ErrEmptyCommit):
		logger.Warn(err.Error(), zap.String("branch", shelf.Branch()))
		return
	case err != nil:
		wrapFatalln(msg, err)
		return
	}
	if !docshelfFlags.root.push {
		return
	}
	if err = shelf.Push(ctx, s.remote); err != nil {
		wrapFatalln("cannot push", err)
	}
}
