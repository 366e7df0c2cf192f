// Copyright © 2018 One Concern

// Package status declares error constants returned by the git package.
//
// NOTE: such constants are located in a separate package so that callers
// may match them without importing the git plumbing itself.
package status

import "github.com/oneconcern/docshelf/pkg/errors"

var (
	// ErrGit indicates that a git command failed
	ErrGit = errors.New("git command failed")

	// ErrFileNotFound indicates that a path does not exist on the requested ref
	ErrFileNotFound = errors.New("file not found").Wrap(ErrGit)

	// ErrRevUnrelated indicates that two refs have no common ancestor
	ErrRevUnrelated = errors.New("refs have unrelated histories").Wrap(ErrGit)

	// ErrBranchDiverged indicates that a local branch and its remote counterpart have diverged
	ErrBranchDiverged = errors.New("branches have diverged").Wrap(ErrGit)

	// ErrEmptyCommit indicates that a commit would not change anything
	ErrEmptyCommit = errors.New("nothing changed").Wrap(ErrGit)

	// ErrCommitFinalized indicates an operation on a commit which has already been finished or aborted
	ErrCommitFinalized = errors.New("commit already finalized").Wrap(ErrGit)

	// ErrIdentity indicates a missing or malformed committer identity
	ErrIdentity = errors.New("invalid committer identity").Wrap(ErrGit)
)
