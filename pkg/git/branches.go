// Copyright © 2018 One Concern

package git

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git/status"
)

// BranchStatus describes how a local branch relates to its remote counterpart
type BranchStatus int

// Branch statuses
const (
	Even BranchStatus = iota
	Ahead
	Behind
	Diverged
)

func (s BranchStatus) String() string {
	switch s {
	case Even:
		return "even"
	case Ahead:
		return "ahead"
	case Behind:
		return "behind"
	case Diverged:
		return "diverged"
	default:
		return "unknown"
	}
}

func branchRef(branch string) string {
	return "refs/heads/" + branch
}

// LatestCommit resolves a revision to a commit hash, optionally abbreviated
func (r *Repo) LatestCommit(ctx context.Context, rev string, short bool) (string, error) {
	args := []string{"rev-list", "--max-count=1"}
	if short {
		args = append(args, "--abbrev-commit")
	}
	args = append(args, rev, "--")

	sha, err := r.runString(ctx, args...)
	if err != nil {
		return "", errors.Newf("error getting latest commit of %s: %v", rev, err).Wrap(err)
	}
	return sha, nil
}

// HasBranch tells if a local branch exists
func (r *Repo) HasBranch(ctx context.Context, branch string) (bool, error) {
	_, err := r.runString(ctx, "rev-parse", "--verify", "--quiet", branchRef(branch))
	if err != nil {
		if exitCode(err) == 1 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MergeBase returns the best common ancestor of two revisions.
//
// It returns status.ErrRevUnrelated when the revisions share no history.
func (r *Repo) MergeBase(ctx context.Context, a, b string) (string, error) {
	base, err := r.runString(ctx, "merge-base", a, b)
	if err != nil {
		if exitCode(err) == 1 {
			return "", errors.Newf("%s and %s have unrelated histories", a, b).Wrap(status.ErrRevUnrelated)
		}
		return "", errors.Newf("error getting merge-base of %s and %s: %v", a, b, err).Wrap(err)
	}
	return base, nil
}

// CompareBranches tells whether the local revision is even with, ahead of,
// behind or diverged from the remote one.
func (r *Repo) CompareBranches(ctx context.Context, local, remote string) (BranchStatus, error) {
	base, err := r.MergeBase(ctx, local, remote)
	if err != nil {
		return Diverged, err
	}
	localRev, err := r.LatestCommit(ctx, local, false)
	if err != nil {
		return Diverged, err
	}
	remoteRev, err := r.LatestCommit(ctx, remote, false)
	if err != nil {
		return Diverged, err
	}

	switch {
	case localRev == remoteRev:
		return Even, nil
	case remoteRev == base:
		return Ahead, nil
	case localRev == base:
		return Behind, nil
	default:
		return Diverged, nil
	}
}

// UpdateRef points a local branch at some revision.
//
// When oldRev is not empty, the update only succeeds if the branch currently points at oldRev.
func (r *Repo) UpdateRef(ctx context.Context, branch, rev string, oldRev ...string) error {
	args := append([]string{"update-ref", branchRef(branch), rev}, oldRev...)
	if _, err := r.runString(ctx, args...); err != nil {
		return errors.Newf("error updating %s to %s: %v", branch, rev, err).Wrap(err)
	}
	return nil
}

// TryRebaseBranch brings a local branch up to date with its remote-tracking counterpart.
//
// Nothing happens when the remote-tracking branch does not exist. The local branch
// is created or fast-forwarded as needed. With force, the local branch is reset to the
// remote one whatever their relationship. Otherwise a diverged branch yields status.ErrBranchDiverged
// and unrelated histories yield status.ErrRevUnrelated.
func (r *Repo) TryRebaseBranch(ctx context.Context, remote, branch string, force bool) error {
	remoteBranch := remote + "/" + branch
	remoteRev, err := r.runString(ctx, "rev-parse", "--verify", "--quiet", "refs/remotes/"+remoteBranch+"^{commit}")
	if err != nil {
		if exitCode(err) == 1 {
			r.logger.Debug("no remote-tracking branch", zap.String("branch", remoteBranch))
			return nil
		}
		return errors.Newf("error reading %s: %v", remoteBranch, err).Wrap(err)
	}

	exists, err := r.HasBranch(ctx, branch)
	if err != nil {
		return err
	}
	if !exists || force {
		return r.UpdateRef(ctx, branch, remoteRev)
	}

	st, err := r.CompareBranches(ctx, branchRef(branch), remoteRev)
	if err != nil {
		return err
	}
	r.logger.Debug("compared branches", zap.String("branch", branch), zap.Stringer("status", st))

	switch st {
	case Behind:
		return r.UpdateRef(ctx, branch, remoteRev)
	case Diverged:
		return errors.Newf("%s has diverged from %s", branch, remoteBranch).Wrap(status.ErrBranchDiverged)
	default:
		return nil
	}
}

// PushBranch pushes a local branch to a remote
func (r *Repo) PushBranch(ctx context.Context, remote, branch string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "--", remote, branch)

	if _, err := r.runString(ctx, args...); err != nil {
		return errors.Newf("failed to push branch %s to %s: %v", branch, remote, err).Wrap(err)
	}
	return nil
}

// sameTree tells if two revisions point at the same tree
func (r *Repo) sameTree(ctx context.Context, a, b string) (bool, error) {
	out, err := r.runString(ctx, "rev-parse", a+"^{tree}", b+"^{tree}")
	if err != nil {
		return false, err
	}
	trees := strings.Fields(out)
	return len(trees) == 2 && trees[0] == trees[1], nil
}
