// Copyright © 2018 One Concern

package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git/status"
)

// CommitOption configures a Commit
type CommitOption func(*Commit)

// AllowEmpty lets a commit through even if it does not change the tree of the branch
func AllowEmpty(allow bool) CommitOption {
	return func(c *Commit) {
		c.allowEmpty = allow
	}
}

// Commit is a commit being built on a branch, fed to a git fast-import process.
//
// Staged changes only reach the branch once Finish returns successfully.
// Abort discards everything. A Commit must be finished or aborted exactly once.
type Commit struct {
	repo       *Repo
	ctx        context.Context
	branch     string
	parent     string
	allowEmpty bool
	finalized  bool

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	w      *bufio.Writer
	stderr bytes.Buffer
}

type identity struct {
	name  string
	email string
}

// committer reads the committer identity, with GIT_COMMITTER_NAME and GIT_COMMITTER_EMAIL taking precedence over git config.
func (r *Repo) committer(ctx context.Context) (identity, error) {
	var (
		id  identity
		err error
	)
	if id.name = os.Getenv("GIT_COMMITTER_NAME"); id.name == "" {
		if id.name, err = r.Config(ctx, "user.name"); err != nil {
			return id, err
		}
	}
	if id.email = os.Getenv("GIT_COMMITTER_EMAIL"); id.email == "" {
		if id.email, err = r.Config(ctx, "user.email"); err != nil {
			return id, err
		}
	}

	if id.email == "" {
		return id, errors.New("no committer email: set user.email in git config").Wrap(status.ErrIdentity)
	}
	for _, part := range []string{id.name, id.email} {
		if strings.ContainsAny(part, "<>\n") {
			return id, errors.Newf("invalid committer identity %q", part).Wrap(status.ErrIdentity)
		}
	}
	return id, nil
}

func (id identity) String() string {
	if id.name == "" {
		return "<" + id.email + ">"
	}
	return id.name + " <" + id.email + ">"
}

func makeWhen(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Unix(), t.Format("-0700"))
}

// NewCommit starts a commit on a branch. The branch is created if it does not exist yet.
func (r *Repo) NewCommit(ctx context.Context, branch, message string, opts ...CommitOption) (*Commit, error) {
	id, err := r.committer(ctx)
	if err != nil {
		return nil, err
	}

	c := &Commit{
		repo:   r,
		ctx:    ctx,
		branch: branch,
	}
	for _, apply := range opts {
		apply(c)
	}

	exists, err := r.HasBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if exists {
		if c.parent, err = r.LatestCommit(ctx, branchRef(branch), false); err != nil {
			return nil, err
		}
	}

	c.cmd = r.command(ctx, "fast-import", "--date-format=raw", "--quiet")
	c.cmd.Stderr = &c.stderr
	if c.stdin, err = c.cmd.StdinPipe(); err != nil {
		return nil, errors.Newf("cannot open pipe to git fast-import: %v", err).Wrap(status.ErrGit)
	}
	if err = c.cmd.Start(); err != nil {
		return nil, errors.Newf("cannot start git fast-import: %v", err).Wrap(status.ErrGit)
	}
	c.w = bufio.NewWriter(c.stdin)

	r.logger.Debug("starting commit", zap.String("branch", branch), zap.String("parent", c.parent))

	fmt.Fprintf(c.w, "commit %s\n", branchRef(branch))
	fmt.Fprintf(c.w, "committer %s %s\n", id, makeWhen(time.Now()))
	fmt.Fprintf(c.w, "data %d\n%s\n", len(message), message)
	if c.parent != "" {
		fmt.Fprintf(c.w, "from %s\n", c.parent)
	}
	return c, nil
}

func (c *Commit) check() error {
	if c.finalized {
		return errors.Newf("commit on %s already finalized", c.branch).Wrap(status.ErrCommitFinalized)
	}
	return nil
}

func (c *Commit) writeErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Newf("error writing to git fast-import: %v", err).Wrap(status.ErrGit)
}

// DeleteFiles stages the removal of files or whole directories
func (c *Commit) DeleteFiles(paths ...string) error {
	if err := c.check(); err != nil {
		return err
	}
	for _, p := range paths {
		p = cleanPath(p)
		if p == "" {
			return c.DeleteAll()
		}
		if _, err := fmt.Fprintf(c.w, "D %s\n", quotePath(p)); err != nil {
			return c.writeErr(err)
		}
	}
	return nil
}

// DeleteAll stages the removal of every file on the branch
func (c *Commit) DeleteAll() error {
	if err := c.check(); err != nil {
		return err
	}
	_, err := c.w.WriteString("deleteall\n")
	return c.writeErr(err)
}

// AddFile stages a file, replacing any file at the same path
func (c *Commit) AddFile(f FileInfo) error {
	if err := c.check(); err != nil {
		return err
	}
	mode := f.Mode
	if mode == 0 {
		mode = ModeFile
	}
	if _, err := fmt.Fprintf(c.w, "M %06o inline %s\ndata %d\n", mode, quotePath(cleanPath(f.Path)), len(f.Data)); err != nil {
		return c.writeErr(err)
	}
	if _, err := c.w.Write(f.Data); err != nil {
		return c.writeErr(err)
	}
	return c.writeErr(c.w.WriteByte('\n'))
}

// Finish completes the commit and moves the branch to it.
//
// Unless empty commits are allowed, a commit that leaves the tree unchanged is
// rolled back and status.ErrEmptyCommit is returned.
func (c *Commit) Finish() error {
	if err := c.check(); err != nil {
		return err
	}
	c.finalized = true

	_ = c.w.WriteByte('\n')
	err := c.w.Flush()
	err = multierr.Append(err, c.stdin.Close())
	if werr := c.cmd.Wait(); werr != nil {
		return errors.Newf("failed to process commit on %s: %v", c.branch,
			commandError(c.cmd.Args[1:], c.stderr.String(), werr)).Wrap(status.ErrGit)
	}
	if err != nil {
		return errors.Newf("failed to process commit on %s: %v", c.branch, err).Wrap(status.ErrGit)
	}

	if c.allowEmpty || c.parent == "" {
		return nil
	}

	tip, err := c.repo.LatestCommit(c.ctx, branchRef(c.branch), false)
	if err != nil {
		return err
	}
	same, err := c.repo.sameTree(c.ctx, c.parent, tip)
	if err != nil {
		return err
	}
	if !same {
		return nil
	}

	c.repo.logger.Debug("rolling back empty commit", zap.String("branch", c.branch), zap.String("commit", tip))
	if err := c.repo.UpdateRef(c.ctx, c.branch, c.parent, tip); err != nil {
		return err
	}
	return errors.Newf("no changes to commit on %s", c.branch).Wrap(status.ErrEmptyCommit)
}

// Abort discards the commit: the branch is left untouched.
func (c *Commit) Abort() error {
	if err := c.check(); err != nil {
		return err
	}
	c.finalized = true

	// the process is killed before its input is closed, so it never sees the end of the stream
	_ = c.cmd.Process.Kill()
	_ = c.stdin.Close()
	_ = c.cmd.Wait()
	c.repo.logger.Debug("aborted commit", zap.String("branch", c.branch))
	return nil
}

// WithCommit builds a commit on a branch with fn.
//
// The commit is finished when fn succeeds, and aborted when fn fails or panics.
func (r *Repo) WithCommit(ctx context.Context, branch, message string, fn func(*Commit) error, opts ...CommitOption) (err error) {
	c, err := r.NewCommit(ctx, branch, message, opts...)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = c.Abort()
			panic(p)
		}
		if err != nil && !c.finalized {
			err = multierr.Append(err, c.Abort())
		}
	}()

	if err = fn(c); err != nil {
		return err
	}
	return c.Finish()
}
