// Copyright © 2018 One Concern

// Package git wraps the git command line to read from and write to branches
// without ever checking them out.
//
// Commits are built with git fast-import: a Commit stages deletions and
// additions and is either finished or aborted as a whole.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git/status"
)

// Repo runs git commands against a repository.
//
// A Repo holds no state besides its settings: every call runs git afresh.
type Repo struct {
	dir    string
	logger *zap.Logger
}

// Option configures a Repo
type Option func(*Repo)

// Dir sets the working directory of git commands. It defaults to the current directory.
func Dir(dir string) Option {
	return func(r *Repo) {
		r.dir = dir
	}
}

// Logger sets a logger for git commands
func Logger(l *zap.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a Repo
func New(opts ...Option) *Repo {
	r := &Repo{
		logger: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// CommandError reports a failed git command
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

// Unwrap makes any CommandError match status.ErrGit
func (e *CommandError) Unwrap() error {
	return status.ErrGit
}

func (r *Repo) command(ctx context.Context, args ...string) *exec.Cmd {
	r.logger.Debug("running git", zap.Strings("args", args))
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	return cmd
}

func (r *Repo) run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), commandError(args, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

func (r *Repo) runString(ctx context.Context, args ...string) (string, error) {
	out, err := r.run(ctx, nil, args...)
	return strings.TrimSpace(string(out)), err
}

func commandError(args []string, stderr string, err error) *CommandError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &CommandError{Args: args, Stderr: stderr, ExitCode: code, err: err}
}

func exitCode(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}

// Config reads a git configuration value. A missing key yields an empty value.
func (r *Repo) Config(ctx context.Context, key string) (string, error) {
	value, err := r.runString(ctx, "config", key)
	if err != nil {
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", errors.Newf("error getting config %s: %v", key, err).Wrap(err)
	}
	return value, nil
}
