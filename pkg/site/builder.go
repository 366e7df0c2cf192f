// Copyright © 2018 One Concern

package site

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/site/status"
)

// VersionEnvVar tells the site generator which version is being built
const VersionEnvVar = "DOCSHELF_DOCS_VERSION"

// DefaultBuildCommand runs mkdocs
var DefaultBuildCommand = []string{"mkdocs", "build"}

// Builder runs an external static site generator
type Builder struct {
	command []string
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.Logger
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// Command sets the command line of the site generator. The config file is appended as "--config-file <path>".
func Command(argv ...string) BuilderOption {
	return func(b *Builder) {
		if len(argv) > 0 {
			b.command = argv
		}
	}
}

// Output redirects the output of the site generator
func Output(stdout, stderr io.Writer) BuilderOption {
	return func(b *Builder) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// BuilderLogger sets a logger for the builder
func BuilderLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a site builder
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		command: DefaultBuildCommand,
		stdout:  os.Stderr,
		stderr:  os.Stderr,
		logger:  zap.NewNop(),
	}
	for _, apply := range opts {
		apply(b)
	}
	return b
}

// Build runs the site generator for some docs version
func (b *Builder) Build(ctx context.Context, configFile, version string) error {
	args := append([]string{}, b.command[1:]...)
	if configFile != "" {
		args = append(args, "--config-file", configFile)
	}
	b.logger.Info("building site",
		zap.String("command", b.command[0]),
		zap.Strings("args", args),
		zap.String("version", version),
	)

	cmd := exec.CommandContext(ctx, b.command[0], args...)
	cmd.Env = append(os.Environ(), VersionEnvVar+"="+version)
	cmd.Stdout = b.stdout
	cmd.Stderr = b.stderr
	if err := cmd.Run(); err != nil {
		return errors.Newf("%s failed: %v", strings.Join(b.command, " "), err).Wrap(status.ErrBuild)
	}
	return nil
}
