// Copyright © 2018 One Concern

package core

import (
	"context"

	units "github.com/docker/go-units"
	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/git"
	"github.com/oneconcern/docshelf/pkg/storage"
	"github.com/oneconcern/docshelf/pkg/versions"
)

// BuildFunc builds the site of a version and returns the built files
type BuildFunc func(ctx context.Context, version string) (storage.Store, error)

// DeployOption sets options for a deployment
type DeployOption func(*deployArgs)

type deployArgs struct {
	registry []versions.Option
	props    []PropEdit
}

// DeployTitle sets the title of the deployed version
func DeployTitle(title string) DeployOption {
	return func(d *deployArgs) {
		if title != "" {
			d.registry = append(d.registry, versions.Title(title))
		}
	}
}

// DeployAliases adds aliases to the deployed version
func DeployAliases(aliases ...string) DeployOption {
	return func(d *deployArgs) {
		d.registry = append(d.registry, versions.Aliases(aliases...))
	}
}

// DeployUpdateAliases lets aliases move from other versions to the deployed one
func DeployUpdateAliases(enabled bool) DeployOption {
	return func(d *deployArgs) {
		d.registry = append(d.registry, versions.UpdateAliases(enabled))
	}
}

// DeployProps edits the properties of the deployed version
func DeployProps(edits ...PropEdit) DeployOption {
	return func(d *deployArgs) {
		d.props = append(d.props, edits...)
	}
}

// siteFiles reads all built files, placed under destdir
func siteFiles(ctx context.Context, store storage.Store, destdir string) ([]git.FileInfo, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]git.FileInfo, 0, len(keys))
	for _, key := range keys {
		data, err := storage.ReadAll(ctx, store, key)
		if err != nil {
			return nil, err
		}
		mode := git.ModeFile
		exec, err := storage.IsExecutable(ctx, store, key)
		if err != nil {
			return nil, err
		}
		if exec {
			mode = git.ModeExecutable
		}
		files = append(files, git.NewFileInfo(destdir+"/"+key, data, mode))
	}
	return files, nil
}

// Deploy builds a version of the docs and deploys it on the branch, along with its aliases.
//
// The registry is updated first, so that conflicting aliases fail before anything gets built.
// The site is then built by build, and all files are committed at once.
func (s *Shelf) Deploy(ctx context.Context, version string, build BuildFunc, opts ...DeployOption) error {
	var args deployArgs
	for _, apply := range opts {
		apply(&args)
	}

	all, err := s.ListVersions(ctx)
	if err != nil {
		return err
	}
	info, err := all.Add(version, args.registry...)
	if err != nil {
		return err
	}
	if err = applyProps(info, args.props); err != nil {
		return err
	}

	canonical := info.Version.String()
	aliases := info.Aliases.Sorted()
	versionDir := s.shelfPath(canonical)

	store, err := build(ctx, canonical)
	if err != nil {
		return err
	}
	files, err := siteFiles(ctx, storage.Instrument(s.logger, store), versionDir)
	if err != nil {
		return err
	}
	var size int
	for _, f := range files {
		size += len(f.Data)
	}
	s.logger.Info("deploying",
		zap.String("version", canonical),
		zap.Strings("aliases", aliases),
		zap.Int("files", len(files)),
		zap.String("size", units.HumanSize(float64(size))),
		zap.String("branch", s.branch),
	)

	return s.commit(ctx, s.deployMessage(ctx, canonical), func(c *git.Commit) error {
		if err := c.DeleteFiles(s.identifierPaths(append([]string{canonical}, aliases...)...)...); err != nil {
			return err
		}
		for _, f := range files {
			if err := c.AddFile(f); err != nil {
				return err
			}
		}
		if err := s.addAliases(c, canonical, aliases, files); err != nil {
			return err
		}
		if err := s.addVersionsFile(c, all); err != nil {
			return err
		}
		return c.AddFile(git.NewFileInfo(s.nojekyllPath(), nil, git.ModeFile))
	})
}
