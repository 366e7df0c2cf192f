// Copyright © 2018 One Concern

package site

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/site/status"
)

// DefaultSiteDir is where the site is built when the config does not tell otherwise
const DefaultSiteDir = "site"

// Config is the part of the docs config relevant to deployments
type Config struct {
	// SiteDir is resolved relative to the directory of the config file
	SiteDir          string         `yaml:"site_dir"`
	RemoteName       string         `yaml:"remote_name"`
	RemoteBranch     string         `yaml:"remote_branch"`
	UseDirectoryURLs *bool          `yaml:"use_directory_urls"`
	Docshelf         DocshelfConfig `yaml:"docshelf"`

	path string
}

// DocshelfConfig holds deployment settings set in the docs config
type DocshelfConfig struct {
	AliasType        string `yaml:"alias_type"`
	DeployPrefix     string `yaml:"deploy_prefix"`
	RedirectTemplate string `yaml:"redirect_template"`
}

// Path of the config file
func (c *Config) Path() string {
	return c.path
}

// DirectoryURLs tells if pages are served as directories, which is the default
func (c *Config) DirectoryURLs() bool {
	return c.UseDirectoryURLs == nil || *c.UseDirectoryURLs
}

// LoadConfig reads a docs config file
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Newf("config file %s does not exist", path).Wrap(status.ErrConfigNotFound)
		}
		return nil, errors.Newf("cannot read config file %s: %v", path, err).Wrap(status.ErrInvalidConfig)
	}

	cfg := &Config{path: path}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Newf("cannot parse config file %s: %v", path, err).Wrap(status.ErrInvalidConfig)
	}

	if cfg.SiteDir == "" {
		cfg.SiteDir = DefaultSiteDir
	}
	if !filepath.IsAbs(cfg.SiteDir) {
		cfg.SiteDir = filepath.Join(filepath.Dir(path), cfg.SiteDir)
	}
	return cfg, nil
}
