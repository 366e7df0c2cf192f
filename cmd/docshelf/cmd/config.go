// Copyright © 2018 One Concern

package cmd

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/oneconcern/docshelf/pkg/core"
	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/site"
	sitestatus "github.com/oneconcern/docshelf/pkg/site/status"
)

const defaultRemote = "origin"

var defaultBuilder = site.DefaultBuildCommand

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	Remote       string   `json:"remote" yaml:"remote" mapstructure:"remote"`
	Branch       string   `json:"branch" yaml:"branch" mapstructure:"branch"`
	LogLevel     string   `json:"loglevel" yaml:"loglevel" mapstructure:"loglevel"`
	Builder      []string `json:"builder" yaml:"builder" mapstructure:"builder"` // argv of the site builder
	DeployPrefix string   `json:"deploy_prefix" yaml:"deploy_prefix" mapstructure:"deploy_prefix"`
	AliasType    string   `json:"alias_type" yaml:"alias_type" mapstructure:"alias_type"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// settings resolve the parameters of a command.
//
// Explicit flags win over the docs config, which wins over the CLI config.
type settings struct {
	remote       string
	branch       string
	prefix       string
	aliasType    core.AliasType
	template     *site.RedirectTemplate
	docs         *site.Config
	directoryURL bool
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveSettings merges flags and configs. When needDocs is false, a missing docs config is tolerated.
func resolveSettings(needDocs bool) (*settings, error) {
	docs, err := site.LoadConfig(appFs, docshelfFlags.root.configFile)
	if err != nil {
		if needDocs || !errors.Is(err, sitestatus.ErrConfigNotFound) {
			return nil, err
		}
		docs = nil
	}

	s := &settings{
		remote:       firstOf(docshelfFlags.root.remote, config.Remote, defaultRemote),
		branch:       firstOf(docshelfFlags.root.branch, config.Branch, core.DefaultBranch),
		prefix:       firstOf(docshelfFlags.root.deployPrefix, config.DeployPrefix),
		docs:         docs,
		directoryURL: true,
	}

	aliasType := firstOf(docshelfFlags.alias.aliasType, config.AliasType)
	templatePath := docshelfFlags.alias.template

	if docs != nil {
		s.remote = firstOf(docshelfFlags.root.remote, docs.RemoteName, config.Remote, defaultRemote)
		s.branch = firstOf(docshelfFlags.root.branch, docs.RemoteBranch, config.Branch, core.DefaultBranch)
		s.prefix = firstOf(docshelfFlags.root.deployPrefix, docs.Docshelf.DeployPrefix, config.DeployPrefix)
		s.directoryURL = docs.DirectoryURLs()
		aliasType = firstOf(docshelfFlags.alias.aliasType, docs.Docshelf.AliasType, config.AliasType)
		if templatePath == "" && docs.Docshelf.RedirectTemplate != "" {
			templatePath = docs.Docshelf.RedirectTemplate
			if !filepath.IsAbs(templatePath) {
				templatePath = filepath.Join(filepath.Dir(docs.Path()), templatePath)
			}
		}
	}

	if s.aliasType, err = core.ParseAliasType(aliasType); err != nil {
		return nil, err
	}
	if s.template, err = site.LoadRedirectTemplate(appFs, templatePath); err != nil {
		return nil, err
	}
	return s, nil
}
