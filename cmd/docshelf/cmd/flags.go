// Copyright © 2018 One Concern

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oneconcern/docshelf/pkg/core"
	"github.com/oneconcern/docshelf/pkg/dlogger"
	"github.com/oneconcern/docshelf/pkg/site"
)

type flagsT struct {
	root struct {
		remote             string
		branch             string
		message            string
		push               bool
		allowEmpty         bool
		ignoreRemoteStatus bool
		rebase             bool
		deployPrefix       string
		configFile         string
		logLevel           string
	}
	alias struct {
		updateAliases bool
		aliasType     string
		template      string
	}
	deploy struct {
		title string
	}
	props struct {
		edits []propArg
	}
	delete struct {
		all bool
	}
	list struct {
		json     bool
		template string
	}
	setDefault struct {
		allowUndefined bool
	}
	serve struct {
		address string
	}
	doc struct {
		docTarget string
	}
	version struct {
		json bool
	}
	installExtras struct {
		theme string
	}
}

var docshelfFlags = flagsT{}

type propKind string

const (
	propSet       propKind = "set"
	propSetString propKind = "set-string"
	propSetAll    propKind = "set-all"
	propDelete    propKind = "delete"
	propDeleteAll propKind = "delete-all"
)

// propArg is a property edit as given on the command line
type propArg struct {
	kind propKind
	expr string
}

func (a propArg) edit() (core.PropEdit, error) {
	switch a.kind {
	case propSet:
		return core.PropSet(a.expr)
	case propSetString:
		return core.PropSetString(a.expr)
	case propSetAll:
		return core.PropSetAll(a.expr)
	case propDelete:
		return core.PropDelete(a.expr)
	default:
		return core.PropDeleteAll(), nil
	}
}

func propEdits(args []propArg) ([]core.PropEdit, error) {
	edits := make([]core.PropEdit, 0, len(args))
	for _, a := range args {
		e, err := a.edit()
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	return edits, nil
}

// propFlag appends to a shared list of edits, so edits of different kinds keep the order of the command line
type propFlag struct {
	kind  propKind
	edits *[]propArg
}

var _ pflag.Value = &propFlag{}

func (p *propFlag) String() string { return "" }

func (p *propFlag) Set(value string) error {
	if p.kind == propDeleteAll {
		if value != "true" {
			return nil
		}
		value = ""
	}
	*p.edits = append(*p.edits, propArg{kind: p.kind, expr: value})
	return nil
}

func (p *propFlag) Type() string {
	if p.kind == propDeleteAll {
		return "bool"
	}
	return "string"
}

func addRemoteFlag(cmd *cobra.Command) string {
	remote := "remote"
	cmd.PersistentFlags().StringVarP(&docshelfFlags.root.remote, remote, "r", "", "The origin for the docs branch (defaults to origin)")
	return remote
}

func addBranchFlag(cmd *cobra.Command) string {
	branch := "branch"
	cmd.PersistentFlags().StringVarP(&docshelfFlags.root.branch, branch, "b", "", "The branch holding deployed docs (defaults to "+core.DefaultBranch+")")
	return branch
}

func addMessageFlag(cmd *cobra.Command) string {
	message := "message"
	cmd.PersistentFlags().StringVarP(&docshelfFlags.root.message, message, "m", "", "The commit message")
	return message
}

func addPushFlag(cmd *cobra.Command) string {
	push := "push"
	cmd.PersistentFlags().BoolVarP(&docshelfFlags.root.push, push, "p", false, "Push to the remote after committing")
	return push
}

func addAllowEmptyFlag(cmd *cobra.Command) string {
	c := "allow-empty"
	cmd.PersistentFlags().BoolVar(&docshelfFlags.root.allowEmpty, c, false, "Allow commits that change nothing")
	return c
}

func addIgnoreRemoteStatusFlag(cmd *cobra.Command) string {
	c := "ignore-remote-status"
	cmd.PersistentFlags().BoolVar(&docshelfFlags.root.ignoreRemoteStatus, c, false, "Don't check the status of the remote branch")
	return c
}

func addRebaseFlag(cmd *cobra.Command) string {
	c := "rebase"
	cmd.PersistentFlags().BoolVar(&docshelfFlags.root.rebase, c, false, "Reset the local branch to the remote one before committing")
	return c
}

func addDeployPrefixFlag(cmd *cobra.Command) string {
	c := "deploy-prefix"
	cmd.PersistentFlags().StringVar(&docshelfFlags.root.deployPrefix, c, "", "The subdirectory of the branch to deploy to")
	return c
}

func addConfigFileFlag(cmd *cobra.Command) string {
	c := "config-file"
	cmd.PersistentFlags().StringVarP(&docshelfFlags.root.configFile, c, "F", "mkdocs.yml", "The docs config file")
	return c
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&docshelfFlags.root.logLevel, loglevel, "",
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug (defaults to "+dlogger.LogLevelWarn+")")
	return loglevel
}

func addUpdateAliasesFlag(cmd *cobra.Command) string {
	c := "update-aliases"
	cmd.Flags().BoolVarP(&docshelfFlags.alias.updateAliases, c, "u", false, "Move aliases to this version when they point to another one")
	return c
}

func addAliasTypeFlag(cmd *cobra.Command) string {
	c := "alias-type"
	cmd.Flags().StringVar(&docshelfFlags.alias.aliasType, c, "", "How aliases are materialized: symlink, copy or redirect (defaults to symlink)")
	return c
}

func addTemplateFlag(cmd *cobra.Command) string {
	c := "template"
	cmd.Flags().StringVarP(&docshelfFlags.alias.template, c, "T", "", "The template file for redirect pages")
	return c
}

func addTitleFlag(cmd *cobra.Command) string {
	c := "title"
	cmd.Flags().StringVarP(&docshelfFlags.deploy.title, c, "t", "", "The title of the version (defaults to the version itself)")
	return c
}

// addPropFlags registers property edit flags, named with an optional prefix
func addPropFlags(cmd *cobra.Command, prefix string) []string {
	usages := []struct {
		kind  propKind
		usage string
	}{
		{propSet, "Set the property at PATH to a JSON value, as PATH=JSON"},
		{propSetString, "Set the property at PATH to a string, as PATH=STRING"},
		{propSetAll, "Replace all properties with a JSON value"},
		{propDelete, "Delete the property at PATH"},
		{propDeleteAll, "Delete all properties"},
	}
	names := make([]string, 0, len(usages))
	for _, u := range usages {
		name := prefix + string(u.kind)
		f := cmd.Flags().VarPF(&propFlag{kind: u.kind, edits: &docshelfFlags.props.edits}, name, "", u.usage)
		if u.kind == propDeleteAll {
			f.NoOptDefVal = "true"
		}
		names = append(names, name)
	}
	return names
}

func addDeleteAllFlag(cmd *cobra.Command) string {
	c := "all"
	cmd.Flags().BoolVar(&docshelfFlags.delete.all, c, false, "Delete everything")
	return c
}

func addJSONFlag(cmd *cobra.Command, target *bool) string {
	c := "json"
	cmd.Flags().BoolVarP(target, c, "j", false, "Display the result as JSON")
	return c
}

func addThemeFlag(cmd *cobra.Command) string {
	c := "theme"
	cmd.Flags().StringVarP(&docshelfFlags.installExtras.theme, c, "t", "",
		"The theme to install extras for, when the docs config does not set one ("+strings.Join(site.Themes(), ", ")+")")
	return c
}

func addFormatFlag(cmd *cobra.Command) string {
	c := "format"
	cmd.Flags().StringVar(&docshelfFlags.list.template, c, "", "Pretty-print versions using a Go template")
	return c
}

func addAllowUndefinedFlag(cmd *cobra.Command) string {
	c := "allow-undefined"
	cmd.Flags().BoolVar(&docshelfFlags.setDefault.allowUndefined, c, false, "Allow an identifier which is not deployed yet")
	return c
}

func addAddressFlag(cmd *cobra.Command) string {
	c := "dev-addr"
	cmd.Flags().StringVarP(&docshelfFlags.serve.address, c, "a", "localhost:8000", "The IP address and port to serve from")
	return c
}

func addTargetFlag(cmd *cobra.Command) string {
	c := "target-dir"
	cmd.Flags().StringVar(&docshelfFlags.doc.docTarget, c, ".", "The target directory where to generate the markdown documentation")
	return c
}
