// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oneconcern/docshelf/pkg/core"
	"github.com/oneconcern/docshelf/pkg/site"
	"github.com/oneconcern/docshelf/pkg/storage"
	"github.com/oneconcern/docshelf/pkg/storage/localfs"
)

func siteBuilder(docs *site.Config) core.BuildFunc {
	builder := site.NewBuilder(
		site.Command(config.Builder...),
		site.Output(errWriter, errWriter),
		site.BuilderLogger(logger),
	)
	return func(ctx context.Context, version string) (storage.Store, error) {
		if err := builder.Build(ctx, docs.Path(), version); err != nil {
			return nil, err
		}
		return localfs.New(appFs, docs.SiteDir), nil
	}
}

var deployCmd = &cobra.Command{
	Use:   "deploy VERSION [ALIAS...]",
	Short: "Build docs and deploy them to a branch",
	Long: `Build the docs with the site builder, then deploy them under the VERSION directory of the docs branch.

The version to build is exposed to the builder as the ` + site.VersionEnvVar + ` environment variable.
Aliases point to this version, and may be moved from other versions with --update-aliases.`,
	Example: `% docshelf deploy --push --update-aliases 0.1 latest`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		edits, err := propEdits(docshelfFlags.props.edits)
		if err != nil {
			wrapFatalln("invalid property edit", err)
			return
		}

		shelf, s := prepareShelf(ctx, true, true)
		err = shelf.Deploy(ctx, args[0], siteBuilder(s.docs),
			core.DeployTitle(docshelfFlags.deploy.title),
			core.DeployAliases(args[1:]...),
			core.DeployUpdateAliases(docshelfFlags.alias.updateAliases),
			core.DeployProps(edits...),
		)
		committed(ctx, shelf, s, "deploy failed", err)
	},
}

func init() {
	addTitleFlag(deployCmd)
	addUpdateAliasesFlag(deployCmd)
	addAliasTypeFlag(deployCmd)
	addTemplateFlag(deployCmd)
	addPropFlags(deployCmd, "prop-")

	rootCmd.AddCommand(deployCmd)
}
