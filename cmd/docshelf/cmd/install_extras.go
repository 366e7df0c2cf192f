// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/site"
)

var installExtrasCmd = &cobra.Command{
	Use:   "install-extras",
	Short: "Install a version selector into the docs",
	Long: `Copy the version selector of the docs theme into the docs directory,
and list it under extra_css and extra_javascript in the docs config.

The theme is read from the docs config; --theme only applies when the config sets none.
Running it again refreshes the files without duplicating config entries.`,
	Example: `% docshelf install-extras
% docshelf install-extras --theme material`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		configFile := docshelfFlags.root.configFile
		installed, err := site.InstallExtras(appFs, configFile, docshelfFlags.installExtras.theme)
		if err != nil {
			wrapFatalln("cannot install extras", err)
			return
		}
		for _, rel := range installed {
			logger.Info("installed", zap.String("file", rel), zap.String("config", configFile))
		}
	},
}

func init() {
	addThemeFlag(installExtrasCmd)

	rootCmd.AddCommand(installExtrasCmd)
}
