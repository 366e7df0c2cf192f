// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var setDefaultCmd = &cobra.Command{
	Use:   "set-default IDENTIFIER",
	Short: "Set the default version of the docs",
	Long: `Write an index.html at the root of the deployed docs, redirecting to IDENTIFIER.

The identifier must be deployed, unless --allow-undefined is set.`,
	Example: `% docshelf set-default latest`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		shelf, s := prepareShelf(ctx, false, true)
		err := shelf.SetDefault(ctx, args[0], docshelfFlags.setDefault.allowUndefined)
		committed(ctx, shelf, s, "set-default failed", err)
	},
}

func init() {
	addTemplateFlag(setDefaultCmd)
	addAllowUndefinedFlag(setDefaultCmd)

	rootCmd.AddCommand(setDefaultCmd)
}
