// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias IDENTIFIER [ALIAS...]",
	Short: "Alias docs on a branch",
	Long: `Add aliases to a deployed version, designated by its version or one of its aliases.

Aliases pointing to another version are only moved with --update-aliases.`,
	Example: `% docshelf alias --update-aliases 0.2 latest`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		shelf, s := prepareShelf(ctx, false, true)
		err := shelf.Alias(ctx, args[0], args[1:], docshelfFlags.alias.updateAliases)
		committed(ctx, shelf, s, "alias failed", err)
	},
}

func init() {
	addUpdateAliasesFlag(aliasCmd)
	addAliasTypeFlag(aliasCmd)
	addTemplateFlag(aliasCmd)

	rootCmd.AddCommand(aliasCmd)
}
