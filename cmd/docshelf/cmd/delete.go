// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [IDENTIFIER...]",
	Short:   "Delete docs from a branch",
	Long:    `Delete deployed versions, or aliases, from the docs branch. With --all, remove every deployed version.`,
	Example: `% docshelf delete 0.1 latest`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		shelf, s := prepareShelf(ctx, false, true)
		err := shelf.Delete(ctx, args, docshelfFlags.delete.all)
		committed(ctx, shelf, s, "delete failed", err)
	},
}

func init() {
	addDeleteAllFlag(deleteCmd)

	rootCmd.AddCommand(deleteCmd)
}
