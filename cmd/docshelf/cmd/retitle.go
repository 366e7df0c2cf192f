// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var retitleCmd = &cobra.Command{
	Use:     "retitle IDENTIFIER TITLE",
	Short:   "Change the title of a version",
	Example: `% docshelf retitle 0.1 "0.1 (unsupported)"`,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		shelf, s := prepareShelf(ctx, false, true)
		err := shelf.Retitle(ctx, args[0], args[1])
		committed(ctx, shelf, s, "retitle failed", err)
	},
}

func init() {
	rootCmd.AddCommand(retitleCmd)
}
