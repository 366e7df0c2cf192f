// Copyright © 2018 One Concern

package cmd

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/oneconcern/docshelf/pkg/jsonpath"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var propsCmd = &cobra.Command{
	Use:   "props IDENTIFIER [PROP]",
	Short: "Get or set properties of a version",
	Long: `Get or set the properties of a deployed version.

Without edits, print the JSON value of the property at PROP, or all properties.
Edits are applied in the order they are given, for instance:

  --set 'tags=["stable"]' --set-string 'owner=docs team' --delete 'legacy'

PROP cannot be combined with edits.`,
	Example: `% docshelf props 0.1 tags[0]`,
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		identifier := args[0]

		if len(docshelfFlags.props.edits) == 0 {
			var prop string
			if len(args) > 1 {
				prop = args[1]
			}
			getProperty(ctx, identifier, prop)
			return
		}

		if len(args) > 1 {
			wrapFatalln("cannot get and set properties at the same time", nil)
			return
		}
		edits, err := propEdits(docshelfFlags.props.edits)
		if err != nil {
			wrapFatalln("invalid property edit", err)
			return
		}
		shelf, s := prepareShelf(ctx, false, true)
		err = shelf.SetProperties(ctx, identifier, edits)
		committed(ctx, shelf, s, "cannot set properties", err)
	},
}

func getProperty(ctx context.Context, identifier, prop string) {
	p, err := jsonpath.Parse(prop)
	if err != nil {
		wrapFatalln("invalid property path", err)
		return
	}
	shelf, _ := prepareShelf(ctx, false, false)
	value, err := shelf.GetProperty(ctx, identifier, p)
	if err != nil {
		wrapFatalln("cannot get property", err)
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		wrapFatalln("cannot encode property", err)
		return
	}
	logStdOut("%s\n", data)
}

func init() {
	addPropFlags(propsCmd, "")

	rootCmd.AddCommand(propsCmd)
}
