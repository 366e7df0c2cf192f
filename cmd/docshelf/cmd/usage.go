// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// filePrepender adds mkdocs metadata, so the usage pages can be deployed with docshelf itself
func filePrepender(filename string) string {
	title := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), "_", " ")
	return fmt.Sprintf("---\ntitle: %s\n---\n\n**docshelf %s**\n\n", title, NewVersionInfo().Version)
}

// docCmd is a doc generation command powered by cobra
var docCmd = &cobra.Command{
	Use:   "usage",
	Short: "Generates the markdown usage of docshelf",
	Long: `Writes one markdown page per command to the target directory.

The pages carry mkdocs metadata, so they can be dropped into a docs directory and deployed.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doc.GenMarkdownTreeCustom(rootCmd, docshelfFlags.doc.docTarget,
			filePrepender,
			func(s string) string { return s },
		)
		if err != nil {
			wrapFatalln("failed to generate doc", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
	addTargetFlag(docCmd)
}
