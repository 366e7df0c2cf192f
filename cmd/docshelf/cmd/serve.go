// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oneconcern/docshelf/pkg/git"
	"github.com/oneconcern/docshelf/pkg/web"
)

func defaultServeContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// serveContext is canceled on interrupt
var serveContext = defaultServeContext

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve docs from a branch",
	Long: `Serve the docs deployed on the docs branch, as they would be published.

Files are read straight from the branch: the working tree is not used.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := serveContext()
		defer cancel()

		shelf, _ := prepareShelf(ctx, false, false)
		srv := web.NewServer(git.New(git.Logger(logger)), shelf.Branch(), web.Logger(logger))

		ready := make(chan string, 1)
		go func() {
			select {
			case addr := <-ready:
				logStdOut("Starting server at http://%s/\nPress Ctrl+C to quit.\n", addr)
			case <-ctx.Done():
			}
		}()

		if err := web.ListenAndServe(ctx, docshelfFlags.serve.address, web.InitRouter(srv), logger, ready); err != nil {
			wrapFatalln("server error", err)
			return
		}
	},
}

func init() {
	addAddressFlag(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
