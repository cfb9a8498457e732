package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb"
	"github.com/ovenbird/crumb/internal/printer"
)

var serveDrafts bool

// serveCmd builds the site and serves it with rebuild-on-change.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally, rebuilding on change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []crumb.Option
		if serveDrafts {
			opts = append(opts, crumb.WithDrafts())
		}
		blog, err := openBlog(opts...)
		if err != nil {
			return printer.Error("Could not open site", err.Error())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := blog.Watch(ctx)
		if err != nil {
			return printer.Error("Could not watch content directory", err.Error())
		}

		cfg := blog.Config()
		printer.Step("Serving on http://%s:%d (ctrl-c to stop)", cfg.Server.Host, cfg.Server.Port)
		if err := blog.Server().Run(ctx, events); err != nil {
			return printer.Error("Server stopped", err.Error())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDrafts, "drafts", false, "Serve drafts too")
}
