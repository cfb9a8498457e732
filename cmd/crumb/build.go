package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb"
	"github.com/ovenbird/crumb/internal/printer"
)

var buildDrafts bool

// buildCmd renders the site.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site",
	Long:  `Render every page, tag index, feed, and the knowledge graph export into the output directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []crumb.Option
		if buildDrafts {
			opts = append(opts, crumb.WithDrafts())
		}
		blog, err := openBlog(opts...)
		if err != nil {
			return printer.Error("Could not open site", err.Error())
		}

		m, err := blog.Build(cmd.Context())
		if err != nil {
			return printer.Error("Build failed", err.Error())
		}

		printer.Success("Built %d pages from %d posts in %s", m.Pages, m.Posts, m.Duration.Round(time.Millisecond))
		printer.Detail("output: %s", m.Output)
		if m.GitHead != "" {
			printer.Detail("head:   %s", m.GitHead)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "Include drafts in the build")
}
