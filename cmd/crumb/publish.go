package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb"
	"github.com/ovenbird/crumb/internal/printer"
	"github.com/ovenbird/crumb/pkg/post"
)

var (
	publishMsg   string
	publishType  string
	publishScope string
	publishSync  bool
)

// publishCmd commits all pending content changes as one change-set.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commit pending content changes",
	Long: `Stage every change under the content directory and commit it as one
change-set with a conventional-commit message. With --sync, pull and
push afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		blog, err := openBlog()
		if err != nil {
			return printer.Error("Could not open site", err.Error())
		}

		msg := crumb.FormatCommitMessage(publishType, publishScope, publishMsg, "")
		if publishType == "" && publishScope == "" {
			msg = crumb.AppendFooter(publishMsg)
		}

		ctx := cmd.Context()
		err = blog.Publish(ctx, msg)
		switch {
		case errors.Is(err, post.ErrNoChanges):
			printer.Warning("Nothing to publish: the content tree is clean")
			return nil
		case err != nil:
			return printer.Error("Publish failed", err.Error())
		}
		printer.Success("Published content changes")

		if publishSync {
			printer.Step("Syncing with remote")
			if err := blog.Sync(ctx); err != nil {
				return printer.Error("Sync failed", err.Error(),
					"Ensure a remote is configured: git remote add origin <url>.")
			}
			printer.Success("Synced with remote")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVarP(&publishMsg, "message", "m", "", "Commit subject")
	publishCmd.Flags().StringVar(&publishType, "type", "", "Conventional-commit type (post, edit, fix, docs, chore)")
	publishCmd.Flags().StringVar(&publishScope, "scope", "", "Conventional-commit scope")
	publishCmd.Flags().BoolVar(&publishSync, "sync", false, "Pull and push after committing")
	publishCmd.MarkFlagRequired("message")
}
