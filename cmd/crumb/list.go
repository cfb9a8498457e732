package main

import (
	"encoding/json"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb/internal/printer"
)

var (
	listJSON   bool
	listTag    string
	listDrafts bool
)

// listCmd lists the posts in the vault.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		blog, err := openBlog()
		if err != nil {
			return printer.Error("Could not open site", err.Error())
		}

		metas, err := blog.Posts(cmd.Context())
		if err != nil {
			return printer.Error("Could not list posts", err.Error())
		}

		filtered := metas[:0]
		for _, m := range metas {
			if m.Draft && !listDrafts {
				continue
			}
			if listTag != "" && !slices.Contains(m.Tags, listTag) {
				continue
			}
			filtered = append(filtered, m)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(filtered)
		}

		for _, m := range filtered {
			line := m.Slug
			if !m.Date.IsZero() {
				line = m.Date.Format("2006-01-02") + "  " + line
			}
			if m.Title != "" {
				line += "  " + m.Title
			}
			if len(m.Tags) > 0 {
				line += "  [" + strings.Join(m.Tags, ", ") + "]"
			}
			if m.Draft {
				line += "  (draft)"
			}
			printer.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only posts carrying this tag")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include drafts")
}
