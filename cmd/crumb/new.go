package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb/internal/printer"
	"github.com/ovenbird/crumb/pkg/post"
)

var newTitle string

// newCmd creates a draft post.
var newCmd = &cobra.Command{
	Use:   "new <slug>",
	Short: "Create a draft post",
	Long: `Create a draft post under the content directory. The slug may be
nested (essays/boule); the title defaults to one derived from the slug.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		blog, err := openBlog()
		if err != nil {
			return printer.Error("Could not open site", err.Error())
		}

		ctx := cmd.Context()
		if _, err := blog.Post(ctx, slug); err == nil {
			return printer.Error(
				fmt.Sprintf("Post %q already exists", slug),
				"Refusing to overwrite an existing post.",
				"Pick a different slug, or edit the existing file.")
		} else if !errors.Is(err, post.ErrNotFound) {
			return printer.Error("Could not check for existing post", err.Error())
		}

		title := newTitle
		if title == "" {
			title = titleFromSlug(slug)
		}
		draft := &post.Post{
			Slug:  slug,
			Title: title,
			Date:  time.Now().UTC().Truncate(time.Minute),
			Draft: true,
		}
		if err := blog.SavePost(ctx, draft); err != nil {
			return printer.Error("Could not create post", err.Error())
		}

		printer.Success("Created draft %s", slug)
		printer.Detail("content/%s.md", slug)
		return nil
	},
}

// titleFromSlug turns "essays/no-knead-bread" into "No knead bread".
func titleFromSlug(slug string) string {
	base := slug
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	words := strings.ReplaceAll(base, "-", " ")
	r := []rune(words)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Post title (default: derived from slug)")
}
