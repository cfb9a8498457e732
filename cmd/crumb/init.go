package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb"
	"github.com/ovenbird/crumb/internal/printer"
	"github.com/ovenbird/crumb/pkg/post"
	"github.com/ovenbird/crumb/pkg/site"
)

var initNoGit bool

const initialConfig = `title: My Blog
base_url: https://example.com
description: ""
author:
  name: ""
  email: ""
`

const welcomeBody = `This is your first post. Edit it, add more under content/, then run
` + "`crumb build`" + ` to render the site into public/.

Link posts with wikilinks: [[welcome]] points right back here.
`

// initCmd scaffolds a new site and initializes its vault.
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a new site",
	Long: `Create the site skeleton (crumb.yaml, content/, static/) at the given
path (default: --site) and initialize the vault, including the git
repository unless --no-git is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := sitePath
		if len(args) == 1 {
			root = args[0]
		}

		if err := os.MkdirAll(root, 0o755); err != nil {
			return printer.Error("Could not create site directory", err.Error())
		}

		cfgPath := filepath.Join(root, site.ConfigFile)
		if _, err := os.Stat(cfgPath); err == nil {
			return printer.Error(
				fmt.Sprintf("%s already exists", site.ConfigFile),
				fmt.Sprintf("The directory %s already holds a site.", root),
				"Pick an empty directory, or edit the existing site instead.")
		}
		if err := os.WriteFile(cfgPath, []byte(initialConfig), 0o644); err != nil {
			return printer.Error("Could not write "+site.ConfigFile, err.Error())
		}
		if err := os.MkdirAll(filepath.Join(root, "static"), 0o755); err != nil {
			return printer.Error("Could not create static directory", err.Error())
		}

		opts := []crumb.Option{crumb.WithAutoInit()}
		if initNoGit {
			opts = append(opts, crumb.WithGitless())
		}
		blog, err := crumb.Open(root, append(opts, crumb.WithLogger(cliLogger()))...)
		if err != nil {
			return printer.Error("Could not initialize site", err.Error())
		}

		welcome := &post.Post{
			Slug:    "welcome",
			Title:   "Welcome",
			Date:    time.Now().UTC().Truncate(time.Minute),
			Tags:    []string{"meta"},
			Content: welcomeBody,
		}
		if err := blog.SavePost(cmd.Context(), welcome); err != nil {
			return printer.Error("Could not write welcome post", err.Error())
		}

		printer.Success("Initialized site in %s", blog.Root())
		printer.Detail("config:  %s", site.ConfigFile)
		printer.Detail("content: content/welcome.md")
		if initNoGit {
			printer.Detail("git:     disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initNoGit, "no-git", false, "Skip git repository initialization")
}
