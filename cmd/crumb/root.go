package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb"
)

var (
	sitePath string
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crumb",
	Short: "A publishing engine for a vault of Markdown essays",
	Long: `Crumb turns a directory of Markdown posts with YAML frontmatter into
a static site: git-backed editing, a knowledge graph linking the posts,
tag indexes, feeds, and the simulations behind the finance essays.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&sitePath, "site", "s", ".", "Path to the site root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// cliLogger returns the logger commands hand to the engine: verbose
// runs get the full debug stream, quiet runs only warnings.
func cliLogger() *slog.Logger {
	if verbose {
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// openBlog opens the site at --site with the common CLI options.
func openBlog(opts ...crumb.Option) (*crumb.Blog, error) {
	opts = append([]crumb.Option{
		crumb.WithLogger(cliLogger()),
		crumb.WithMustExist(),
	}, opts...)
	return crumb.Open(sitePath, opts...)
}
