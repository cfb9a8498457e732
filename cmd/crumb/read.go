package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb/internal/printer"
)

var readRaw bool

// readCmd renders a post to the terminal.
var readCmd = &cobra.Command{
	Use:   "read <slug>",
	Short: "Read a post in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blog, err := openBlog()
		if err != nil {
			return printer.Error("Could not open site", err.Error())
		}

		p, err := blog.Post(cmd.Context(), args[0])
		if err != nil {
			return printer.Error(
				fmt.Sprintf("Could not read %q", args[0]), err.Error(),
				"Run 'crumb list' to see the available slugs.")
		}

		if readRaw {
			fmt.Print(p.Content)
			return nil
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return printer.Error("Could not set up terminal renderer", err.Error())
		}

		out, err := r.Render("# " + p.EffectiveTitle() + "\n\n" + p.Content)
		if err != nil {
			return printer.Error("Could not render post", err.Error())
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "Print the raw Markdown body")
}
