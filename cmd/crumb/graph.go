package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb/internal/printer"
	"github.com/ovenbird/crumb/pkg/graph"
)

var (
	graphFormat string
	graphOut    string
	relatedK    int
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the knowledge graph",
}

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph as JSON or DOT",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGraph(cmd)
		if err != nil {
			return err
		}

		out := os.Stdout
		if graphOut != "" {
			f, err := os.Create(graphOut)
			if err != nil {
				return printer.Error("Could not create output file", err.Error())
			}
			defer f.Close()
			out = f
		}

		switch graphFormat {
		case "json":
			err = g.WriteJSON(out)
		case "dot":
			err = g.WriteDOT(out)
		default:
			return printer.Error(
				fmt.Sprintf("Unknown format %q", graphFormat),
				"Supported formats are json and dot.")
		}
		if err != nil {
			return printer.Error("Export failed", err.Error())
		}
		return nil
	},
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph size and connectivity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGraph(cmd)
		if err != nil {
			return err
		}

		printer.Printf("nodes:   %d\n", g.Order())
		printer.Printf("edges:   %d\n", g.Size())
		printer.Printf("posts:   %d\n", len(g.Nodes(graph.NodePost)))
		printer.Printf("tags:    %d\n", len(g.Nodes(graph.NodeTag)))
		printer.Printf("terms:   %d\n", len(g.Nodes(graph.NodeTerm)))
		printer.Printf("orphans: %d\n", len(graph.Orphans(g)))
		return nil
	},
}

var graphRelatedCmd = &cobra.Command{
	Use:   "related <slug>",
	Short: "Show the posts most related to a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGraph(cmd)
		if err != nil {
			return err
		}

		scored, err := graph.Related(g, graph.PostID(args[0]), relatedK)
		if err != nil {
			return printer.Error("Could not compute related posts", err.Error())
		}
		for _, s := range scored {
			printer.Printf("%.3f  %s\n", s.Score, s.ID)
		}
		return nil
	},
}

var graphBacklinksCmd = &cobra.Command{
	Use:   "backlinks <slug>",
	Short: "Show the posts linking to a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGraph(cmd)
		if err != nil {
			return err
		}

		links, err := graph.Backlinks(g, graph.PostID(args[0]))
		if err != nil {
			return printer.Error("Could not compute backlinks", err.Error())
		}
		for _, id := range links {
			printer.Println(id)
		}
		return nil
	},
}

var graphOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Show posts with no links in or out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGraph(cmd)
		if err != nil {
			return err
		}
		for _, id := range graph.Orphans(g) {
			printer.Println(id)
		}
		return nil
	},
}

func buildGraph(cmd *cobra.Command) (*graph.Graph, error) {
	blog, err := openBlog()
	if err != nil {
		return nil, printer.Error("Could not open site", err.Error())
	}
	g, err := blog.Graph(cmd.Context())
	if err != nil {
		return nil, printer.Error("Could not build the knowledge graph", err.Error())
	}
	return g, nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphExportCmd, graphStatsCmd, graphRelatedCmd, graphBacklinksCmd, graphOrphansCmd)

	graphExportCmd.Flags().StringVar(&graphFormat, "format", "json", "Export format: json or dot")
	graphExportCmd.Flags().StringVarP(&graphOut, "output", "o", "", "Write to file instead of stdout")
	graphRelatedCmd.Flags().IntVarP(&relatedK, "top", "k", 5, "Number of related posts")
}
