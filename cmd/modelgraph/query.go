package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		backend   string
		limit     int
		direction string
		depth     int
	)

	cmd := &cobra.Command{
		Use:   "query <model> <substring>",
		Short: "Search elements by name and walk their containment",
		Long: `List elements whose name contains the substring (case-insensitive). With
--direction each match is followed by the elements it contains (down) or
its containers (up). The kuzu backend mirrors the graph into an in-memory
KuzuDB instance and answers the same queries with Cypher.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := a.loadWorkspace(ctx, args[0])
			if err != nil {
				return err
			}
			reader, closeReader, err := openReader(ctx, backend, ws.Graph)
			if err != nil {
				return err
			}
			defer closeReader()

			nodes, err := reader.QueryNodes(ctx, args[1], limit)
			if err != nil {
				return fmt.Errorf("query nodes: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(nodes) == 0 {
				fmt.Fprintln(out, warnStyle.Render("no match"))
				return nil
			}
			for _, n := range nodes {
				fmt.Fprintln(out, nodeLine(n.ID, n.Tag, n.Name))
				if direction == "" {
					continue
				}
				chains, err := reader.GetContainment(ctx, n.ID, graph.ParseDirection(direction), depth)
				if err != nil {
					return fmt.Errorf("containment of %s: %w", n.ID, err)
				}
				for _, c := range chains {
					fmt.Fprintf(out, "  %s%s\n", strings.Repeat("  ", c.Depth-1), mutedStyle.Render(strings.Join(c.Nodes, " > ")))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", backendMem, "graph backend: mem or kuzu")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of matches, 0 for all")
	cmd.Flags().StringVar(&direction, "direction", "", "also walk containment: down or up")
	cmd.Flags().IntVar(&depth, "depth", 3, "containment depth")
	return cmd
}
