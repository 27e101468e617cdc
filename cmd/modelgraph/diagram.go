package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/export"
)

func newDiagramCmd(a *app) *cobra.Command {
	var (
		maxNodes int
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "diagram <model>",
		Short: "Print the containment hierarchy as a Mermaid diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-nodes") {
				maxNodes = a.cfg.Diagram.MaxNodes
			}

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

			mermaid, err := export.GenerateMermaid(ctx, reader, maxNodes)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), mermaid)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "maximum elements drawn, 0 for all (default from config)")
	cmd.Flags().StringVar(&backend, "backend", backendMem, "graph backend: mem or kuzu")
	return cmd
}
