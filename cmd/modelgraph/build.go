package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/export"
	"github.com/dusk-indust/modelgraph/internal/logger"
)

func newBuildCmd(a *app) *cobra.Command {
	var graphJSONOut string

	cmd := &cobra.Command{
		Use:   "build <model>",
		Short: "Build the containment graph and print its statistics",
		Long: `Build the containment graph of a model file and print its statistics.
With --graph-json-out (or graphJsonOut in modelgraph.yml) the graph is also
written as node-link JSON. A directory target gets a timestamped file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := a.loadWorkspace(ctx, args[0])
			if err != nil {
				return err
			}
			stats, err := ws.Graph.Stats(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(ws.Path))
			fmt.Fprintln(out, kv(
				[2]string{"nodes", strconv.Itoa(stats.NodeCount)},
				[2]string{"edges", strconv.Itoa(stats.EdgeCount)},
				[2]string{"roots", strconv.Itoa(stats.RootCount)},
				[2]string{"unnamed", strconv.Itoa(stats.UnnamedCount)},
				[2]string{"skipped", strconv.Itoa(stats.SkippedCount)},
				[2]string{"duplicates", strconv.Itoa(stats.DuplicateCount)},
				[2]string{"max depth", strconv.Itoa(stats.MaxDepth)},
				[2]string{"names", strconv.Itoa(ws.Index.Len())},
			))

			target := a.cfg.GraphJSONOut
			if cmd.Flags().Changed("graph-json-out") {
				target = graphJSONOut
			}
			if target == "" {
				return nil
			}
			path, err := export.ExportGraph(ws.Graph, target, time.Now())
			if err != nil {
				return fmt.Errorf("export graph: %w", err)
			}
			logger.Info("graph exported", "path", path)
			fmt.Fprintln(out, kv([2]string{"graph json", path}))
			return nil
		},
	}

	cmd.Flags().StringVar(&graphJSONOut, "graph-json-out", "", "write node-link JSON to this file or directory")
	return cmd
}
