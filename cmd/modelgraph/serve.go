package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/logger"
	"github.com/dusk-indust/modelgraph/internal/mcptools"
	"github.com/dusk-indust/modelgraph/internal/snippet"
	"github.com/dusk-indust/modelgraph/internal/watch"
	"github.com/dusk-indust/modelgraph/internal/workspace"
)

func newServeCmd(a *app) *cobra.Command {
	var watchModel bool

	cmd := &cobra.Command{
		Use:   "serve <model>",
		Short: "Serve the model over MCP on stdio",
		Long: `Run an MCP server on stdin/stdout exposing graph statistics, entity
resolution, slicing, citation and containment tools for one model file.
With --watch the graph is rebuilt whenever the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := a.loadWorkspace(ctx, args[0])
			if err != nil {
				return err
			}
			holder := workspace.NewHolder(ws)

			if watchModel {
				w, err := watch.New(ws.Path, a.cfg.Watch.Debounce, watch.ReloadHolder(holder))
				if err != nil {
					return err
				}
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Stop()
			}

			svc := mcptools.NewModelService(holder, snippet.NewSourceMap(), a.cfg.Cite.MaxLen)
			logger.Info("serving MCP on stdio", "file", ws.Path, "nodes", ws.Graph.Len())
			return mcptools.RunStdio(ctx, mcptools.NewModelMCPServer(svc))
		},
	}

	cmd.Flags().BoolVar(&watchModel, "watch", false, "rebuild the graph when the model file changes")
	return cmd
}
