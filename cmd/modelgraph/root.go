package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/config"
	"github.com/dusk-indust/modelgraph/internal/logger"
	"github.com/dusk-indust/modelgraph/internal/logger/console"
	"github.com/dusk-indust/modelgraph/internal/workspace"
)

// app carries state shared by every subcommand once the root has loaded
// its configuration.
type app struct {
	configDir  string
	dotenvPath string
	logLevel   string

	cfg *config.ProjectConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "modelgraph",
		Short: "Containment graphs, entity resolution and XML citations for engineering models",
		Long: `modelgraph reads a Capella/XMI model file, builds the containment graph of
its identified elements, resolves free-text element names to ids and cuts
the XML of an element back out of the file for citation.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory holding modelgraph.yml")
	root.PersistentFlags().StringVar(&a.dotenvPath, "dotenv", "", "path to a .env file (default: ./.env when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(
		newBuildCmd(a),
		newResolveCmd(a),
		newSliceCmd(a),
		newTagsCmd(a),
		newBatchCmd(a),
		newDiagramCmd(a),
		newQueryCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotenv(a.dotenvPath); err != nil {
		return err
	}
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Level:  cfg.LogLevel,
		Writer: cmd.ErrOrStderr(),
	}))
	return nil
}

func (a *app) loadWorkspace(ctx context.Context, path string) (*workspace.Workspace, error) {
	return workspace.Load(ctx, path, a.cfg.ResolverOptions())
}
