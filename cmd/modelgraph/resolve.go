package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/export"
	"github.com/dusk-indust/modelgraph/internal/graph"
)

// resolveResult is the --json shape of one resolved entity.
type resolveResult struct {
	Entity     string            `json:"entity"`
	IDs        []string          `json:"ids"`
	Nodes      []graph.Node      `json:"nodes"`
	Candidates []graph.Candidate `json:"candidates,omitempty"`
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		noFuzzy    bool
		cutoff     float64
		limit      int
		candidates bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <model> <entity>...",
		Short: "Resolve free-text element names to element ids",
		Long: `Resolve each entity to element ids. An exact case-insensitive name match
wins; otherwise names scoring at least --cutoff on token-set similarity are
returned, best first.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.ResolverOptions()
			if noFuzzy {
				opts.Fuzzy = false
			}
			if cmd.Flags().Changed("cutoff") {
				opts.Cutoff = cutoff
			}
			if cmd.Flags().Changed("limit") {
				opts.Limit = limit
			}
			if opts.Cutoff < 0 || opts.Cutoff > 100 {
				return fmt.Errorf("--cutoff must be between 0 and 100")
			}

			ws, err := a.loadWorkspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			resolver := graph.NewResolver(ws.Index, opts)

			results := make([]resolveResult, 0, len(args)-1)
			for _, entity := range args[1:] {
				if strings.TrimSpace(entity) == "" {
					return errors.New("entity must not be empty")
				}
				r := resolveResult{Entity: entity, IDs: resolver.Resolve(entity), Nodes: []graph.Node{}}
				for _, id := range r.IDs {
					if n, ok := ws.Graph.Node(id); ok {
						r.Nodes = append(r.Nodes, n)
					}
				}
				if candidates {
					r.Candidates = resolver.Candidates(entity)
				}
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := export.MarshalIndented(results)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			for _, r := range results {
				fmt.Fprintln(out, titleStyle.Render(r.Entity))
				if len(r.Nodes) == 0 {
					fmt.Fprintln(out, "  "+warnStyle.Render("no match"))
				}
				for _, n := range r.Nodes {
					fmt.Fprintln(out, "  "+nodeLine(n.ID, n.Tag, n.Name))
				}
				for _, c := range r.Candidates {
					fmt.Fprintf(out, "  %s %s\n", mutedStyle.Render(fmt.Sprintf("%6.2f", c.Score)), nodeLine(c.ID, "", c.Name))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noFuzzy, "no-fuzzy", false, "accept exact name matches only")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0, "minimum fuzzy score 0-100 (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum fuzzy matches (default from config)")
	cmd.Flags().BoolVar(&candidates, "candidates", false, "also list scored fuzzy candidates")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}
