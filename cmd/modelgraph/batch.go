package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/batch"
	"github.com/dusk-indust/modelgraph/internal/logger"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		queriesPath string
		outDir      string
		concurrency int
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "batch <model>",
		Short: "Resolve a JSON list of entity names and write citation records",
		Long: `Resolve every name in a JSON array of strings against the model. Each
matched element is cited and gets a citation token; the records and the
token sources are written to <outdir>/resolve_results_<timestamp>.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if queriesPath == "" {
				return errors.New("--queries is required")
			}
			if !cmd.Flags().Changed("outdir") {
				outDir = a.cfg.Batch.OutDir
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.Batch.Concurrency
			}

			queries, err := batch.LoadQueries(queriesPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ws, err := a.loadWorkspace(ctx, args[0])
			if err != nil {
				return err
			}

			progress := batch.NewProgressReporter()
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for ev := range progress.Subscribe() {
					if !quiet {
						fmt.Fprintln(cmd.ErrOrStderr(), batch.FormatProgress(ev))
					}
				}
			}()

			runner := batch.NewRunner(ws, nil, batch.Options{
				Concurrency: concurrency,
				CiteLen:     a.cfg.Cite.MaxLen,
				OnProgress:  progress.Emit,
			})
			report, err := runner.Run(ctx, queries)
			progress.Close()
			wg.Wait()
			if err != nil {
				return err
			}

			path, err := batch.WriteReport(report, outDir, time.Now())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range report.Records {
				if r.Error != "" {
					failed++
				}
			}
			logger.Info("batch complete", "queries", len(queries), "failed", failed, "sources", len(report.Sources))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&queriesPath, "queries", "", "JSON file holding an array of entity names")
	cmd.Flags().StringVar(&outDir, "outdir", "", "directory for the results file (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "queries resolved in parallel (default from config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-query progress")
	return cmd
}
