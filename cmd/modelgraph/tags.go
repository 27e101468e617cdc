package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/modelgraph/internal/batch"
	"github.com/dusk-indust/modelgraph/internal/snippet"
)

func newTagsCmd(_ *app) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "tags [text]",
		Short: "List the citation tokens in a text",
		Long: `List the distinct [Sxxxxxx] citation tokens in a text, in order of first
appearance. The text is read from stdin when no argument is given. With
--report the tokens are looked up in the sources of a batch report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			var sources map[string]snippet.Source
			if reportPath != "" {
				report, err := loadReport(reportPath)
				if err != nil {
					return err
				}
				sources = report.Sources
			}

			out := cmd.OutOrStdout()
			for _, tok := range snippet.ExtractTokens(text) {
				if sources == nil {
					fmt.Fprintln(out, tok)
					continue
				}
				src, ok := sources[snippet.NormalizeToken(tok)]
				if !ok {
					fmt.Fprintf(out, "%s  %s\n", tokenStyle.Render(tok), warnStyle.Render("unknown"))
					continue
				}
				fmt.Fprintf(out, "%s  %s\n", tokenStyle.Render(tok), nodeLine(src.ID, src.Tag, src.Name))
				if src.Snippet != "" {
					fmt.Fprintln(out, "    "+mutedStyle.Render(strings.TrimSpace(src.Snippet)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "batch report whose sources resolve the tokens")
	return cmd
}

func loadReport(path string) (*batch.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report batch.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}
