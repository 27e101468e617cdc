package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSliceCmd(a *app) *cobra.Command {
	var (
		contextLines int
		cite         bool
		maxLen       int
		boxed        bool
	)

	cmd := &cobra.Command{
		Use:   "slice <model> <id>",
		Short: "Print the XML source of an element",
		Long: `Print the XML lines of an element, cut from the model file at its recorded
line. With --cite the text is collapsed to one line and truncated; diagram
and layout elements then print nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("context") {
				contextLines = a.cfg.Cite.ContextLines
			}
			if !cmd.Flags().Changed("max-len") {
				maxLen = a.cfg.Cite.MaxLen
			}
			if contextLines < 0 {
				return fmt.Errorf("--context must not be negative")
			}

			ws, err := a.loadWorkspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var text string
			if cite {
				text, err = ws.Slicer.CiteID(args[1], maxLen)
			} else {
				text, err = ws.Slicer.SliceID(args[1], contextLines)
			}
			if err != nil {
				return err
			}
			if text == "" {
				return nil
			}

			if boxed {
				text = snippetBox.Render(text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().IntVar(&contextLines, "context", 0, "lines of context before the element (default from config)")
	cmd.Flags().BoolVar(&cite, "cite", false, "print the single-line citation form")
	cmd.Flags().IntVar(&maxLen, "max-len", 0, "citation length limit, at least 1 (default from config)")
	cmd.Flags().BoolVar(&boxed, "box", false, "draw a border around the output")
	return cmd
}
