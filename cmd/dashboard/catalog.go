package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List available widgets",
	Long:  `Shows the widgets offered in the sidebar, in sidebar order, with the size a new tile gets.`,
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	entries := e.catalog().Entries()
	out := cmd.OutOrStdout()

	if len(entries) == 0 {
		fmt.Fprintln(out, "No widgets available.")
		return nil
	}

	// Calculate column widths
	maxTypeLen := 4 // "Type" header
	for _, w := range entries {
		maxTypeLen = max(maxTypeLen, len(w.Type))
	}

	fmt.Fprintln(out, "Available widgets:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-*s  %-6s  %s\n", maxTypeLen, "Type", "Size", "Title")
	fmt.Fprintf(out, "  %-*s  %-6s  %s\n", maxTypeLen, "----", "----", "-----")
	for _, w := range entries {
		span := e.grid.SpanOf(w.DefaultSize)
		size := fmt.Sprintf("%dx%d", span.ColSpan, span.RowSpan)
		fmt.Fprintf(out, "  %-*s  %-6s  %s (%s)\n", maxTypeLen, w.Type, size, w.Title, w.DefaultSize)
	}
	printHint(out)
	return nil
}

func printHint(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'dashboard run' and press enter on a widget to add it.")
}
