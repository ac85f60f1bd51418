package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dashboard/internal/board"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Print the stored board",
	Long: `Prints the tiles of the stored board in list order.

Examples:
  dashboard tiles
  dashboard tiles --key dashboard-tiles:alice --store redis://localhost:6379/0`,
	Args: cobra.NoArgs,
	RunE: runTiles,
}

func runTiles(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := e.open(ctx); err != nil {
		return err
	}
	defer e.close()

	store, err := e.loadBoard(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tiles := store.Tiles()
	if len(tiles) == 0 {
		fmt.Fprintf(out, "Board %q is empty.\n", e.cfg.Storage.Key)
		return nil
	}

	cfg := store.Config()
	fmt.Fprintf(out, "Board %q: %d tiles on %dx%d\n\n", e.cfg.Storage.Key, len(tiles), cfg.Columns, cfg.Rows)
	fmt.Fprintln(out, tilesTable(tiles).View())
	return nil
}

// tilesTable renders tiles as a static table.
func tilesTable(tiles []board.Tile) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Type", Width: 10},
		{Title: "Size", Width: 7},
		{Title: "Position", Width: 9},
		{Title: "ID", Width: 36},
	}
	rows := make([]table.Row, len(tiles))
	for i, t := range tiles {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			string(t.Type),
			string(t.Size),
			t.Position.String(),
			t.ID,
		}
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
	)
	t.SetStyles(s)
	return t
}
