package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dashboard/internal/hub"
	"github.com/vovakirdan/tui-dashboard/internal/platform/tui"
)

var flagLogFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the dashboard in this terminal",
	Long: `Open the dashboard in this terminal. Changes are saved as they happen.

Controls:
  Tab          - Switch between catalog and board
  Up/Down      - Pick a widget (catalog) or tile (board)
  Enter        - Add or remove the picked widget
  M            - Move the selected tile with the arrow keys
  S            - Cycle the selected tile's size
  X            - Remove the selected tile
  C            - Compact the board
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Mouse:
  Drag a tile to move it, drag a catalog entry onto the board to add it.

Examples:
  dashboard run
  dashboard run --preset compact
  dashboard run --log-file /tmp/dashboard.log --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	w, closeLog, err := openLogFile(flagLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	e, err := loadEnv(w)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := e.open(ctx); err != nil {
		return err
	}
	defer e.close()

	h := hub.New(e.grid, e.kv, e.logger)
	defer h.Close()

	user := os.Getenv("USER")
	session, err := h.Attach(ctx, e.cfg.Storage.Key, user)
	if err != nil {
		return err
	}

	opts := e.viewOptions()
	if width, height, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		opts.Width = width
		opts.Height = height
	}
	return tui.Run(ctx, session, e.catalog(), opts)
}
