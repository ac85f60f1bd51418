// dashboard is a terminal dashboard of widget tiles on a grid.
//
// Usage:
//
//	dashboard run              - Open the dashboard in this terminal
//	dashboard serve            - Serve one dashboard per user over SSH
//	dashboard catalog          - List available widgets
//	dashboard tiles            - Print the stored board
//	dashboard compact          - Re-pack the stored board
//	dashboard reset            - Delete the stored board
//	dashboard history          - Browse and restore earlier boards (sqlite)
//
// Global flags:
//
//	--config <path>     - Dashboard config (YAML or TOML)
//	--store <dsn>       - Storage: sqlite:<path>, file:<dir>, redis://..., memory:
//	--key <key>         - Storage key of the board
//	--preset <name>     - Layout preset: compact, standard, wide, growing
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import widgets to register them
	_ "github.com/vovakirdan/tui-dashboard/internal/widgets"
)

var (
	// Global flags
	flagConfig   string
	flagStore    string
	flagKey      string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal dashboard - arrange widget tiles on a grid",
	Long: `Dashboard shows clock, date, weather, exchange rate and market widgets
as tiles on a grid. Tiles are added from the sidebar catalog and moved by
dragging them with the mouse or the keyboard; the board re-packs itself
whenever tiles are added or removed.

Examples:
  dashboard run
  dashboard run --preset wide --store file:~/.dashboard/boards
  dashboard serve --store redis://localhost:6379/0
  dashboard tiles --key dashboard-tiles:alice
  dashboard history`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to dashboard config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage DSN (default from config: sqlite:~/.dashboard/dashboard.db)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "Storage key of the board (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Layout preset: compact, standard, wide, growing")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(tilesCmd)
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
}
