package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

//go:embed defaults/dashboard.yaml
var defaultDashboardYAML []byte

// DefaultDashboardConfig returns the default dashboard configuration.
func DefaultDashboardConfig() DashboardConfig {
	sizes := make(map[string]grid.Span)
	for size, span := range grid.DefaultTileSizes() {
		sizes[string(size)] = span
	}

	return DashboardConfig{
		Grid: GridConfig{
			Columns:   8,
			Rows:      12,
			Sizes:     sizes,
			Collision: string(grid.CollisionReject),
		},
		Features: FeatureConfig{
			Movement:          true,
			Removable:         true,
			DynamicExtensions: false,
			DragOutOfBounds:   false,
		},
		Storage: StorageConfig{
			DSN: "sqlite:~/.dashboard/dashboard.db",
			Key: board.DefaultStorageKey,
		},
		UI: UIConfig{
			CellWidth:    12,
			CellHeight:   5,
			SidebarWidth: 22,
			TickRate:     1,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: ".ssh/dashboard_ed25519",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
