// Package config provides YAML and TOML dashboard configuration loading and
// layout presets.
package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// DashboardConfig contains all configuration for a dashboard.
type DashboardConfig struct {
	Grid     GridConfig     `yaml:"grid" toml:"grid"`
	Features FeatureConfig  `yaml:"features" toml:"features"`
	Catalog  []CatalogEntry `yaml:"catalog" toml:"catalog"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	UI       UIConfig       `yaml:"ui" toml:"ui"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// GridConfig defines the grid extent and tile footprints.
type GridConfig struct {
	Columns   int                  `yaml:"columns" toml:"columns"`
	Rows      int                  `yaml:"rows" toml:"rows"`
	Sizes     map[string]grid.Span `yaml:"sizes" toml:"sizes"`
	Collision string               `yaml:"collision" toml:"collision"` // "reject" or "compact"
}

// FeatureConfig toggles optional board behaviors.
type FeatureConfig struct {
	Movement          bool `yaml:"movement" toml:"movement"`
	Removable         bool `yaml:"removable" toml:"removable"`
	DynamicExtensions bool `yaml:"dynamic_extensions" toml:"dynamic_extensions"`
	DragOutOfBounds   bool `yaml:"drag_out_of_bounds" toml:"drag_out_of_bounds"`
}

// CatalogEntry selects a widget type for the sidebar and optionally
// overrides its default size.
type CatalogEntry struct {
	Type string `yaml:"type" toml:"type"`
	Size string `yaml:"size" toml:"size"`
}

// StorageConfig defines where boards are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn" toml:"dsn"` // sqlite:<path>, file:<dir>, redis://..., memory:
	Key string `yaml:"key" toml:"key"`
}

// UIConfig defines terminal rendering parameters.
type UIConfig struct {
	CellWidth    int `yaml:"cell_width" toml:"cell_width"`   // terminal columns per grid column
	CellHeight   int `yaml:"cell_height" toml:"cell_height"` // terminal rows per grid row
	SidebarWidth int `yaml:"sidebar_width" toml:"sidebar_width"`
	TickRate     int `yaml:"tick_rate" toml:"tick_rate"` // widget refreshes per second
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Host        string `yaml:"host" toml:"host"`
	Port        int    `yaml:"port" toml:"port"`
	HostKeyPath string `yaml:"host_key_path" toml:"host_key_path"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// GridSpec builds the validated grid configuration.
func (c DashboardConfig) GridSpec() (grid.Config, error) {
	sizes := make(map[grid.Size]grid.Span, len(c.Grid.Sizes))
	for name, span := range c.Grid.Sizes {
		size, ok := grid.ParseSize(name)
		if !ok {
			return grid.Config{}, fmt.Errorf("config: unknown tile size %q", name)
		}
		sizes[size] = span
	}
	if len(sizes) == 0 {
		sizes = grid.DefaultTileSizes()
	}

	collision := grid.CollisionPolicy(strings.ToLower(strings.TrimSpace(c.Grid.Collision)))
	if collision == "" {
		collision = grid.CollisionReject
	}

	cfg := grid.Config{
		Columns:              c.Grid.Columns,
		Rows:                 c.Grid.Rows,
		TileSizes:            sizes,
		MovementEnabled:      c.Features.Movement,
		Removable:            c.Features.Removable,
		DynamicExtensions:    c.Features.DynamicExtensions,
		AllowDragOutOfBounds: c.Features.DragOutOfBounds,
		Collision:            collision,
	}
	if err := cfg.Validate(); err != nil {
		return grid.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// CatalogSize returns the configured size for a widget type, if any.
func (c DashboardConfig) CatalogSize(typ string) (grid.Size, bool) {
	for _, e := range c.Catalog {
		if e.Type == typ && e.Size != "" {
			return grid.ParseSize(e.Size)
		}
	}
	return "", false
}

// CatalogTypes returns the configured sidebar order. Empty means every
// registered widget.
func (c DashboardConfig) CatalogTypes() []string {
	types := make([]string, 0, len(c.Catalog))
	for _, e := range c.Catalog {
		types = append(types, e.Type)
	}
	return types
}
