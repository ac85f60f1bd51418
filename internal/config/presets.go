package config

import "fmt"

// LayoutPreset represents a named grid density.
type LayoutPreset string

const (
	PresetCompact  LayoutPreset = "compact"
	PresetStandard LayoutPreset = "standard"
	PresetWide     LayoutPreset = "wide"
	PresetGrowing  LayoutPreset = "growing"
)

// Presets lists every preset in display order.
var Presets = []LayoutPreset{PresetCompact, PresetStandard, PresetWide, PresetGrowing}

// ParsePreset validates a preset name.
func ParsePreset(name string) (LayoutPreset, error) {
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown layout preset %q", name)
}

// ApplyPreset modifies the config based on a layout preset.
func ApplyPreset(cfg *DashboardConfig, preset LayoutPreset) {
	switch preset {
	case PresetCompact:
		cfg.Grid.Columns = 6
		cfg.Grid.Rows = 8
		cfg.UI.CellWidth = 10
		cfg.UI.CellHeight = 4
	case PresetStandard:
		cfg.Grid.Columns = 8
		cfg.Grid.Rows = 12
		cfg.UI.CellWidth = 12
		cfg.UI.CellHeight = 5
	case PresetWide:
		cfg.Grid.Columns = 12
		cfg.Grid.Rows = 12
		cfg.UI.CellWidth = 10
		cfg.UI.CellHeight = 5
	case PresetGrowing:
		cfg.Grid.Columns = 8
		cfg.Grid.Rows = 4
		cfg.Features.DynamicExtensions = true
		cfg.Grid.Collision = "compact"
	}
}
