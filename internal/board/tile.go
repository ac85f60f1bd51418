// Package board holds the authoritative list of tiles on a dashboard and
// keeps it overlap-free and inside the grid.
package board

import (
	"encoding/json"
	"slices"

	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
	"github.com/vovakirdan/tui-dashboard/internal/layout"
)

// TileType names the widget a tile shows. The board never interprets it.
type TileType string

// Tile is one placed widget instance.
type Tile struct {
	ID        string          `json:"id"`
	Type      TileType        `json:"type"`
	Position  grid.Position   `json:"position"`
	Size      grid.Size       `json:"size"`
	Config    json.RawMessage `json:"config"`
	CreatedAt int64           `json:"createdAt"`
}

// Clone returns a copy that shares no memory with t.
func (t Tile) Clone() Tile {
	t.Config = slices.Clone(t.Config)
	return t
}

// Rect returns the cells the tile covers under cfg.
func (t Tile) Rect(cfg grid.Config) core.Rect {
	return grid.Footprint(t.Position, cfg.SpanOf(t.Size))
}

func (t Tile) item() layout.Item {
	return layout.Item{ID: t.ID, Size: t.Size, CreatedAt: t.CreatedAt}
}

// Patch lists the fields UpdateTile may change. Nil fields are kept.
type Patch struct {
	Type   *TileType
	Size   *grid.Size
	Config json.RawMessage
}

// Change is delivered to observers after every published snapshot.
type Change struct {
	// Tiles is the new snapshot. Observers must not modify it.
	Tiles []Tile
	// Dropped are tiles a compaction pass could not place.
	Dropped []Tile
	// Rows is the effective row count; larger than the configured rows only
	// when dynamic extensions grew the grid.
	Rows int
	// Seq increases with every published snapshot of a store. Observers may
	// run concurrently, so a higher Seq is the newer board.
	Seq uint64
}

func cloneTiles(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		out[i] = t.Clone()
	}
	return out
}
