package registry

import (
	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// Catalog is the ordered list of widget types offered in the sidebar.
type Catalog struct {
	entries []Info
}

// NewCatalog builds a catalog from the registry.
//
// order selects and orders the types; unregistered types are skipped and
// an empty order means every registered widget. sizes overrides the default
// size per type.
func NewCatalog(order []board.TileType, sizes map[board.TileType]grid.Size) *Catalog {
	var entries []Info
	if len(order) == 0 {
		entries = List()
	} else {
		seen := make(map[board.TileType]bool, len(order))
		for _, typ := range order {
			w, ok := Lookup(typ)
			if !ok || seen[typ] {
				continue
			}
			seen[typ] = true
			entries = append(entries, infoOf(w))
		}
	}

	for i := range entries {
		if size, ok := sizes[entries[i].Type]; ok {
			entries[i].DefaultSize = size
		}
	}
	return &Catalog{entries: entries}
}

// Entries returns the catalog in display order.
func (c *Catalog) Entries() []Info {
	return append([]Info(nil), c.entries...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// At returns the entry at index i.
func (c *Catalog) At(i int) (Info, bool) {
	if i < 0 || i >= len(c.entries) {
		return Info{}, false
	}
	return c.entries[i], true
}

// Find returns the entry for typ.
func (c *Catalog) Find(typ board.TileType) (Info, bool) {
	for _, e := range c.entries {
		if e.Type == typ {
			return e, true
		}
	}
	return Info{}, false
}

// DefaultSize returns the size a new tile of typ gets. Types outside the
// catalog are medium.
func (c *Catalog) DefaultSize(typ board.TileType) grid.Size {
	if e, ok := c.Find(typ); ok && e.DefaultSize != "" {
		return e.DefaultSize
	}
	return grid.SizeMedium
}
