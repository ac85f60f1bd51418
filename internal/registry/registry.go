// Package registry provides a global registry of dashboard widgets.
// Widgets register themselves in init() functions, allowing the platform
// to discover and render tile types without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// Widget renders the body of one tile type.
// Widgets hold no per-tile state; everything they need comes from the tile
// and the clock. The platform handles layout, input and borders.
type Widget interface {
	// Type returns the tile type this widget renders (e.g., "clock").
	Type() board.TileType

	// Title returns a human-readable name for the sidebar.
	Title() string

	// DefaultSize is the size a new tile of this type gets.
	DefaultSize() grid.Size

	// Render draws the tile body into area of dst. area is the interior of
	// the tile's border and may be very small.
	Render(dst *core.Screen, area core.Rect, tile board.Tile, now time.Time)
}

// Info contains metadata about a registered widget.
type Info struct {
	Type        board.TileType
	Title       string
	DefaultSize grid.Size
}

var (
	widgets = make(map[board.TileType]Widget)
	mu      sync.RWMutex
)

// Register adds a widget to the registry.
// Typically called from a widget's init() function.
// Panics if a widget for the same type is already registered.
func Register(w Widget) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := widgets[w.Type()]; exists {
		panic(fmt.Sprintf("registry: widget %q already registered", w.Type()))
	}
	widgets[w.Type()] = w
}

// List returns information about all registered widgets, sorted by type.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(widgets))
	for _, w := range widgets {
		result = append(result, infoOf(w))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})

	return result
}

// Lookup returns the widget for a tile type.
func Lookup(typ board.TileType) (Widget, bool) {
	mu.RLock()
	defer mu.RUnlock()

	w, ok := widgets[typ]
	return w, ok
}

// Exists checks if a widget for the given type is registered.
func Exists(typ board.TileType) bool {
	_, ok := Lookup(typ)
	return ok
}

func infoOf(w Widget) Info {
	return Info{Type: w.Type(), Title: w.Title(), DefaultSize: w.DefaultSize()}
}
