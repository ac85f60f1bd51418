package registry

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

type stubWidget struct {
	typ  board.TileType
	size grid.Size
}

func (w stubWidget) Type() board.TileType   { return w.typ }
func (w stubWidget) Title() string          { return "Stub " + string(w.typ) }
func (w stubWidget) DefaultSize() grid.Size { return w.size }
func (w stubWidget) Render(dst *core.Screen, area core.Rect, _ board.Tile, _ time.Time) {
	dst.DrawTextIn(area, area.Y, string(w.typ), core.ColorDefault, false)
}

// withRegistry swaps in an isolated registry for the duration of a test.
func withRegistry(t *testing.T, ws ...Widget) {
	t.Helper()
	mu.Lock()
	saved := widgets
	widgets = make(map[board.TileType]Widget)
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		widgets = saved
		mu.Unlock()
	})
	for _, w := range ws {
		Register(w)
	}
}

func TestRegisterAndList(t *testing.T) {
	withRegistry(t,
		stubWidget{"weather", grid.SizeMedium},
		stubWidget{"clock", grid.SizeSmall},
	)

	list := List()
	if len(list) != 2 || list[0].Type != "clock" || list[1].Type != "weather" {
		t.Fatalf("List() = %+v", list)
	}
	if list[0].Title != "Stub clock" || list[0].DefaultSize != grid.SizeSmall {
		t.Errorf("unexpected info: %+v", list[0])
	}

	if !Exists("clock") || Exists("radar") {
		t.Error("Exists() mismatch")
	}
	if w, ok := Lookup("weather"); !ok || w.Type() != "weather" {
		t.Errorf("Lookup(weather) = %v, %v", w, ok)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	withRegistry(t, stubWidget{"clock", grid.SizeSmall})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(stubWidget{"clock", grid.SizeLarge})
}

func TestCatalog(t *testing.T) {
	withRegistry(t,
		stubWidget{"clock", grid.SizeSmall},
		stubWidget{"market", grid.SizeLarge},
		stubWidget{"rates", grid.SizeMedium},
	)

	all := NewCatalog(nil, nil)
	if all.Len() != 3 {
		t.Errorf("empty order should list every widget, got %d", all.Len())
	}

	c := NewCatalog(
		[]board.TileType{"market", "missing", "clock", "market"},
		map[board.TileType]grid.Size{"clock": grid.SizeMedium},
	)
	entries := c.Entries()
	if len(entries) != 2 || entries[0].Type != "market" || entries[1].Type != "clock" {
		t.Fatalf("Entries() = %+v", entries)
	}

	tests := []struct {
		typ      board.TileType
		expected grid.Size
	}{
		{"market", grid.SizeLarge},
		{"clock", grid.SizeMedium},
		{"rates", grid.SizeMedium},
		{"unknown", grid.SizeMedium},
	}
	for _, tc := range tests {
		if got := c.DefaultSize(tc.typ); got != tc.expected {
			t.Errorf("DefaultSize(%s) = %s, expected %s", tc.typ, got, tc.expected)
		}
	}

	if _, ok := c.At(5); ok {
		t.Error("At() out of range should fail")
	}
}
