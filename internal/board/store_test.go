package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// newTestStore returns a store with a frozen clock and sequential ids so
// stamps and ids are predictable.
func newTestStore(cfg grid.Config) *Store {
	n := 0
	return NewStore(cfg,
		WithClock(func() time.Time { return time.UnixMilli(1_000) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("tile-%d", n)
		}),
		WithLogger(log.New(io.Discard)),
	)
}

func assertValid(t *testing.T, s *Store) {
	t.Helper()
	if !validLayout(s.Config(), s.Tiles()) {
		t.Fatalf("board breaks layout invariants: %+v", s.Tiles())
	}
}

func positionsOf(s *Store) map[string]grid.Position {
	out := make(map[string]grid.Position)
	for _, t := range s.Tiles() {
		out[t.ID] = t.Position
	}
	return out
}

func mustAdd(t *testing.T, s *Store, typ TileType, size grid.Size) Tile {
	t.Helper()
	tile, err := s.AddTileOfType(typ, size)
	if err != nil {
		t.Fatalf("AddTileOfType(%s, %s) error: %v", typ, size, err)
	}
	return tile
}

func TestAddThenRemoveCompacts(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())

	c := mustAdd(t, s, "clock", grid.SizeMedium)
	m := mustAdd(t, s, "market", grid.SizeMedium)
	w := mustAdd(t, s, "weather", grid.SizeMedium)

	got := positionsOf(s)
	if got[c.ID] != grid.P(0, 0) || got[m.ID] != grid.P(2, 0) || got[w.ID] != grid.P(4, 0) {
		t.Fatalf("after adds: %v", got)
	}

	if !s.RemoveTile(c.ID) {
		t.Fatal("RemoveTile returned false")
	}
	got = positionsOf(s)
	if len(got) != 2 || got[m.ID] != grid.P(0, 0) || got[w.ID] != grid.P(2, 0) {
		t.Errorf("after remove: %v", got)
	}
	assertValid(t, s)
}

func TestRemoveNonAdjacentKeepsCreationOrder(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())

	var added []Tile
	for i := 0; i < 5; i++ {
		added = append(added, mustAdd(t, s, TileType(fmt.Sprintf("w%d", i)), grid.SizeMedium))
	}
	if added[4].Position != grid.P(0, 1) {
		t.Fatalf("fifth tile at %v, expected (0,1)", added[4].Position)
	}

	s.RemoveTile(added[1].ID)
	s.RemoveTile(added[3].ID)

	tiles := s.Tiles()
	ids := make([]string, len(tiles))
	for i, tile := range tiles {
		ids[i] = tile.ID
	}
	if !slices.Equal(ids, []string{added[0].ID, added[2].ID, added[4].ID}) {
		t.Fatalf("survivors = %v", ids)
	}
	expected := []grid.Position{grid.P(0, 0), grid.P(2, 0), grid.P(4, 0)}
	for i, tile := range tiles {
		if tile.Position != expected[i] {
			t.Errorf("%s at %v, expected %v", tile.ID, tile.Position, expected[i])
		}
	}
}

func TestCreatedAtStrictlyIncreases(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := s.NewTile("clock", grid.SizeSmall, grid.P(0, 0))
	b := s.NewTile("clock", grid.SizeSmall, grid.P(0, 0))
	c := mustAdd(t, s, "clock", grid.SizeSmall)

	if !(a.CreatedAt < b.CreatedAt && b.CreatedAt < c.CreatedAt) {
		t.Errorf("stamps not increasing: %d %d %d", a.CreatedAt, b.CreatedAt, c.CreatedAt)
	}
	if a.ID == b.ID {
		t.Error("ids must be unique")
	}
}

func TestAddTileDuplicateIDPanics(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	tile := mustAdd(t, s, "clock", grid.SizeSmall)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate id")
		}
	}()
	s.AddTile(Tile{ID: tile.ID, Type: "date", Size: grid.SizeSmall})
}

func TestAddTileRelocatesWhenOccupied(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())

	first, ok := s.AddTile(Tile{Type: "clock", Size: grid.SizeMedium, Position: grid.P(0, 0)})
	if !ok || first.Position != grid.P(0, 0) {
		t.Fatalf("first AddTile = %+v, %v", first, ok)
	}

	second, ok := s.AddTile(Tile{Type: "date", Size: grid.SizeMedium, Position: grid.P(1, 0)})
	if !ok {
		t.Fatal("second AddTile should find a slot")
	}
	if second.Position != grid.P(2, 0) {
		t.Errorf("relocated to %v, expected (2,0)", second.Position)
	}

	outside, ok := s.AddTile(Tile{Type: "rates", Size: grid.SizeLarge, Position: grid.P(6, 30)})
	if !ok || outside.Position != grid.P(4, 0) {
		t.Errorf("out-of-bounds tile placed at %v, %v", outside.Position, ok)
	}
	assertValid(t, s)
}

func TestAddTileDroppedWhenFull(t *testing.T) {
	cfg := grid.Config{Columns: 4, Rows: 1, TileSizes: grid.DefaultTileSizes(), Removable: true}
	s := newTestStore(cfg)

	var changes []Change
	s.OnChange(func(ch Change) { changes = append(changes, ch) })

	mustAdd(t, s, "a", grid.SizeMedium)
	mustAdd(t, s, "b", grid.SizeMedium)

	dropped, ok := s.AddTile(Tile{Type: "c", Size: grid.SizeMedium})
	if ok {
		t.Fatal("AddTile on a full board should fail")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, expected 2", s.Len())
	}

	last := changes[len(changes)-1]
	if len(last.Dropped) != 1 || last.Dropped[0].ID != dropped.ID {
		t.Errorf("observers should see the dropped tile, got %+v", last.Dropped)
	}
}

func TestAddTileOfTypeNoSpace(t *testing.T) {
	cfg := grid.Config{Columns: 4, Rows: 1, TileSizes: grid.DefaultTileSizes()}
	s := newTestStore(cfg)

	mustAdd(t, s, "a", grid.SizeLarge)
	_, err := s.AddTileOfType("b", grid.SizeSmall)
	if !errors.Is(err, ErrNoSpace) {
		t.Errorf("expected ErrNoSpace, got %v", err)
	}
}

func TestAddTileOfTypeGrowsGrid(t *testing.T) {
	cfg := grid.Config{Columns: 4, Rows: 1, TileSizes: grid.DefaultTileSizes(), DynamicExtensions: true, Removable: true}
	s := newTestStore(cfg)

	mustAdd(t, s, "a", grid.SizeLarge)
	b := mustAdd(t, s, "b", grid.SizeMedium)
	if b.Position != grid.P(0, 1) {
		t.Errorf("b at %v, expected (0,1)", b.Position)
	}
	if s.Config().Rows != 2 {
		t.Errorf("Rows = %d, expected 2", s.Config().Rows)
	}

	s.RemoveTile(b.ID)
	if s.Config().Rows != 1 {
		t.Errorf("Rows after remove = %d, expected grid to shrink back to 1", s.Config().Rows)
	}
}

func TestUpdateTile(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := mustAdd(t, s, "clock", grid.SizeMedium)
	b := mustAdd(t, s, "date", grid.SizeMedium)

	typ := TileType("rates")
	cfgJSON := json.RawMessage(`{"pair":"EURUSD"}`)
	if !s.UpdateTile(b.ID, Patch{Type: &typ, Config: cfgJSON}) {
		t.Fatal("UpdateTile returned false")
	}
	got, _ := s.Tile(b.ID)
	if got.Type != "rates" || string(got.Config) != `{"pair":"EURUSD"}` || got.Position != b.Position {
		t.Errorf("UpdateTile merged wrongly: %+v", got)
	}

	// large no longer fits at (0,0) next to b, so the board is re-packed.
	large := grid.SizeLarge
	s.UpdateTile(a.ID, Patch{Size: &large})
	assertValid(t, s)
	got, _ = s.Tile(a.ID)
	if got.Size != grid.SizeLarge {
		t.Errorf("size = %s, expected large", got.Size)
	}

	if s.UpdateTile("missing", Patch{Type: &typ}) {
		t.Error("UpdateTile on unknown id should be a no-op")
	}
}

func TestUpdateTileKeepsPositionWhenStillFits(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := mustAdd(t, s, "clock", grid.SizeMedium)

	small := grid.SizeSmall
	s.UpdateTile(a.ID, Patch{Size: &small})
	got, _ := s.Tile(a.ID)
	if got.Position != a.Position || got.Size != grid.SizeSmall {
		t.Errorf("got %+v", got)
	}
}

func TestMoveTile(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := mustAdd(t, s, "clock", grid.SizeMedium)
	b := mustAdd(t, s, "date", grid.SizeMedium)

	tests := []struct {
		name     string
		id       string
		pos      grid.Position
		ok       bool
		expected grid.Position
	}{
		{"free cell", a.ID, grid.P(0, 3), true, grid.P(0, 3)},
		{"same cell", a.ID, grid.P(0, 3), true, grid.P(0, 3)},
		{"overlap refused", a.ID, grid.P(2, 0), false, grid.P(0, 3)},
		{"partial overlap refused", a.ID, grid.P(3, 0), false, grid.P(0, 3)},
		{"out of bounds refused", a.ID, grid.P(7, 0), false, grid.P(0, 3)},
		{"unknown id", "missing", grid.P(0, 0), false, grid.P(0, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if ok := s.MoveTile(tc.id, tc.pos); ok != tc.ok {
				t.Errorf("MoveTile = %v, expected %v", ok, tc.ok)
			}
			got, _ := s.Tile(a.ID)
			if got.Position != tc.expected {
				t.Errorf("a at %v, expected %v", got.Position, tc.expected)
			}
			assertValid(t, s)
		})
	}

	got, _ := s.Tile(b.ID)
	if got.Position != b.Position {
		t.Errorf("b moved to %v", got.Position)
	}
}

func TestMoveAndCompact(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := mustAdd(t, s, "a", grid.SizeMedium)
	b := mustAdd(t, s, "b", grid.SizeMedium)
	c := mustAdd(t, s, "c", grid.SizeMedium)

	if !s.MoveAndCompact(c.ID, grid.P(0, 0)) {
		t.Fatal("MoveAndCompact returned false")
	}
	got := positionsOf(s)
	if got[c.ID] != grid.P(0, 0) || got[a.ID] != grid.P(2, 0) || got[b.ID] != grid.P(4, 0) {
		t.Errorf("unexpected layout: %v", got)
	}
	assertValid(t, s)

	if s.MoveAndCompact(c.ID, grid.P(7, 0)) {
		t.Error("out-of-bounds target should be refused")
	}
	if s.MoveAndCompact("missing", grid.P(0, 0)) {
		t.Error("unknown id should be refused")
	}
}

func TestPlaceAndCompactNewTile(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := mustAdd(t, s, "a", grid.SizeMedium)

	tile := s.NewTile("b", grid.SizeMedium, grid.P(0, 0))
	if !s.PlaceAndCompact(tile) {
		t.Fatal("PlaceAndCompact returned false")
	}
	got := positionsOf(s)
	if got[tile.ID] != grid.P(0, 0) || got[a.ID] != grid.P(2, 0) {
		t.Errorf("unexpected layout: %v", got)
	}
}

func TestReorderTiles(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	a := mustAdd(t, s, "a", grid.SizeMedium)
	b := mustAdd(t, s, "b", grid.SizeMedium)

	tiles := s.Tiles()
	slices.Reverse(tiles)
	s.ReorderTiles(tiles)

	got := s.Tiles()
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("order not applied: %v", got)
	}
	if got[0].Position != b.Position || got[1].Position != a.Position {
		t.Error("reorder must not move tiles")
	}

	// Overlapping input is normalised.
	s.ReorderTiles([]Tile{
		{ID: "x", Type: "x", Size: grid.SizeLarge, CreatedAt: 1},
		{ID: "y", Type: "y", Size: grid.SizeLarge, CreatedAt: 2, Position: grid.P(2, 0)},
		{ID: "y", Type: "dup", Size: grid.SizeSmall, CreatedAt: 3},
	})
	assertValid(t, s)
	if s.Len() != 2 {
		t.Errorf("duplicate id should be dropped, Len = %d", s.Len())
	}
}

func TestRemoveTileNoOps(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	mustAdd(t, s, "a", grid.SizeMedium)

	calls := 0
	s.OnChange(func(Change) { calls++ })

	if s.RemoveTile("missing") {
		t.Error("RemoveTile on unknown id should return false")
	}
	if calls != 0 {
		t.Errorf("no-op should not notify, got %d calls", calls)
	}

	cfg := grid.DefaultConfig()
	cfg.Removable = false
	locked := newTestStore(cfg)
	tile := mustAdd(t, locked, "a", grid.SizeMedium)
	if locked.RemoveTile(tile.ID) || locked.Len() != 1 {
		t.Error("RemoveTile must respect Removable=false")
	}
}

func TestToggleTile(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())

	added, err := s.ToggleTile("clock", grid.SizeSmall)
	if err != nil || !added {
		t.Fatalf("first toggle = %v, %v", added, err)
	}
	if !s.IsTileActive("clock") {
		t.Error("clock should be active")
	}

	mustAdd(t, s, "date", grid.SizeMedium)
	mustAdd(t, s, "clock", grid.SizeSmall)

	added, err = s.ToggleTile("clock", grid.SizeSmall)
	if err != nil || added {
		t.Fatalf("second toggle = %v, %v", added, err)
	}
	if s.IsTileActive("clock") {
		t.Error("every clock tile should be removed")
	}
	if tiles := s.Tiles(); len(tiles) != 1 || tiles[0].Position != grid.P(0, 0) {
		t.Errorf("remaining tiles not compacted: %+v", tiles)
	}

	cfg := grid.DefaultConfig()
	cfg.Removable = false
	locked := newTestStore(cfg)
	locked.ToggleTile("clock", grid.SizeSmall)
	if _, err := locked.ToggleTile("clock", grid.SizeSmall); !errors.Is(err, ErrNotRemovable) {
		t.Errorf("expected ErrNotRemovable, got %v", err)
	}
}

func TestOnChangeCancel(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())

	calls := 0
	cancel := s.OnChange(func(ch Change) {
		calls++
		if len(ch.Tiles) != calls {
			t.Errorf("snapshot has %d tiles, expected %d", len(ch.Tiles), calls)
		}
	})
	mustAdd(t, s, "a", grid.SizeSmall)
	mustAdd(t, s, "b", grid.SizeSmall)
	cancel()
	mustAdd(t, s, "c", grid.SizeSmall)

	if calls != 2 {
		t.Errorf("calls = %d, expected 2", calls)
	}
}

func TestTilesReturnsCopy(t *testing.T) {
	s := newTestStore(grid.DefaultConfig())
	tile, _ := s.AddTile(Tile{Type: "a", Size: grid.SizeSmall, Config: json.RawMessage(`{"k":1}`)})

	tiles := s.Tiles()
	tiles[0].Position = grid.P(5, 5)
	tiles[0].Config[2] = 'X'

	got, _ := s.Tile(tile.ID)
	if got.Position != grid.P(0, 0) || string(got.Config) != `{"k":1}` {
		t.Errorf("store was mutated through a snapshot copy: %+v", got)
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	types := []TileType{"clock", "date", "market", "rates", "weather"}

	for _, dynamic := range []bool{false, true} {
		cfg := grid.Config{Columns: 6, Rows: 3, TileSizes: grid.DefaultTileSizes(), Removable: true, DynamicExtensions: dynamic}
		s := newTestStore(cfg)

		for step := 0; step < 500; step++ {
			tiles := s.Tiles()
			pick := func() string {
				if len(tiles) == 0 {
					return "missing"
				}
				return tiles[rng.IntN(len(tiles))].ID
			}
			size := grid.Sizes[rng.IntN(len(grid.Sizes))]
			pos := grid.P(rng.IntN(8)-1, rng.IntN(5)-1)

			switch rng.IntN(7) {
			case 0:
				s.AddTileOfType(types[rng.IntN(len(types))], size)
			case 1:
				s.AddTile(Tile{Type: types[rng.IntN(len(types))], Size: size, Position: pos})
			case 2:
				s.RemoveTile(pick())
			case 3:
				s.MoveTile(pick(), pos)
			case 4:
				s.MoveAndCompact(pick(), pos)
			case 5:
				s.UpdateTile(pick(), Patch{Size: &size})
			case 6:
				s.Compact()
			}

			if !validLayout(s.Config(), s.Tiles()) {
				t.Fatalf("dynamic=%v step %d: invariants broken: %+v", dynamic, step, s.Tiles())
			}
		}
	}
}
