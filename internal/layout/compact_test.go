package layout

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

func items(sizes ...grid.Size) []Item {
	out := make([]Item, len(sizes))
	for i, s := range sizes {
		out[i] = Item{ID: fmt.Sprintf("t%d", i), Size: s, CreatedAt: int64(i + 1)}
	}
	return out
}

func positions(res Result) map[string]grid.Position {
	out := make(map[string]grid.Position, len(res.Placements))
	for _, p := range res.Placements {
		out[p.ID] = p.Position
	}
	return out
}

func TestCompactFirstFitRowMajor(t *testing.T) {
	cfg := grid.DefaultConfig()
	res := Compact(cfg, items(grid.SizeMedium, grid.SizeMedium, grid.SizeLarge, grid.SizeMedium))

	expected := []Placement{
		{"t0", grid.P(0, 0)},
		{"t1", grid.P(2, 0)},
		{"t2", grid.P(4, 0)},
		{"t3", grid.P(0, 1)},
	}
	if !slices.Equal(res.Placements, expected) {
		t.Errorf("Compact() = %v, expected %v", res.Placements, expected)
	}
	if len(res.Dropped) != 0 {
		t.Errorf("unexpected dropped: %v", res.Dropped)
	}
	if res.Rows != cfg.Rows {
		t.Errorf("Rows = %d, expected %d", res.Rows, cfg.Rows)
	}
}

func TestCompactFillsGapsLeftOfWideTile(t *testing.T) {
	cfg := grid.Config{Columns: 6, Rows: 2, TileSizes: grid.DefaultTileSizes()}
	// large(4) + large cannot share a row; the medium fills the gap at (4,0).
	res := Compact(cfg, items(grid.SizeLarge, grid.SizeLarge, grid.SizeMedium))

	got := positions(res)
	if got["t0"] != grid.P(0, 0) || got["t1"] != grid.P(0, 1) || got["t2"] != grid.P(4, 0) {
		t.Errorf("unexpected layout: %v", got)
	}
}

func TestCompactSortsByCreatedAtStable(t *testing.T) {
	cfg := grid.DefaultConfig()
	in := []Item{
		{ID: "late", Size: grid.SizeMedium, CreatedAt: 30},
		{ID: "tie-a", Size: grid.SizeMedium, CreatedAt: 10},
		{ID: "early", Size: grid.SizeMedium, CreatedAt: 5},
		{ID: "tie-b", Size: grid.SizeMedium, CreatedAt: 10},
	}

	res := Compact(cfg, in)
	order := make([]string, len(res.Placements))
	for i, p := range res.Placements {
		order[i] = p.ID
	}

	expected := []string{"early", "tie-a", "tie-b", "late"}
	if !slices.Equal(order, expected) {
		t.Errorf("order = %v, expected %v", order, expected)
	}
	if res.Placements[0].Position != grid.P(0, 0) {
		t.Errorf("oldest tile should be at origin, got %v", res.Placements[0].Position)
	}
}

func TestCompactDropsWhenFull(t *testing.T) {
	cfg := grid.Config{Columns: 4, Rows: 1, TileSizes: grid.DefaultTileSizes()}
	res := Compact(cfg, items(grid.SizeMedium, grid.SizeMedium, grid.SizeMedium))

	if len(res.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(res.Placements))
	}
	if !slices.Equal(res.Dropped, []string{"t2"}) {
		t.Errorf("Dropped = %v, expected [t2]", res.Dropped)
	}
	if res.Rows != 1 {
		t.Errorf("Rows = %d, expected 1", res.Rows)
	}
}

func TestCompactDynamicExtensionGrows(t *testing.T) {
	cfg := grid.Config{Columns: 4, Rows: 1, TileSizes: grid.DefaultTileSizes(), DynamicExtensions: true}
	res := Compact(cfg, items(grid.SizeMedium, grid.SizeMedium, grid.SizeMedium, grid.SizeLarge))

	if len(res.Dropped) != 0 {
		t.Fatalf("nothing should drop with dynamic extensions, got %v", res.Dropped)
	}
	got := positions(res)
	if got["t2"] != grid.P(0, 1) || got["t3"] != grid.P(0, 2) {
		t.Errorf("unexpected extended layout: %v", got)
	}
	if res.Rows != 3 {
		t.Errorf("Rows = %d, expected 3", res.Rows)
	}
}

func TestCompactDropsTileWiderThanGrid(t *testing.T) {
	cfg := grid.Config{
		Columns:           2,
		Rows:              4,
		TileSizes:         map[grid.Size]grid.Span{grid.SizeMedium: {1, 1}, grid.SizeLarge: {3, 1}},
		DynamicExtensions: true,
	}
	res := Compact(cfg, items(grid.SizeLarge))
	if !slices.Equal(res.Dropped, []string{"t0"}) {
		t.Errorf("Dropped = %v, expected [t0]", res.Dropped)
	}
}

func TestCompactEmpty(t *testing.T) {
	res := Compact(grid.DefaultConfig(), nil)
	if len(res.Placements) != 0 || len(res.Dropped) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

// randomItems builds a shuffled set of tiles whose total area is at most
// roughly fill times the grid capacity.
func randomItems(rng *rand.Rand, cfg grid.Config, fill float64) []Item {
	budget := int(float64(cfg.Columns*cfg.Rows) * fill)
	var out []Item
	for i := 0; budget > 0; i++ {
		size := grid.Sizes[rng.IntN(len(grid.Sizes))]
		span := cfg.SpanOf(size)
		budget -= span.ColSpan * span.RowSpan
		out = append(out, Item{
			ID:        fmt.Sprintf("r%d", i),
			Size:      size,
			CreatedAt: int64(rng.IntN(50)),
		})
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestCompactProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	configs := []grid.Config{
		grid.DefaultConfig(),
		{Columns: 7, Rows: 5, TileSizes: map[grid.Size]grid.Span{
			grid.SizeSmall:  {1, 1},
			grid.SizeMedium: {2, 2},
			grid.SizeLarge:  {3, 2},
		}},
	}

	for ci, cfg := range configs {
		for round := 0; round < 200; round++ {
			in := randomItems(rng, cfg, 0.5+rng.Float64()*0.8)
			res := Compact(cfg, in)

			sizeOf := make(map[string]grid.Size, len(in))
			createdOf := make(map[string]int64, len(in))
			for _, it := range in {
				sizeOf[it.ID] = it.Size
				createdOf[it.ID] = it.CreatedAt
			}

			// in-bounds and no-overlap
			occ := NewOccupancy(cfg.Columns, cfg.Rows)
			for _, p := range res.Placements {
				r := grid.Footprint(p.Position, cfg.SpanOf(sizeOf[p.ID]))
				if !cfg.InBounds(r) {
					t.Fatalf("config %d round %d: %s out of bounds at %v", ci, round, p.ID, p.Position)
				}
				if !occ.Fits(r) {
					t.Fatalf("config %d round %d: %s overlaps at %v", ci, round, p.ID, p.Position)
				}
				occ.Mark(r)
			}

			// every input is either placed or dropped
			if len(res.Placements)+len(res.Dropped) != len(in) {
				t.Fatalf("config %d round %d: %d placed + %d dropped != %d", ci, round, len(res.Placements), len(res.Dropped), len(in))
			}

			// order stability
			for i := 1; i < len(res.Placements); i++ {
				if createdOf[res.Placements[i-1].ID] > createdOf[res.Placements[i].ID] {
					t.Fatalf("config %d round %d: placements not in createdAt order", ci, round)
				}
			}

			// idempotence: compacting the survivors again is a fixed point
			survivors := make([]Item, len(res.Placements))
			for i, p := range res.Placements {
				survivors[i] = Item{ID: p.ID, Size: sizeOf[p.ID], CreatedAt: createdOf[p.ID]}
			}
			again := Compact(cfg, survivors)
			if !slices.Equal(again.Placements, res.Placements) || len(again.Dropped) != 0 {
				t.Fatalf("config %d round %d: compaction not idempotent", ci, round)
			}
		}
	}
}

func TestOccupancyFirstFit(t *testing.T) {
	occ := NewOccupancy(4, 2)
	occ.Mark(grid.Footprint(grid.P(0, 0), grid.Span{ColSpan: 3, RowSpan: 1}))

	pos, ok := occ.FirstFit(grid.Span{ColSpan: 2, RowSpan: 1})
	if !ok || pos != grid.P(0, 1) {
		t.Errorf("FirstFit = %v, %v; expected (0,1), true", pos, ok)
	}

	pos, ok = occ.FirstFit(grid.Span{ColSpan: 1, RowSpan: 1})
	if !ok || pos != grid.P(3, 0) {
		t.Errorf("FirstFit 1x1 = %v, %v; expected (3,0), true", pos, ok)
	}

	if occ.FreeCount() != 5 {
		t.Errorf("FreeCount = %d, expected 5", occ.FreeCount())
	}

	if _, ok := occ.FirstFit(grid.Span{ColSpan: 1, RowSpan: 3}); ok {
		t.Error("span taller than grid should not fit")
	}

	occ.Grow(1)
	if occ.H != 3 || occ.Taken(0, 2) {
		t.Errorf("Grow: H=%d, taken(0,2)=%v", occ.H, occ.Taken(0, 2))
	}
	if !occ.Taken(-1, 0) {
		t.Error("out-of-bounds cells count as taken")
	}
}

func TestCompactPinnedKeepsTarget(t *testing.T) {
	cfg := grid.DefaultConfig()
	in := items(grid.SizeMedium, grid.SizeMedium, grid.SizeMedium)

	// t2 dropped onto t0's slot: t2 stays, the others flow around it.
	res := CompactPinned(cfg, in, "t2", grid.P(0, 0))
	got := positions(res)
	if got["t2"] != grid.P(0, 0) {
		t.Errorf("pinned tile moved to %v", got["t2"])
	}
	if got["t0"] != grid.P(2, 0) || got["t1"] != grid.P(4, 0) {
		t.Errorf("unexpected layout: %v", got)
	}

	order := make([]string, len(res.Placements))
	for i, p := range res.Placements {
		order[i] = p.ID
	}
	if !slices.Equal(order, []string{"t0", "t1", "t2"}) {
		t.Errorf("order = %v, expected creation order", order)
	}
}

func TestCompactPinnedFallsBack(t *testing.T) {
	cfg := grid.DefaultConfig()
	in := items(grid.SizeMedium, grid.SizeLarge)

	unknown := CompactPinned(cfg, in, "nope", grid.P(4, 4))
	if !slices.Equal(unknown.Placements, Compact(cfg, in).Placements) {
		t.Error("unknown pinned id should behave like Compact")
	}

	outside := CompactPinned(cfg, in, "t1", grid.P(6, 0))
	if !slices.Equal(outside.Placements, Compact(cfg, in).Placements) {
		t.Error("out-of-bounds pin should behave like Compact")
	}
}
