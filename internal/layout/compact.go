package layout

import (
	"cmp"
	"slices"

	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// Item is the part of a tile the packer needs.
type Item struct {
	ID        string
	Size      grid.Size
	CreatedAt int64
}

// Placement is the new position assigned to one item.
type Placement struct {
	ID       string
	Position grid.Position
}

// Result is the outcome of a compaction pass.
type Result struct {
	// Placements are ordered by creation time, oldest first.
	Placements []Placement
	// Dropped holds ids that could not be placed anywhere.
	// Always empty when the grid may grow.
	Dropped []string
	// Rows is the row count the placements need. Equal to cfg.Rows unless
	// dynamic extensions grew the grid.
	Rows int
}

// Compact packs items first-fit in row-major order, oldest first.
//
// Items are stable-sorted by CreatedAt so ties keep their input order. Each
// item takes the first origin whose footprint is free. An item that fits
// nowhere either grows the grid downward (cfg.DynamicExtensions) or is
// reported in Result.Dropped.
func Compact(cfg grid.Config, items []Item) Result {
	return compactInto(cfg, items, nil)
}

// CompactPinned is Compact with one item fixed in place. The pinned item's
// footprint is reserved first; the remaining items are packed around it in
// the usual order. The pinned position must be in bounds.
func CompactPinned(cfg grid.Config, items []Item, pinnedID string, at grid.Position) Result {
	var pinned *Item
	rest := make([]Item, 0, len(items))
	for i := range items {
		if items[i].ID == pinnedID && pinned == nil {
			pinned = &items[i]
			continue
		}
		rest = append(rest, items[i])
	}
	if pinned == nil {
		return Compact(cfg, items)
	}

	span := cfg.SpanOf(pinned.Size)
	reserved := grid.Footprint(at, span)
	if !cfg.InBounds(reserved) {
		return Compact(cfg, items)
	}

	packed := compactInto(cfg, rest, func(occ *Occupancy) { occ.Mark(reserved) })
	packed.Placements = insertByCreatedAt(packed.Placements, rest, Placement{ID: pinned.ID, Position: at}, pinned.CreatedAt)
	return packed
}

// compactInto runs the first-fit pass over an occupancy grid prepared by
// seed.
func compactInto(cfg grid.Config, items []Item, seed func(*Occupancy)) Result {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})

	occ := NewOccupancy(cfg.Columns, cfg.Rows)
	if seed != nil {
		seed(occ)
	}
	res := Result{
		Placements: make([]Placement, 0, len(sorted)+1),
		Rows:       cfg.Rows,
	}

	for _, it := range sorted {
		span := cfg.SpanOf(it.Size)
		if span.ColSpan > cfg.Columns {
			res.Dropped = append(res.Dropped, it.ID)
			continue
		}

		pos, ok := occ.FirstFit(span)
		if !ok && cfg.DynamicExtensions {
			occ.Grow(span.RowSpan)
			pos, ok = occ.FirstFit(span)
		}
		if !ok {
			res.Dropped = append(res.Dropped, it.ID)
			continue
		}

		occ.Mark(grid.Footprint(pos, span))
		res.Placements = append(res.Placements, Placement{ID: it.ID, Position: pos})
	}

	res.Rows = occ.H
	return res
}

// insertByCreatedAt inserts p into placements (sorted by the creation time
// of their items) after every entry created at or before createdAt.
func insertByCreatedAt(placements []Placement, items []Item, p Placement, createdAt int64) []Placement {
	created := make(map[string]int64, len(items))
	for _, it := range items {
		created[it.ID] = it.CreatedAt
	}
	idx := len(placements)
	for i, existing := range placements {
		if created[existing.ID] > createdAt {
			idx = i
			break
		}
	}
	return slices.Insert(placements, idx, p)
}
