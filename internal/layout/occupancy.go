// Package layout packs dashboard tiles into a gap-free, overlap-free,
// deterministic arrangement.
package layout

import (
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// Occupancy tracks which grid cells are taken.
// Cells are stored in row-major order: index = y*W + x.
type Occupancy struct {
	W     int
	H     int
	cells []bool
}

// NewOccupancy creates an all-free occupancy grid.
func NewOccupancy(w, h int) *Occupancy {
	return &Occupancy{
		W:     w,
		H:     h,
		cells: make([]bool, w*h),
	}
}

func (o *Occupancy) index(x, y int) int {
	return y*o.W + x
}

// Taken reports whether a single cell is occupied.
// Out-of-bounds cells count as taken.
func (o *Occupancy) Taken(x, y int) bool {
	if x < 0 || x >= o.W || y < 0 || y >= o.H {
		return true
	}
	return o.cells[o.index(x, y)]
}

// Fits reports whether every cell of r is in bounds and free.
func (o *Occupancy) Fits(r core.Rect) bool {
	if r.X < 0 || r.Y < 0 || r.Right() > o.W || r.Bottom() > o.H {
		return false
	}
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if o.cells[o.index(x, y)] {
				return false
			}
		}
	}
	return true
}

// Mark flags every in-bounds cell of r as occupied.
func (o *Occupancy) Mark(r core.Rect) {
	for y := max(r.Y, 0); y < min(r.Bottom(), o.H); y++ {
		for x := max(r.X, 0); x < min(r.Right(), o.W); x++ {
			o.cells[o.index(x, y)] = true
		}
	}
}

// Grow appends free rows to the bottom of the grid.
func (o *Occupancy) Grow(rows int) {
	if rows <= 0 {
		return
	}
	o.cells = append(o.cells, make([]bool, rows*o.W)...)
	o.H += rows
}

// FirstFit scans top-left origins in row-major order and returns the first
// one whose span footprint is entirely free.
func (o *Occupancy) FirstFit(span grid.Span) (grid.Position, bool) {
	for y := 0; y+span.RowSpan <= o.H; y++ {
		for x := 0; x+span.ColSpan <= o.W; x++ {
			pos := grid.P(x, y)
			if o.Fits(grid.Footprint(pos, span)) {
				return pos, true
			}
		}
	}
	return grid.Position{}, false
}

// FreeCount returns the number of unoccupied cells.
func (o *Occupancy) FreeCount() int {
	free := 0
	for _, taken := range o.cells {
		if !taken {
			free++
		}
	}
	return free
}
