package grid

import (
	"fmt"
	"iter"
	"math"

	"github.com/vovakirdan/tui-dashboard/internal/core"
)

// Position is the top-left grid cell of a tile.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// P is a convenience constructor for Position.
func P(x, y int) Position {
	return Position{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Point is a raw, possibly fractional, drop coordinate in cell units.
// Pointer input is converted to a Point before snapping.
type Point struct {
	X, Y float64
}

// Offset is the pointer position relative to a dragged tile's top-left
// corner. Only used for visual feedback.
type Offset struct {
	DX, DY float64
}

// SpanOf returns the footprint of a size. Unknown tags fall back to the
// medium span; a table with no medium entry falls back to 1x1.
func (c Config) SpanOf(size Size) Span {
	if span, ok := c.TileSizes[size]; ok {
		return span
	}
	if span, ok := c.TileSizes[SizeMedium]; ok {
		return span
	}
	return Span{ColSpan: 1, RowSpan: 1}
}

// Bounds returns the whole grid as a rectangle.
func (c Config) Bounds() core.Rect {
	return core.NewRect(0, 0, c.Columns, c.Rows)
}

// Footprint returns the cells covered by a tile at pos with the given span.
func Footprint(pos Position, span Span) core.Rect {
	return core.NewRect(pos.X, pos.Y, span.ColSpan, span.RowSpan)
}

// InBounds reports whether a footprint lies inside the grid.
func (c Config) InBounds(r core.Rect) bool {
	return r.Within(c.Bounds())
}

// ClampToGrid clamps pos so a tile of the given span stays in bounds.
func (c Config) ClampToGrid(pos Position, span Span) Position {
	return Position{
		X: core.Clamp(pos.X, 0, c.Columns-span.ColSpan),
		Y: core.Clamp(pos.Y, 0, c.Rows-span.RowSpan),
	}
}

// SnapToCellIncrement rounds a raw drop point to the nearest multiple of the
// tile's own span on each axis, then clamps it into bounds. Drop targets are
// therefore only offered on the span lattice, not at every free cell.
func (c Config) SnapToCellIncrement(p Point, span Span) Position {
	x := snapAxis(p.X, span.ColSpan, c.Columns-span.ColSpan)
	y := snapAxis(p.Y, span.RowSpan, c.Rows-span.RowSpan)
	return c.ClampToGrid(Position{X: x, Y: y}, span)
}

// snapAxis rounds v to the nearest multiple of step. The input is bounded
// to [0, limit] first so infinities and huge values convert safely.
func snapAxis(v float64, step, limit int) int {
	if math.IsNaN(v) {
		return 0
	}
	if step < 1 {
		step = 1
	}
	hi := float64(max(limit, 0))
	v = math.Max(0, math.Min(v, hi))
	return int(math.Round(v/float64(step))) * step
}

// CandidateOrigins yields every origin on the span lattice of size that fits
// in bounds, in row-major order. Each call computes a fresh sequence.
func (c Config) CandidateOrigins(size Size) iter.Seq[Position] {
	span := c.SpanOf(size)
	return func(yield func(Position) bool) {
		for y := 0; y+span.RowSpan <= c.Rows; y += span.RowSpan {
			for x := 0; x+span.ColSpan <= c.Columns; x += span.ColSpan {
				if !yield(Position{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
