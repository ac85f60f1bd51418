package tui

import (
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// Layout constants
const (
	headerHeight = 1 // title line
	footerHeight = 2 // status line and help line
	sidebarGap   = 1
	catalogTop   = 2 // sidebar rows before the first catalog entry
)

// Viewport maps between terminal cells and grid cells.
type Viewport struct {
	Sidebar core.Rect // catalog area
	Board   core.Rect // visible part of the grid, in terminal cells
	CellW   int       // terminal columns per grid column
	CellH   int       // terminal rows per grid row
	Top     int       // first visible grid row
	Columns int
	Rows    int
}

// NewViewport lays out a screen of width x height for a grid of cols x rows.
// Cell sizes shrink from the preferred values until the grid width fits;
// rows that do not fit vertically are reached by scrolling.
func NewViewport(width, height, sidebarW, cellW, cellH, cols, rows int) Viewport {
	sidebarW = core.Clamp(sidebarW, 0, width/3)
	boardX := sidebarW + sidebarGap
	availW := max(width-boardX, 0)
	availH := max(height-headerHeight-footerHeight, 0)

	cellW = max(min(cellW, availW/max(cols, 1)), 1)
	cellH = max(min(cellH, availH/max(rows, 1)), 1)

	return Viewport{
		Sidebar: core.NewRect(0, headerHeight, sidebarW, availH),
		Board:   core.NewRect(boardX, headerHeight, min(cols*cellW, availW), min(rows*cellH, availH)),
		CellW:   cellW,
		CellH:   cellH,
		Columns: cols,
		Rows:    rows,
	}
}

// VisibleRows returns how many grid rows fit on screen.
func (v Viewport) VisibleRows() int {
	return v.Board.H / v.CellH
}

// Scroll moves the first visible row by delta, staying within the grid.
func (v *Viewport) Scroll(delta int) {
	v.Top = core.Clamp(v.Top+delta, 0, max(v.Rows-v.VisibleRows(), 0))
}

// Reveal scrolls so that grid rows [y, y+h) are visible where possible.
func (v *Viewport) Reveal(y, h int) {
	vis := v.VisibleRows()
	if y < v.Top {
		v.Top = y
	} else if y+h > v.Top+vis {
		v.Top = y + h - vis
	}
	v.Scroll(0)
}

// ScreenRect converts a rectangle of grid cells to terminal cells. The result
// may extend beyond the visible board.
func (v Viewport) ScreenRect(cells core.Rect) core.Rect {
	return core.NewRect(
		v.Board.X+cells.X*v.CellW,
		v.Board.Y+(cells.Y-v.Top)*v.CellH,
		cells.W*v.CellW,
		cells.H*v.CellH,
	)
}

// PointAt converts a terminal cell to a fractional grid point. ok is false
// when (x, y) is outside the visible board.
func (v Viewport) PointAt(x, y int) (grid.Point, bool) {
	if !v.Board.Contains(x, y) {
		return grid.Point{}, false
	}
	p := grid.Point{
		X: float64(x-v.Board.X) / float64(v.CellW),
		Y: float64(y-v.Board.Y)/float64(v.CellH) + float64(v.Top),
	}
	if int(p.X) >= v.Columns || int(p.Y) >= v.Rows {
		return grid.Point{}, false
	}
	return p, true
}

// CellAt returns the grid cell under a terminal cell.
func (v Viewport) CellAt(x, y int) (grid.Position, bool) {
	p, ok := v.PointAt(x, y)
	if !ok {
		return grid.Position{}, false
	}
	return grid.Position{X: int(p.X), Y: int(p.Y)}, true
}

// CatalogAt returns the catalog entry index under a terminal cell.
func (v Viewport) CatalogAt(x, y, entries int) (int, bool) {
	if !v.Sidebar.Contains(x, y) {
		return 0, false
	}
	i := y - v.Sidebar.Y - catalogTop
	if i < 0 || i >= entries {
		return 0, false
	}
	return i, true
}
