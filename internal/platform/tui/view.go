package tui

import (
	"fmt"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/drag"
	"github.com/vovakirdan/tui-dashboard/internal/registry"
)

// draw renders the whole frame into m.screen.
func (m Model) draw() {
	m.screen.Clear()
	m.drawHeader()
	m.drawSidebar()
	m.drawBoard()
	m.drawStatus()
}

func (m Model) drawHeader() {
	cfg := m.store.Config()
	title := fmt.Sprintf(" %s ", m.opts.Title)
	m.screen.DrawText(0, 0, title, core.ColorBrightCyan)

	info := fmt.Sprintf("%d tiles  %dx%d  %s ", m.store.Len(), cfg.Columns, cfg.Rows, m.now.Format("15:04:05"))
	m.screen.DrawText(m.screen.Width()-len([]rune(info)), 0, info, core.ColorGray)
}

func (m Model) drawSidebar() {
	area := m.view.Sidebar
	if area.Empty() {
		return
	}
	titleColor := core.ColorGray
	if m.focus == focusCatalog {
		titleColor = core.ColorYellow
	}
	m.screen.DrawTextIn(area, area.Y, "Widgets", titleColor, false)
	for x := area.X; x < area.Right(); x++ {
		m.screen.SetColored(x, area.Y+1, '─', core.ColorGray)
	}

	for i, e := range m.catalog.Entries() {
		mark := "○"
		color := core.ColorGray
		if m.store.IsTileActive(e.Type) {
			mark, color = "●", core.ColorGreen
		}
		cursor := "  "
		if m.focus == focusCatalog && i == m.cursor {
			cursor = "> "
			if color == core.ColorGray {
				color = core.ColorWhite
			}
		}
		line := fmt.Sprintf("%s%s %s", cursor, mark, e.Title)
		m.screen.DrawTextIn(area, area.Y+catalogTop+i, line, color, false)
	}
}

func (m Model) drawBoard() {
	cfg := m.store.Config()
	cw, ch := m.view.CellW, m.view.CellH
	m.canvas.Clear()

	for y := range cfg.Rows {
		for x := range cfg.Columns {
			m.canvas.SetColored(x*cw+cw/2, y*ch+ch/2, '·', core.ColorGray)
		}
	}

	session := m.coord.Session()
	for _, t := range m.store.Tiles() {
		style, color := core.BoxLight, core.ColorWhite
		switch {
		case session.State == drag.DraggingTile && session.TileID == t.ID:
			style, color = core.BoxDashed, core.ColorGray
		case t.ID == m.selected && m.focus == focusBoard:
			style, color = core.BoxHeavy, core.ColorYellow
		}
		m.drawTile(t, m.cellRect(t.Rect(cfg)), style, color)
	}

	if p, ok := m.coord.Preview(); ok {
		m.canvas.DrawBox(m.cellRect(p.Rect), core.BoxDashed, core.DropColor(p.Accepted, p.Displaces))
	}

	visible := core.NewRect(0, m.view.Top*ch, m.view.Board.W, m.view.Board.H)
	m.screen.Blit(m.canvas, visible, m.view.Board.X, m.view.Board.Y)
}

// cellRect converts grid cells to canvas cells.
func (m Model) cellRect(r core.Rect) core.Rect {
	cw, ch := m.view.CellW, m.view.CellH
	return core.NewRect(r.X*cw, r.Y*ch, r.W*cw, r.H*ch)
}

func (m Model) drawTile(t board.Tile, r core.Rect, style core.BoxStyle, color core.Color) {
	m.canvas.FillRect(r, ' ', core.ColorDefault)
	m.canvas.DrawBox(r, style, color)

	title := string(t.Type)
	w, ok := registry.Lookup(t.Type)
	if ok {
		title = w.Title()
	}
	if r.W > 4 {
		m.canvas.DrawTextIn(core.NewRect(r.X+2, r.Y, r.W-4, 1), r.Y, title, color, false)
	}

	body := r.Inset(1)
	if body.Empty() {
		return
	}
	if !ok {
		m.canvas.DrawTextIn(body, body.Y, "unknown widget", core.ColorRed, true)
		return
	}
	w.Render(m.canvas, body, t, m.now)
}

func (m Model) drawStatus() {
	y := m.screen.Height() - 1
	if y < headerHeight {
		return
	}
	cfg := m.store.Config()
	mode := "catalog"
	switch {
	case m.moving:
		mode = "move"
	case m.coord.State() != drag.Idle:
		mode = "drag"
	case m.focus == focusBoard:
		mode = "board"
	}
	left := fmt.Sprintf(" [%s] %s", mode, m.status)
	m.screen.DrawText(0, y, left, core.ColorCyan)

	if m.view.VisibleRows() < cfg.Rows {
		right := fmt.Sprintf("rows %d-%d/%d ", m.view.Top+1, m.view.Top+m.view.VisibleRows(), cfg.Rows)
		m.screen.DrawText(m.screen.Width()-len(right), y, right, core.ColorGray)
	}
	if t, ok := m.store.Tile(m.selected); ok && m.focus == focusBoard {
		info := fmt.Sprintf("%s %s %s", t.Type, t.Size, t.Position)
		m.screen.DrawText(max(len([]rune(left))+2, m.screen.Width()/2), y, info, core.ColorGray)
	}
}

