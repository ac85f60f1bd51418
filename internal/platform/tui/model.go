package tui

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/drag"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
	"github.com/vovakirdan/tui-dashboard/internal/hub"
	"github.com/vovakirdan/tui-dashboard/internal/registry"
)

// Options configures the dashboard view.
type Options struct {
	Title        string
	CellWidth    int // preferred terminal columns per grid column
	CellHeight   int // preferred terminal rows per grid row
	SidebarWidth int
	TickRate     int // widget refreshes per second
	Width        int // initial terminal size
	Height       int
	Clock        func() time.Time
	Logger       *log.Logger
}

// DefaultOptions returns the options used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		Title:        "dashboard",
		CellWidth:    12,
		CellHeight:   5,
		SidebarWidth: 22,
		TickRate:     1,
		Width:        120,
		Height:       40,
		Clock:        time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.CellWidth < 1 {
		o.CellWidth = d.CellWidth
	}
	if o.CellHeight < 1 {
		o.CellHeight = d.CellHeight
	}
	if o.SidebarWidth < 1 {
		o.SidebarWidth = d.SidebarWidth
	}
	if o.TickRate < 1 {
		o.TickRate = d.TickRate
	}
	if o.Width < 1 {
		o.Width = d.Width
	}
	if o.Height < 1 {
		o.Height = d.Height
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

type focus int

const (
	focusCatalog focus = iota
	focusBoard
)

// BoardChangedMsg carries a snapshot published by any session on the board.
type BoardChangedMsg board.Change

// Model is the Bubble Tea model of one dashboard session.
type Model struct {
	session *hub.Session
	store   *board.Store
	coord   *drag.Coordinator
	catalog *registry.Catalog
	opts    Options
	logger  *log.Logger

	screen *core.Screen
	canvas *core.Screen // whole grid, blitted onto screen
	view   Viewport
	keys   KeyMap
	help   help.Model

	focus    focus
	cursor   int    // catalog entry under the keyboard cursor
	selected string // selected tile id

	// keyboard move mode
	moving bool
	moveAt grid.Position

	// pointer drag
	grab grid.Offset

	status   string
	now      time.Time
	quitting bool
}

// NewModel creates the dashboard view for a hub session.
func NewModel(session *hub.Session, catalog *registry.Catalog, opts Options) Model {
	opts = opts.withDefaults()
	store := session.Store()

	h := help.New()
	h.ShowAll = false

	m := Model{
		session: session,
		store:   store,
		coord:   drag.New(store, catalog, drag.WithLogger(opts.Logger)),
		catalog: catalog,
		opts:    opts,
		logger:  opts.Logger,
		screen:  core.NewScreen(opts.Width, opts.Height),
		canvas:  core.NewScreen(0, 0),
		keys:    DefaultKeyMap(),
		help:    h,
		now:     opts.Clock(),
	}
	m.help.Width = opts.Width
	m.layout()
	return m
}

// Init starts the widget clock and the board subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.opts.TickRate), waitForChange(m.session))
}

func waitForChange(s *hub.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case ch := <-s.Events():
			return BoardChangedMsg(ch)
		case <-s.Done():
			return nil
		}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.opts.Width = msg.Width
		m.opts.Height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		m.now = time.Time(msg)
		return m, tickCmd(m.opts.TickRate)

	case BoardChangedMsg:
		m.syncBoard()
		return m, waitForChange(m.session)
	}

	return m, nil
}

// layout recomputes the viewport for the current terminal size and grid.
func (m *Model) layout() {
	cfg := m.store.Config()
	top := m.view.Top
	m.view = NewViewport(m.opts.Width, m.opts.Height, m.opts.SidebarWidth,
		m.opts.CellWidth, m.opts.CellHeight, cfg.Columns, cfg.Rows)
	m.view.Top = top
	m.view.Scroll(0)
	m.screen.Resize(m.opts.Width, m.opts.Height)
	m.canvas.Resize(cfg.Columns*m.view.CellW, cfg.Rows*m.view.CellH)
}

// syncBoard reacts to a new snapshot: the grid may have grown or shrunk and
// the selected tile may be gone.
func (m *Model) syncBoard() {
	cfg := m.store.Config()
	if cfg.Rows != m.view.Rows || cfg.Columns != m.view.Columns {
		m.layout()
	}
	if m.selected != "" {
		if _, ok := m.store.Tile(m.selected); !ok {
			m.selected = ""
		}
	}
	if m.moving && m.coord.State() == drag.Idle {
		m.moving = false
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.coord.Cancel()
		m.quitting = true
		return m, tea.Quit
	}
	if m.moving {
		m.handleMoveKey(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusCatalog {
			m.focus = focusBoard
			m.selectDefault()
		} else {
			m.focus = focusCatalog
		}
	case key.Matches(msg, m.keys.Compact):
		dropped := m.store.Compact()
		m.setStatus("board compacted")
		if len(dropped) > 0 {
			m.setStatus(fmt.Sprintf("board compacted, %d tile(s) did not fit", len(dropped)))
		}
	case m.focus == focusCatalog:
		m.handleCatalogKey(msg)
	default:
		m.handleBoardKey(msg)
	}
	return m, nil
}

func (m *Model) handleCatalogKey(msg tea.KeyMsg) {
	n := m.catalog.Len()
	if n == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + n) % n
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % n
	case key.Matches(msg, m.keys.Toggle):
		entry, _ := m.catalog.At(m.cursor)
		added, err := m.store.ToggleTile(entry.Type, entry.DefaultSize)
		switch {
		case errors.Is(err, board.ErrNoSpace):
			m.setStatus(fmt.Sprintf("no room for %s", entry.Title))
		case errors.Is(err, board.ErrNotRemovable):
			m.setStatus("removing tiles is disabled")
		case err != nil:
			m.setStatus(err.Error())
		case added:
			m.setStatus(fmt.Sprintf("added %s", entry.Title))
		default:
			m.setStatus(fmt.Sprintf("removed %s", entry.Title))
		}
	}
}

func (m *Model) handleBoardKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		m.cycleSelection(-1)
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		m.cycleSelection(1)
	case key.Matches(msg, m.keys.Move):
		m.startKeyboardMove()
	case key.Matches(msg, m.keys.Resize):
		m.cycleSize()
	case key.Matches(msg, m.keys.Remove):
		if m.selected == "" {
			return
		}
		if !m.store.Config().Removable {
			m.setStatus("removing tiles is disabled")
			return
		}
		if m.store.RemoveTile(m.selected) {
			m.setStatus("tile removed")
			m.selected = ""
			m.selectDefault()
		}
	}
}

func (m *Model) startKeyboardMove() {
	tile, ok := m.store.Tile(m.selected)
	if !ok {
		return
	}
	if !m.coord.StartTileDrag(tile.ID, grid.Offset{}) {
		m.setStatus("moving tiles is disabled")
		return
	}
	m.moving = true
	m.moveAt = tile.Position
	m.coord.SetHoverCell(&m.moveAt)
	m.setStatus("moving: arrows to choose, enter to drop, esc to cancel")
}

func (m *Model) handleMoveKey(msg tea.KeyMsg) {
	tile, ok := m.store.Tile(m.selected)
	if !ok {
		m.coord.Cancel()
		m.moving = false
		return
	}
	cfg := m.store.Config()
	span := cfg.SpanOf(tile.Size)

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.coord.Cancel()
		m.moving = false
		m.setStatus("move cancelled")
		return
	case key.Matches(msg, m.keys.Drop):
		target := grid.Point{X: float64(m.moveAt.X), Y: float64(m.moveAt.Y)}
		m.moving = false
		m.reportOutcome(m.coord.EndTileDrag(&target))
		return
	case key.Matches(msg, m.keys.Up):
		m.moveAt.Y -= span.RowSpan
	case key.Matches(msg, m.keys.Down):
		m.moveAt.Y += span.RowSpan
	case key.Matches(msg, m.keys.Left):
		m.moveAt.X -= span.ColSpan
	case key.Matches(msg, m.keys.Right):
		m.moveAt.X += span.ColSpan
	default:
		return
	}
	m.moveAt = cfg.ClampToGrid(m.moveAt, span)
	m.coord.SetHoverCell(&m.moveAt)
	m.view.Reveal(m.moveAt.Y, span.RowSpan)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.view.Scroll(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.view.Scroll(1)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointerDown(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if m.coord.State() != drag.Idle && !m.moving {
			m.coord.SetHoverCell(m.hoverAt(msg.X, msg.Y))
		}
	case tea.MouseActionRelease:
		m.pointerUp(msg.X, msg.Y)
	}
	return m, nil
}

func (m *Model) pointerDown(x, y int) {
	if m.moving {
		m.coord.Cancel()
		m.moving = false
	}
	if m.coord.State() != drag.Idle {
		return
	}

	if i, ok := m.view.CatalogAt(x, y, m.catalog.Len()); ok {
		entry, _ := m.catalog.At(i)
		m.focus, m.cursor = focusCatalog, i
		m.grab = grid.Offset{}
		m.coord.StartCatalogDrag(entry.Type)
		m.coord.SetHoverCell(m.hoverAt(x, y))
		return
	}

	p, ok := m.view.PointAt(x, y)
	if !ok {
		return
	}
	tile, ok := m.tileAt(grid.Position{X: int(p.X), Y: int(p.Y)})
	if !ok {
		return
	}
	m.focus, m.selected = focusBoard, tile.ID
	m.grab = grid.Offset{DX: p.X - float64(tile.Position.X), DY: p.Y - float64(tile.Position.Y)}
	if m.coord.StartTileDrag(tile.ID, m.grab) {
		m.coord.SetHoverCell(m.hoverAt(x, y))
	}
}

func (m *Model) pointerUp(x, y int) {
	var target *grid.Point
	if h := m.hoverAt(x, y); h != nil {
		target = &grid.Point{X: float64(h.X), Y: float64(h.Y)}
	}

	switch s := m.coord.Session(); s.State {
	case drag.DraggingTile:
		if m.moving {
			return
		}
		m.reportOutcome(m.coord.EndTileDrag(target))
	case drag.DraggingCatalogItem:
		out := m.coord.EndCatalogDrag(target, s.CatalogType)
		if out == drag.OutcomeAbandoned {
			// A click on a catalog entry without dragging it onto the board.
			return
		}
		m.reportOutcome(out)
	}
}

// hoverAt converts a pointer position into the cell the dragged tile's
// top-left corner would land on, or nil outside the board.
func (m Model) hoverAt(x, y int) *grid.Position {
	p, ok := m.view.PointAt(x, y)
	if !ok {
		return nil
	}
	return &grid.Position{
		X: int(math.Round(p.X - m.grab.DX)),
		Y: int(math.Round(p.Y - m.grab.DY)),
	}
}

func (m *Model) reportOutcome(out drag.Outcome) {
	switch out {
	case drag.OutcomeMoved:
		m.setStatus("tile moved")
	case drag.OutcomeAdded:
		m.setStatus("tile added")
	case drag.OutcomeCompacted:
		m.setStatus("tile placed, board re-packed")
	case drag.OutcomeRejected:
		m.setStatus("that spot is taken")
	case drag.OutcomeRemoved:
		m.setStatus("tile removed")
		m.selected = ""
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.logger.Debug("status", "msg", s)
}

// sortedTiles returns the tiles in row-major order of their position.
func (m Model) sortedTiles() []board.Tile {
	tiles := m.store.Tiles()
	slices.SortStableFunc(tiles, func(a, b board.Tile) int {
		if a.Position.Y != b.Position.Y {
			return a.Position.Y - b.Position.Y
		}
		return a.Position.X - b.Position.X
	})
	return tiles
}

func (m Model) tileAt(pos grid.Position) (board.Tile, bool) {
	cfg := m.store.Config()
	for _, t := range m.store.Tiles() {
		if t.Rect(cfg).Contains(pos.X, pos.Y) {
			return t, true
		}
	}
	return board.Tile{}, false
}

func (m *Model) selectDefault() {
	if m.selected != "" {
		return
	}
	if tiles := m.sortedTiles(); len(tiles) > 0 {
		m.selected = tiles[0].ID
	}
}

func (m *Model) cycleSelection(delta int) {
	tiles := m.sortedTiles()
	if len(tiles) == 0 {
		m.selected = ""
		return
	}
	i := slices.IndexFunc(tiles, func(t board.Tile) bool { return t.ID == m.selected })
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(tiles)) % len(tiles)
	}
	m.selected = tiles[i].ID
	cfg := m.store.Config()
	r := tiles[i].Rect(cfg)
	m.view.Reveal(r.Y, r.H)
}

func (m *Model) cycleSize() {
	tile, ok := m.store.Tile(m.selected)
	if !ok {
		return
	}
	i := slices.Index(grid.Sizes, tile.Size)
	next := grid.Sizes[(i+1)%len(grid.Sizes)]
	if m.store.UpdateTile(tile.ID, board.Patch{Size: &next}) {
		m.setStatus(fmt.Sprintf("resized to %s", next))
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(m.help.View(m.keys))
	helpLines := strings.Count(helpView, "\n") + 1

	m.screen.Resize(m.opts.Width, max(m.opts.Height-helpLines, 0))
	m.draw()
	return RenderScreen(m.screen) + "\n" + helpView
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}
