// Package drag turns pointer gestures into board mutations.
//
// A Coordinator runs a three-state machine: Idle, DraggingTile and
// DraggingCatalogItem. Hover updates only feed the drop preview; the board is
// touched once, when the drag ends.
package drag

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// State is the coordinator's drag mode.
type State int

const (
	Idle State = iota
	DraggingTile
	DraggingCatalogItem
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingTile:
		return "dragging-tile"
	case DraggingCatalogItem:
		return "dragging-catalog-item"
	default:
		return "unknown"
	}
}

// Outcome reports what ending a drag did to the board.
type Outcome int

const (
	// OutcomeUnchanged means the drop was a no-op.
	OutcomeUnchanged Outcome = iota
	// OutcomeMoved means the tile moved to a free target.
	OutcomeMoved
	// OutcomeAdded means a catalog item became a new tile.
	OutcomeAdded
	// OutcomeRejected means the target was occupied and the board was kept.
	OutcomeRejected
	// OutcomeCompacted means the drop displaced other tiles, which were
	// re-packed around it.
	OutcomeCompacted
	// OutcomeRemoved means the tile was dragged off the grid and deleted.
	OutcomeRemoved
	// OutcomeAbandoned means a catalog drag was released with no target.
	OutcomeAbandoned
)

var outcomeNames = [...]string{"unchanged", "moved", "added", "rejected", "compacted", "removed", "abandoned"}

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Changed reports whether the board was mutated.
func (o Outcome) Changed() bool {
	switch o {
	case OutcomeMoved, OutcomeAdded, OutcomeCompacted, OutcomeRemoved:
		return true
	}
	return false
}

// Catalog supplies the size a catalog item gets when dropped.
type Catalog interface {
	DefaultSize(typ board.TileType) grid.Size
}

// Session describes the drag in progress.
type Session struct {
	State       State
	TileID      string
	CatalogType board.TileType
	// Origin is where the pointer grabbed the tile, relative to its corner.
	Origin grid.Offset
	// Hover is the cell under the pointer, nil when outside the grid.
	Hover *grid.Position
}

// Preview is the drop zone the renderer highlights while dragging.
type Preview struct {
	Position grid.Position
	Size     grid.Size
	Rect     core.Rect
	// Accepted is false when the drop would be rejected.
	Accepted bool
	// Displaces is true when the drop lands on other tiles.
	Displaces bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for state transitions.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Coordinator drives drag sessions against one board. It is not safe for
// concurrent use; the UI loop owns it.
type Coordinator struct {
	store   *board.Store
	catalog Catalog
	logger  *log.Logger
	session Session
}

// New creates an idle coordinator for store. catalog may be nil, in which
// case catalog items are medium.
func New(store *board.Store, catalog Catalog, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   store,
		catalog: catalog,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current session. The zero Session means Idle.
func (c *Coordinator) Session() Session {
	s := c.session
	if s.Hover != nil {
		h := *s.Hover
		s.Hover = &h
	}
	return s
}

// State returns the current drag mode.
func (c *Coordinator) State() State {
	return c.session.State
}

// StartTileDrag begins dragging the tile with id. It returns false and stays
// idle when movement is disabled or the tile does not exist. Calling it
// while a drag is active panics.
func (c *Coordinator) StartTileDrag(id string, origin grid.Offset) bool {
	c.mustBeIdle("StartTileDrag")
	if !c.store.Config().MovementEnabled {
		c.logger.Debug("tile drag ignored: movement disabled", "tile", id)
		return false
	}
	if _, ok := c.store.Tile(id); !ok {
		c.logger.Debug("tile drag ignored: unknown tile", "tile", id)
		return false
	}
	c.session = Session{State: DraggingTile, TileID: id, Origin: origin}
	c.logger.Debug("drag started", "state", c.session.State, "tile", id)
	return true
}

// StartCatalogDrag begins dragging a new tile of typ from the catalog.
// Calling it while a drag is active panics.
func (c *Coordinator) StartCatalogDrag(typ board.TileType) {
	c.mustBeIdle("StartCatalogDrag")
	c.session = Session{State: DraggingCatalogItem, CatalogType: typ}
	c.logger.Debug("drag started", "state", c.session.State, "type", typ)
}

// SetHoverCell records the cell under the pointer, or nil when the pointer
// left the grid. It never mutates the board. Panics when idle.
func (c *Coordinator) SetHoverCell(pos *grid.Position) {
	if c.session.State == Idle {
		panic("drag: SetHoverCell called while idle")
	}
	if pos == nil {
		c.session.Hover = nil
		return
	}
	h := *pos
	c.session.Hover = &h
}

// Cancel abandons any drag without touching the board.
func (c *Coordinator) Cancel() {
	if c.session.State != Idle {
		c.logger.Debug("drag cancelled", "state", c.session.State)
	}
	c.session = Session{}
}

// EndTileDrag drops the dragged tile at target, a raw point in cell units.
//
// The point is snapped to the tile's span lattice. A free target moves the
// tile. An occupied target is rejected or re-packs the board, depending on
// the grid's collision policy. A nil target leaves the board unchanged unless
// both drag-out-of-bounds and removal are enabled, in which case the tile is
// deleted. Panics unless a tile drag is active.
func (c *Coordinator) EndTileDrag(target *grid.Point) Outcome {
	if c.session.State != DraggingTile {
		panic(fmt.Sprintf("drag: EndTileDrag called in state %s", c.session.State))
	}
	id := c.session.TileID
	c.session = Session{}

	out := c.dropTile(id, target)
	c.logger.Debug("tile drag ended", "tile", id, "outcome", out)
	return out
}

func (c *Coordinator) dropTile(id string, target *grid.Point) Outcome {
	cfg := c.store.Config()
	if target == nil {
		if cfg.AllowDragOutOfBounds && cfg.Removable && c.store.RemoveTile(id) {
			return OutcomeRemoved
		}
		return OutcomeUnchanged
	}

	tile, ok := c.store.Tile(id)
	if !ok {
		return OutcomeUnchanged
	}
	pos := cfg.SnapToCellIncrement(*target, cfg.SpanOf(tile.Size))
	if pos == tile.Position {
		return OutcomeUnchanged
	}

	if c.store.Fits(id, pos, tile.Size) {
		if c.store.MoveTile(id, pos) {
			return OutcomeMoved
		}
		return OutcomeUnchanged
	}
	if cfg.Collision == grid.CollisionCompact && c.store.MoveAndCompact(id, pos) {
		return OutcomeCompacted
	}
	return OutcomeRejected
}

// EndCatalogDrag drops a new tile of typ at target. typ must match the type
// the drag started with. A nil target abandons the drag. Collisions follow
// the same policy as EndTileDrag. Panics unless a catalog drag of typ is
// active.
func (c *Coordinator) EndCatalogDrag(target *grid.Point, typ board.TileType) Outcome {
	if c.session.State != DraggingCatalogItem {
		panic(fmt.Sprintf("drag: EndCatalogDrag called in state %s", c.session.State))
	}
	if c.session.CatalogType != typ {
		panic(fmt.Sprintf("drag: EndCatalogDrag type %q does not match session type %q", typ, c.session.CatalogType))
	}
	c.session = Session{}

	out := c.dropCatalogItem(typ, target)
	c.logger.Debug("catalog drag ended", "type", typ, "outcome", out)
	return out
}

func (c *Coordinator) dropCatalogItem(typ board.TileType, target *grid.Point) Outcome {
	if target == nil {
		return OutcomeAbandoned
	}

	cfg := c.store.Config()
	size := c.defaultSize(typ)
	pos := cfg.SnapToCellIncrement(*target, cfg.SpanOf(size))

	if c.store.Fits("", pos, size) {
		if _, ok := c.store.AddTile(c.store.NewTile(typ, size, pos)); ok {
			return OutcomeAdded
		}
		return OutcomeUnchanged
	}
	if cfg.Collision == grid.CollisionCompact && c.store.PlaceAndCompact(c.store.NewTile(typ, size, pos)) {
		return OutcomeCompacted
	}
	return OutcomeRejected
}

// Preview returns the snapped drop zone for the current hover cell. The
// second result is false when idle or not hovering over the grid.
func (c *Coordinator) Preview() (Preview, bool) {
	s := c.session
	if s.State == Idle || s.Hover == nil {
		return Preview{}, false
	}

	cfg := c.store.Config()
	var (
		size   grid.Size
		skipID string
	)
	switch s.State {
	case DraggingTile:
		tile, ok := c.store.Tile(s.TileID)
		if !ok {
			return Preview{}, false
		}
		size, skipID = tile.Size, tile.ID
	case DraggingCatalogItem:
		size = c.defaultSize(s.CatalogType)
	}

	span := cfg.SpanOf(size)
	pos := cfg.SnapToCellIncrement(grid.Point{X: float64(s.Hover.X), Y: float64(s.Hover.Y)}, span)
	free := c.store.Fits(skipID, pos, size)
	return Preview{
		Position:  pos,
		Size:      size,
		Rect:      grid.Footprint(pos, span),
		Accepted:  free || cfg.Collision == grid.CollisionCompact,
		Displaces: !free,
	}, true
}

func (c *Coordinator) defaultSize(typ board.TileType) grid.Size {
	if c.catalog == nil {
		return grid.SizeMedium
	}
	size := c.catalog.DefaultSize(typ)
	if size == "" {
		return grid.SizeMedium
	}
	return size
}

func (c *Coordinator) mustBeIdle(op string) {
	if c.session.State != Idle {
		panic(fmt.Sprintf("drag: %s called in state %s", op, c.session.State))
	}
}
