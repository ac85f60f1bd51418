package board

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-dashboard/internal/grid"
	"github.com/vovakirdan/tui-dashboard/internal/layout"
)

var (
	// ErrNoSpace is returned when no free slot can hold a new tile.
	ErrNoSpace = errors.New("board: no free slot for tile")
	// ErrNotRemovable is returned when removal is disabled for the board.
	ErrNotRemovable = errors.New("board: tiles are not removable")
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warnings about dropped tiles.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithIDGenerator sets the tile id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

type observer struct {
	id int
	fn func(Change)
}

// Store is the single source of truth for a board's tiles.
//
// Every mutation builds a new tile slice and swaps it in whole, so a slice
// handed out in a Change is never written to again. Observers run after the
// lock is released, in registration order.
type Store struct {
	mu        sync.RWMutex
	base      grid.Config
	rows      int
	tiles     []Tile
	lastStamp int64
	seq       uint64

	observers []observer
	nextObs   int

	clock  func() time.Time
	newID  func() string
	logger *log.Logger
}

// NewStore creates an empty board for cfg.
func NewStore(cfg grid.Config, opts ...Option) *Store {
	s := &Store{
		base:   cfg,
		rows:   cfg.Rows,
		clock:  time.Now,
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective grid configuration. Rows may exceed the
// configured value when dynamic extensions grew the grid.
func (s *Store) Config() grid.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configLocked()
}

func (s *Store) configLocked() grid.Config {
	return s.base.WithRows(s.rows)
}

// Tiles returns a copy of the current snapshot in list order.
func (s *Store) Tiles() []Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTiles(s.tiles)
}

// Len returns the number of tiles on the board.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}

// Tile looks up a tile by id.
func (s *Store) Tile(id string) (Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tiles[i].Clone(), true
	}
	return Tile{}, false
}

// IsTileActive reports whether any tile of the given type is on the board.
func (s *Store) IsTileActive(typ TileType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.tiles, func(t Tile) bool { return t.Type == typ })
}

// Fits reports whether a tile of the given size could sit at pos without
// leaving the grid or overlapping any tile other than skipID.
func (s *Store) Fits(skipID string, pos grid.Position, size grid.Size) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitsLocked(skipID, pos, size)
}

// FindSlot returns the first free origin for size in row-major order within
// the current extent.
func (s *Store) FindSlot(size grid.Size) (grid.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occ := s.occupancyLocked("")
	return occ.FirstFit(s.configLocked().SpanOf(size))
}

// OnChange registers fn to run after every published snapshot and returns a
// function that unregisters it.
func (s *Store) OnChange(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer) bool { return o.id == id })
	}
}

// NewTile builds a tile with a fresh id and creation stamp. It does not add
// it to the board.
func (s *Store) NewTile(typ TileType, size grid.Size, pos grid.Position) Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newTileLocked(typ, size, pos)
}

func (s *Store) newTileLocked(typ TileType, size grid.Size, pos grid.Position) Tile {
	return Tile{
		ID:        s.newID(),
		Type:      typ,
		Position:  pos,
		Size:      size,
		CreatedAt: s.stampLocked(),
	}
}

// stampLocked returns a millisecond timestamp strictly greater than every
// stamp this store has handed out or loaded.
func (s *Store) stampLocked() int64 {
	ms := s.clock().UnixMilli()
	if ms <= s.lastStamp {
		ms = s.lastStamp + 1
	}
	s.lastStamp = ms
	return ms
}

// AddTile appends t to the board and returns the stored tile.
//
// An empty ID is filled in and a zero CreatedAt is stamped. If t does not fit
// at its position it is moved to the first free slot. The second result is
// false when no slot exists; the tile is then reported as dropped and the
// board is left as it was. Adding an id that is already present panics.
func (s *Store) AddTile(t Tile) (Tile, bool) {
	s.mu.Lock()
	if t.ID != "" && s.indexLocked(t.ID) >= 0 {
		s.mu.Unlock()
		panic(fmt.Sprintf("board: duplicate tile id %q", t.ID))
	}

	t = t.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = s.stampLocked()
	} else {
		s.lastStamp = max(s.lastStamp, t.CreatedAt)
	}

	if !s.fitsLocked("", t.Position, t.Size) {
		pos, ok := s.findSlotLocked(t.Size)
		if !ok {
			s.logger.Warn("tile dropped: no free slot", "id", t.ID, "type", t.Type, "size", t.Size)
			ch := s.changeLocked()
			ch.Dropped = []Tile{t}
			s.notify(ch)
			return t, false
		}
		s.logger.Debug("tile relocated", "id", t.ID, "from", t.Position, "to", pos)
		t.Position = pos
	}

	s.publish(append(slices.Clip(s.tiles), t), nil)
	return t.Clone(), true
}

// AddTileOfType creates a tile of typ and places it at the first free slot.
func (s *Store) AddTileOfType(typ TileType, size grid.Size) (Tile, error) {
	s.mu.Lock()
	return s.addOfTypeLocked(typ, size)
}

// addOfTypeLocked releases the lock.
func (s *Store) addOfTypeLocked(typ TileType, size grid.Size) (Tile, error) {
	pos, ok := s.findSlotLocked(size)
	if !ok {
		s.mu.Unlock()
		return Tile{}, fmt.Errorf("%w: %s tile of type %q", ErrNoSpace, size, typ)
	}
	t := s.newTileLocked(typ, size, pos)
	s.publish(append(slices.Clip(s.tiles), t), nil)
	return t.Clone(), nil
}

// ToggleTile removes every tile of typ, or adds one when none is present.
// It reports whether a tile was added.
func (s *Store) ToggleTile(typ TileType, size grid.Size) (bool, error) {
	s.mu.Lock()
	if !slices.ContainsFunc(s.tiles, func(t Tile) bool { return t.Type == typ }) {
		_, err := s.addOfTypeLocked(typ, size)
		return err == nil, err
	}
	if !s.base.Removable {
		s.mu.Unlock()
		return false, ErrNotRemovable
	}
	kept := slices.DeleteFunc(slices.Clone(s.tiles), func(t Tile) bool { return t.Type == typ })
	s.compactLocked(kept)
	return false, nil
}

// RemoveTile deletes the tile with id and re-packs the board. It reports
// whether anything was removed. Unknown ids and boards with removal disabled
// are left unchanged.
func (s *Store) RemoveTile(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || !s.base.Removable {
		s.mu.Unlock()
		return false
	}
	s.compactLocked(slices.Delete(slices.Clone(s.tiles), i, i+1))
	return true
}

// UpdateTile merges p into the tile with id. The tile keeps its position
// unless a new size no longer fits there, in which case the board is
// re-packed. Unknown ids are ignored.
func (s *Store) UpdateTile(id string, p Patch) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	next := slices.Clone(s.tiles)
	t := next[i].Clone()
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Config != nil {
		t.Config = slices.Clone(p.Config)
	}
	resized := p.Size != nil && *p.Size != t.Size
	if p.Size != nil {
		t.Size = *p.Size
	}
	next[i] = t

	if resized && !s.fitsLocked(id, t.Position, t.Size) {
		s.logger.Debug("resized tile no longer fits, re-packing", "id", id, "size", t.Size)
		s.compactLocked(next)
		return true
	}
	s.publish(next, nil)
	return true
}

// MoveTile sets a tile's position. The target must already be snapped; it
// is refused when it leaves the grid or overlaps another tile. No compaction
// runs.
func (s *Store) MoveTile(id string, pos grid.Position) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || !s.fitsLocked(id, pos, s.tiles[i].Size) {
		s.mu.Unlock()
		return false
	}
	if s.tiles[i].Position == pos {
		s.mu.Unlock()
		return true
	}

	next := slices.Clone(s.tiles)
	next[i].Position = pos
	s.publish(next, nil)
	return true
}

// PlaceAndCompact puts t at its position and re-packs every other tile
// around it. If t's id is on the board the existing tile moves; otherwise t
// is added with a fresh id and stamp when those are empty. It returns false
// when the footprint leaves the grid.
func (s *Store) PlaceAndCompact(t Tile) bool {
	s.mu.Lock()
	cfg := s.configLocked()
	if !cfg.InBounds(t.Rect(cfg)) {
		s.mu.Unlock()
		return false
	}

	next := slices.Clone(s.tiles)
	if i := s.indexLocked(t.ID); i >= 0 {
		moved := next[i].Clone()
		moved.Position = t.Position
		next[i] = moved
	} else {
		t = t.Clone()
		if t.ID == "" {
			t.ID = s.newID()
		}
		if t.CreatedAt == 0 {
			t.CreatedAt = s.stampLocked()
		} else {
			s.lastStamp = max(s.lastStamp, t.CreatedAt)
		}
		next = append(next, t)
	}

	res := layout.CompactPinned(cfg, items(next), t.ID, t.Position)
	s.applyLocked(next, res)
	return true
}

// MoveAndCompact moves a tile onto pos, displacing whatever was there, and
// re-packs the rest of the board.
func (s *Store) MoveAndCompact(id string, pos grid.Position) bool {
	t, ok := s.Tile(id)
	if !ok {
		return false
	}
	t.Position = pos
	return s.PlaceAndCompact(t)
}

// ReorderTiles replaces the tile list wholesale. Positions are kept when the
// new list is a valid layout; otherwise duplicates are dropped and the board
// is re-packed.
func (s *Store) ReorderTiles(tiles []Tile) {
	s.mu.Lock()
	s.replaceLocked(tiles)
}

// Compact re-packs the board and returns the tiles that no longer fit.
func (s *Store) Compact() []Tile {
	s.mu.Lock()
	return s.compactLocked(slices.Clone(s.tiles))
}

// replaceLocked installs tiles as the new snapshot after normalising it.
// Releases the lock.
func (s *Store) replaceLocked(tiles []Tile) {
	seen := make(map[string]bool, len(tiles))
	next := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if t.ID == "" {
			t.ID = s.newID()
		}
		if seen[t.ID] {
			s.logger.Warn("duplicate tile id dropped", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		s.lastStamp = max(s.lastStamp, t.CreatedAt)
		next = append(next, t.Clone())
	}

	s.rows = s.base.Rows
	if s.base.DynamicExtensions {
		for _, t := range next {
			s.rows = max(s.rows, t.Rect(s.base).Bottom())
		}
	}

	if !validLayout(s.configLocked(), next) {
		s.logger.Warn("tile layout invalid, re-packing", "tiles", len(next))
		s.compactLocked(next)
		return
	}
	s.publish(next, nil)
}

// compactLocked re-packs tiles from the configured row count and publishes
// the result. Releases the lock.
func (s *Store) compactLocked(tiles []Tile) []Tile {
	res := layout.Compact(s.base, items(tiles))
	return s.applyLocked(tiles, res)
}

// applyLocked writes a compaction result back onto tiles and publishes it.
// Releases the lock.
func (s *Store) applyLocked(tiles []Tile, res layout.Result) []Tile {
	byID := make(map[string]Tile, len(tiles))
	for _, t := range tiles {
		byID[t.ID] = t
	}

	next := make([]Tile, 0, len(res.Placements))
	for _, p := range res.Placements {
		t := byID[p.ID]
		t.Position = p.Position
		next = append(next, t)
	}

	var dropped []Tile
	for _, id := range res.Dropped {
		t := byID[id]
		s.logger.Warn("tile dropped: grid is full", "id", t.ID, "type", t.Type, "size", t.Size)
		dropped = append(dropped, t)
	}

	s.rows = max(res.Rows, s.base.Rows)
	s.publish(next, dropped)
	return cloneTiles(dropped)
}

// publish swaps in the new snapshot, releases the lock and notifies
// observers.
func (s *Store) publish(tiles []Tile, dropped []Tile) {
	s.tiles = tiles
	s.seq++
	ch := s.changeLocked()
	ch.Dropped = dropped
	s.notify(ch)
}

func (s *Store) changeLocked() Change {
	return Change{Tiles: s.tiles, Rows: s.rows, Seq: s.seq}
}

// notify releases the lock and runs observers.
func (s *Store) notify(ch Change) {
	obs := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, o := range obs {
		o.fn(ch)
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tiles, func(t Tile) bool { return t.ID == id })
}

func (s *Store) occupancyLocked(skipID string) *layout.Occupancy {
	cfg := s.configLocked()
	occ := layout.NewOccupancy(cfg.Columns, cfg.Rows)
	for _, t := range s.tiles {
		if t.ID != skipID {
			occ.Mark(t.Rect(cfg))
		}
	}
	return occ
}

func (s *Store) fitsLocked(skipID string, pos grid.Position, size grid.Size) bool {
	cfg := s.configLocked()
	return s.occupancyLocked(skipID).Fits(grid.Footprint(pos, cfg.SpanOf(size)))
}

// findSlotLocked returns the first free origin for size, growing the grid
// when dynamic extensions allow it.
func (s *Store) findSlotLocked(size grid.Size) (grid.Position, bool) {
	cfg := s.configLocked()
	span := cfg.SpanOf(size)
	if span.ColSpan > cfg.Columns {
		return grid.Position{}, false
	}

	occ := s.occupancyLocked("")
	if pos, ok := occ.FirstFit(span); ok {
		return pos, true
	}
	if !cfg.DynamicExtensions {
		return grid.Position{}, false
	}
	occ.Grow(span.RowSpan)
	pos, ok := occ.FirstFit(span)
	if ok {
		s.rows = occ.H
	}
	return pos, ok
}

func items(tiles []Tile) []layout.Item {
	out := make([]layout.Item, len(tiles))
	for i, t := range tiles {
		out[i] = t.item()
	}
	return out
}

// validLayout reports whether tiles have unique ids, stay in bounds and do
// not overlap.
func validLayout(cfg grid.Config, tiles []Tile) bool {
	occ := layout.NewOccupancy(cfg.Columns, cfg.Rows)
	seen := make(map[string]bool, len(tiles))
	for _, t := range tiles {
		if seen[t.ID] {
			return false
		}
		seen[t.ID] = true
		r := t.Rect(cfg)
		if !occ.Fits(r) {
			return false
		}
		occ.Mark(r)
	}
	return true
}
