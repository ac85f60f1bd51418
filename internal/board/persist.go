package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultStorageKey is the key a board is saved under when none is given.
const DefaultStorageKey = "dashboard-tiles"

// ErrMalformed is returned by Verify when stored board data cannot be
// decoded.
var ErrMalformed = errors.New("board: stored board is malformed")

// KV is the key-value storage a board is persisted to.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Encode serialises tiles as a JSON array.
func Encode(tiles []Tile) ([]byte, error) {
	if tiles == nil {
		tiles = []Tile{}
	}
	data, err := json.Marshal(tiles)
	if err != nil {
		return nil, fmt.Errorf("board: encode tiles: %w", err)
	}
	return data, nil
}

// Decode parses a JSON tile array. Entries are returned as stored; layout
// problems are fixed when the tiles are installed in a Store. A null config
// decodes as no config.
func Decode(data []byte) ([]Tile, error) {
	var tiles []Tile
	if err := json.Unmarshal(data, &tiles); err != nil {
		return nil, fmt.Errorf("board: decode tiles: %w", err)
	}
	for i := range tiles {
		if string(tiles[i].Config) == "null" {
			tiles[i].Config = nil
		}
	}
	return tiles, nil
}

// Verify checks that the data stored under key decodes as a board. A missing
// key is not an error. Load would replace malformed data with an empty board,
// so callers about to write back use Verify to keep such data intact.
func Verify(ctx context.Context, kv KV, key string) error {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("board: load %q: %w", key, err)
	}
	if !ok {
		return nil
	}
	if _, err := Decode(data); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformed, key, err)
	}
	return nil
}

// Load replaces the board with the tiles stored under key.
//
// A missing key leaves an empty board. Malformed data is logged and also
// yields an empty board. Only storage failures are returned.
func (s *Store) Load(ctx context.Context, kv KV, key string) error {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("board: load %q: %w", key, err)
	}

	var tiles []Tile
	if ok {
		tiles, err = Decode(data)
		if err != nil {
			s.logger.Warn("stored board is malformed, starting empty", "key", key, "err", err)
			tiles = nil
		}
	}

	s.mu.Lock()
	s.replaceLocked(tiles)
	return nil
}

// Save writes the current snapshot under key.
func (s *Store) Save(ctx context.Context, kv KV, key string) error {
	s.mu.RLock()
	data, err := Encode(s.tiles)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("board: save %q: %w", key, err)
	}
	return nil
}

// Persist saves published snapshots under key until the returned stop
// function is called. Write failures are logged.
//
// At most one write is in flight. A snapshot published while another
// goroutine is writing is handed to that writer, which saves the newest
// pending snapshot once its own write returns. An older snapshot never
// overwrites a newer one. stop waits for an in-flight write to finish.
func (s *Store) Persist(ctx context.Context, kv KV, key string) (stop func()) {
	w := &writer{ctx: ctx, kv: kv, key: key, logger: s.logger}
	w.idle = sync.NewCond(&w.mu)
	cancel := s.OnChange(w.offer)
	return func() {
		cancel()
		w.mu.Lock()
		w.stopped = true
		for w.writing {
			w.idle.Wait()
		}
		w.mu.Unlock()
	}
}

type writer struct {
	ctx    context.Context
	kv     KV
	key    string
	logger *log.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending *Change
	written uint64
	writing bool
	stopped bool
}

func (w *writer) offer(ch Change) {
	w.mu.Lock()
	if w.stopped || ch.Seq <= w.written || (w.pending != nil && ch.Seq <= w.pending.Seq) {
		w.mu.Unlock()
		return
	}
	w.pending = &ch
	if w.writing {
		w.mu.Unlock()
		return
	}

	w.writing = true
	for w.pending != nil {
		next := w.pending
		w.pending = nil
		w.written = next.Seq
		w.mu.Unlock()
		w.save(next.Tiles)
		w.mu.Lock()
	}
	w.writing = false
	w.idle.Broadcast()
	w.mu.Unlock()
}

func (w *writer) save(tiles []Tile) {
	data, err := Encode(tiles)
	if err == nil {
		err = w.kv.Set(w.ctx, w.key, data)
	}
	if err != nil {
		w.logger.Error("failed to save board", "key", w.key, "err", err)
	}
}
