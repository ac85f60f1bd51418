// Package hub shares boards between terminal sessions.
//
// Every storage key maps to at most one live board.Store. The first session
// for a key loads the board and starts persisting it; later sessions attach
// to the same store and receive its changes. The board is released when the
// last session closes.
package hub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

type entry struct {
	store    *board.Store
	sessions map[SessionID]*Session
	stop     []func()
}

// Hub tracks live boards by storage key. Safe for concurrent use.
type Hub struct {
	cfg    grid.Config
	kv     board.KV
	opts   []board.Option
	logger *log.Logger

	mu     sync.Mutex
	boards map[string]*entry
	nextID atomic.Uint64
}

// New creates a hub whose boards use cfg and are persisted to kv. opts are
// passed to every board.Store it creates.
func New(cfg grid.Config, kv board.KV, logger *log.Logger, opts ...board.Option) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		cfg:    cfg,
		kv:     kv,
		opts:   append([]board.Option{board.WithLogger(logger)}, opts...),
		logger: logger,
		boards: make(map[string]*entry),
	}
}

// Attach returns a new session on the board stored under key, loading the
// board if no session holds it yet. owner labels the session in logs.
//
// The board is loaded without holding the hub lock. When two sessions load
// the same key at once, the first to finish wins and the other load is
// discarded.
func (h *Hub) Attach(ctx context.Context, key, owner string) (*Session, error) {
	h.mu.Lock()
	if e, ok := h.boards[key]; ok {
		s := h.joinLocked(e, key, owner)
		h.mu.Unlock()
		return s, nil
	}
	h.mu.Unlock()

	store := board.NewStore(h.cfg, h.opts...)
	if err := store.Load(ctx, h.kv, key); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.boards[key]
	if !ok {
		e = &entry{store: store, sessions: make(map[SessionID]*Session)}
		e.stop = append(e.stop,
			store.Persist(context.WithoutCancel(ctx), h.kv, key),
			store.OnChange(func(ch board.Change) { h.broadcast(key, ch) }),
		)
		h.boards[key] = e
		h.logger.Debug("board opened", "key", key, "tiles", store.Len())
	}
	return h.joinLocked(e, key, owner), nil
}

func (h *Hub) joinLocked(e *entry, key, owner string) *Session {
	id := SessionID(fmt.Sprintf("%s-%d", owner, h.nextID.Add(1)))
	s := newSession(id, key, e.store, 0)
	s.release = func() { h.detach(key, id) }
	e.sessions[id] = s
	h.logger.Debug("session attached", "key", key, "session", id, "sessions", len(e.sessions))
	return s
}

func (h *Hub) detach(key string, id SessionID) {
	h.mu.Lock()
	e, ok := h.boards[key]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(e.sessions, id)
	var stop []func()
	if len(e.sessions) == 0 {
		delete(h.boards, key)
		stop = e.stop
	}
	h.mu.Unlock()

	h.logger.Debug("session detached", "key", key, "session", id)
	for _, fn := range stop {
		fn()
	}
	if stop != nil {
		h.logger.Debug("board closed", "key", key)
	}
}

func (h *Hub) broadcast(key string, ch board.Change) {
	h.mu.Lock()
	e, ok := h.boards[key]
	var targets []*Session
	if ok {
		targets = make([]*Session, 0, len(e.sessions))
		for _, s := range e.sessions {
			targets = append(targets, s)
		}
	}
	h.mu.Unlock()

	for _, s := range targets {
		s.send(ch)
	}
}

// Boards returns the number of live boards.
func (h *Hub) Boards() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.boards)
}

// Sessions returns the number of sessions attached to key.
func (h *Hub) Sessions(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.boards[key]; ok {
		return len(e.sessions)
	}
	return 0
}

// Close detaches every session.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Session
	for _, e := range h.boards {
		for _, s := range e.sessions {
			all = append(all, s)
		}
	}
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
