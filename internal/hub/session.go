package hub

import (
	"sync"

	"github.com/vovakirdan/tui-dashboard/internal/board"
)

// SessionID identifies one attached terminal.
type SessionID string

// Session is a subscriber to a shared board. Changes published by any
// session, including this one, arrive on Events.
type Session struct {
	id       SessionID
	key      string
	store    *board.Store
	events   chan board.Change
	done     chan struct{}
	doneOnce sync.Once
	release  func()
}

func newSession(id SessionID, key string, store *board.Store, bufferSize int) *Session {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &Session{
		id:     id,
		key:    key,
		store:  store,
		events: make(chan board.Change, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() SessionID {
	return s.id
}

// Key returns the storage key of the shared board.
func (s *Session) Key() string {
	return s.key
}

// Store returns the shared board.
func (s *Session) Store() *board.Store {
	return s.store
}

// Events returns the channel board changes are delivered on.
func (s *Session) Events() <-chan board.Change {
	return s.events
}

// Done returns a channel that is closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// send delivers ch without blocking. When the buffer is full the oldest
// change is dropped; every change carries a full snapshot, so only the
// latest matters.
func (s *Session) send(ch board.Change) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- ch:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ch:
		default:
		}
	}
}

// Close detaches the session from its board. Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
		if s.release != nil {
			s.release()
		}
	})
}
