package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
	"github.com/vovakirdan/tui-dashboard/internal/storage"
)

func encodeTiles(t *testing.T, types ...board.TileType) []byte {
	t.Helper()
	tiles := make([]board.Tile, len(types))
	for i, typ := range types {
		tiles[i] = board.Tile{ID: string(typ) + "-x", Type: typ, Position: grid.P(i*2, 0), Size: grid.SizeSmall}
	}
	data, err := board.Encode(tiles)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return data
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name          string
		data          []byte
		expectedCount string
		expectedTypes string
	}{
		{"empty", []byte("[]"), "0", ""},
		{"mixed", encodeTiles(t, "weather", "clock", "clock"), "3", "clock×2, weather"},
		{"broken", []byte("{"), "?", "unreadable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			count, types := summarize(tc.data)
			if count != tc.expectedCount || types != tc.expectedTypes {
				t.Errorf("summarize() = %q, %q, expected %q, %q", count, types, tc.expectedCount, tc.expectedTypes)
			}
		})
	}
}

func TestHistoryModelRestore(t *testing.T) {
	now := time.Now()
	revs := []storage.Revision{
		{ID: 7, Key: "k", Value: encodeTiles(t, "clock"), CreatedAt: now},
		{ID: 3, Key: "k", Value: encodeTiles(t, "market"), CreatedAt: now.Add(-time.Hour)},
	}
	m := NewHistoryModel("k", revs, 100, 30)

	if out := m.View(); !strings.Contains(out, "BOARD HISTORY - k") || !strings.Contains(out, "market") {
		t.Errorf("View() missing content:\n%s", out)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(HistoryModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(HistoryModel)

	rev, ok := m.Chosen()
	if !ok || rev.ID != 3 {
		t.Errorf("Chosen() = %d, %v, expected revision 3", rev.ID, ok)
	}
}

func TestHistoryModelQuit(t *testing.T) {
	m := NewHistoryModel("k", nil, 80, 20)
	if !strings.Contains(m.View(), "No earlier versions") {
		t.Error("empty history should say so")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(HistoryModel)
	if _, ok := m.Chosen(); ok {
		t.Error("nothing to choose in an empty history")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(HistoryModel)
	if _, ok := m.Chosen(); ok || m.View() != "" {
		t.Error("esc should quit without a choice")
	}
}
