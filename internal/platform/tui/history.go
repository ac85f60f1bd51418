package tui

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/storage"
)

// RevisionSource lists earlier versions of a stored board.
type RevisionSource interface {
	Revisions(ctx context.Context, key string, limit int) ([]storage.Revision, error)
}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Restore key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Restore, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Restore, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "newer"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "older"),
		),
		Restore: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "restore"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for picking a board revision.
type HistoryModel struct {
	key       string
	revisions []storage.Revision
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	chosen    *storage.Revision
	quitting  bool
}

// NewHistoryModel creates the history screen for revisions of key, newest
// first.
func NewHistoryModel(key string, revisions []storage.Revision, width, height int) HistoryModel {
	m := HistoryModel{
		key:       key,
		revisions: revisions,
		help:      help.New(),
		keys:      DefaultHistoryKeyMap(),
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Saved", Width: 14},
		{Title: "Tiles", Width: 6},
		{Title: "Widgets", Width: max(m.width-40, 20)},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-6, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.revisions))
	for i, r := range m.revisions {
		count, summary := summarize(r.Value)
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
			count,
			summary,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// summarize describes a stored board as a tile count and its widget types.
func summarize(data []byte) (count, types string) {
	tiles, err := board.Decode(data)
	if err != nil {
		return "?", "unreadable"
	}
	seen := make(map[string]int)
	for _, t := range tiles {
		seen[string(t.Type)]++
	}
	parts := make([]string, 0, len(seen))
	for _, typ := range slices.Sorted(maps.Keys(seen)) {
		if n := seen[typ]; n > 1 {
			parts = append(parts, fmt.Sprintf("%s×%d", typ, n))
		} else {
			parts = append(parts, typ)
		}
	}
	return fmt.Sprintf("%d", len(tiles)), strings.Join(parts, ", ")
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Restore):
			if i := m.table.Cursor(); i >= 0 && i < len(m.revisions) {
				rev := m.revisions[i]
				m.chosen = &rev
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.chosen != nil {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(fmt.Sprintf("BOARD HISTORY - %s", m.key)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.revisions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No earlier versions saved yet.")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Chosen returns the revision picked for restore, if any.
func (m HistoryModel) Chosen() (storage.Revision, bool) {
	if m.chosen == nil {
		return storage.Revision{}, false
	}
	return *m.chosen, true
}

// RunHistory shows the revisions of key and returns the one the user picked.
func RunHistory(ctx context.Context, src RevisionSource, key string, width, height int) (storage.Revision, bool, error) {
	revisions, err := src.Revisions(ctx, key, storage.DefaultRevisionLimit)
	if err != nil {
		return storage.Revision{}, false, err
	}

	p := tea.NewProgram(
		NewHistoryModel(key, revisions, width, height),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return storage.Revision{}, false, err
	}
	m, ok := final.(HistoryModel)
	if !ok {
		return storage.Revision{}, false, nil
	}
	rev, ok := m.Chosen()
	return rev, ok, nil
}
