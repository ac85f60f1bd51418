package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dashboard/internal/hub"
	"github.com/vovakirdan/tui-dashboard/internal/registry"
)

// Run starts the dashboard in the current terminal and blocks until the user
// quits.
func Run(ctx context.Context, session *hub.Session, catalog *registry.Catalog, opts Options) error {
	model := NewModel(session, catalog, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
