package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Start launches the dashboard and blocks until the user quits.
func Start(deps Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
