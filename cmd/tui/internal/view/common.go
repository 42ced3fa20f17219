package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommonModel carries the terminal dimensions shared by every view.
type CommonModel struct {
	Width  int
	Height int
}

// Resize records the latest terminal size.
func (m *CommonModel) Resize(msg tea.WindowSizeMsg) {
	m.Width = msg.Width
	m.Height = msg.Height
}

// BackMsg asks the root model to switch back to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
