// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains reusable lipgloss styles for the TUI.
var Styles = struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style
	Section  lipgloss.Style
	Info     lipgloss.Style
	Gutter   lipgloss.Style
	Added    lipgloss.Style
	Modified lipgloss.Style
	Deleted  lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Section:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Padding(1, 0, 0, 0),
	Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
	Gutter:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	Added:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Modified: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Deleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

// Run starts a BubbleTea program with the given model in the alternate screen.
func Run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p.Run()
}
