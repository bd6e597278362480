package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	dropTargetStyle = columnStyle.BorderForeground(lipgloss.Color("12"))
	cardStyle       = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("8")).
			PaddingLeft(1).
			MarginBottom(1)
	cardSelectedStyle = cardStyle.BorderForeground(lipgloss.Color("12"))
	cardDraggedStyle  = cardStyle.BorderForeground(lipgloss.Color("214"))
)

// statusStyle colors a status label the way the list header does.
func statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.Finished:
		return successStyle
	case model.InProgress:
		return accentStyle
	default:
		return pendingStyle
	}
}

func statusSymbol(s model.Status) string {
	switch s {
	case model.Finished:
		return "✔"
	case model.InProgress:
		return "◐"
	default:
		return "•"
	}
}

func levelStyle(l board.Level) lipgloss.Style {
	if l == board.LevelError {
		return errorStyle
	}
	return successStyle
}
