package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/model"
)

// toasts shown at once
const visibleToasts = 3

func (m Model) View() string {
	st := m.store.State()

	var body string
	switch {
	case st.ModalOpen:
		body = m.formView(st)
	case st.DeleteOpen:
		body = m.confirmView(st)
	case st.View == board.ViewList:
		body = m.list.View()
	default:
		body = m.boardView(st)
	}

	parts := []string{m.header(st), body}
	if t := toastView(st.Notifications); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, m.helpView(st))
	return panelStyle.Render(strings.Join(parts, "\n"))
}

func (m Model) header(st board.State) string {
	c := board.Stats(st.Tasks)
	h := fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s %d",
		titleStyle.Render("Tasks"),
		pendingStyle.Render("•"), c[model.Pending],
		accentStyle.Render("◐"), c[model.InProgress],
		successStyle.Render("✔"), c[model.Finished],
		accentStyle.Render("Total"), c.Total(),
	)
	if st.Busy {
		h += "  " + mutedStyle.Render("syncing…")
	}
	return h
}

func (m Model) boardView(st board.State) string {
	cols := st.Columns()
	width := max((m.width-8)/len(cols), 20)

	rendered := make([]string, 0, len(cols))
	for i, c := range cols {
		style := columnStyle
		if m.dragging && i == m.dragTarget {
			style = dropTargetStyle
		}
		heading := statusStyle(c.Status).Render(fmt.Sprintf("%s (%d)", c.ID.Title(), len(c.Tasks)))
		lines := []string{heading, ""}
		if len(c.Tasks) == 0 {
			lines = append(lines, mutedStyle.Render("(none)"))
		}
		for j, t := range c.Tasks {
			lines = append(lines, m.card(t, i == m.col && j == m.row[i], width-4))
		}
		rendered = append(rendered, style.Width(width).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) card(t model.Task, cursor bool, width int) string {
	style := cardStyle
	switch {
	case m.dragging && t.ID == m.dragID:
		style = cardDraggedStyle
	case cursor && !m.dragging:
		style = cardSelectedStyle
	}

	title := titleStyle.Render(t.Title)
	if cursor {
		title = selectedStyle.Render(t.Title)
	}
	lines := []string{
		title,
		mutedStyle.Render(t.DisplayDescription()),
		mutedStyle.Render("Created: " + model.DisplayTimestamp(t.CreatedAt)),
	}
	if t.HasFinishedAt() {
		lines = append(lines, mutedStyle.Render("Finished: "+model.DisplayTimestamp(*t.FinishedAt)))
	}
	lines = append(lines, statusStyle(t.Status).Render(t.Status.String()))
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) formView(st board.State) string {
	editing := st.Editing != nil
	heading := "New task"
	if editing {
		heading = fmt.Sprintf("Edit task #%d", st.Editing.ID)
	}

	label := func(field int, s string) string {
		if m.focus == field {
			return accentStyle.Render(s)
		}
		return mutedStyle.Render(s)
	}

	lines := []string{
		titleStyle.Render(heading),
		"",
		label(fieldTitle, "Title"),
		m.title.View(),
		label(fieldDescription, "Description"),
		m.description.View(),
	}
	if editing {
		status := statusStyle(m.status).Render(m.status.String())
		lines = append(lines,
			label(fieldStatus, "Status"),
			"  ‹ "+status+" ›",
			label(fieldFinishedAt, "Finished at"),
			m.finishedAt.View(),
		)
	} else {
		lines = append(lines, mutedStyle.Render("Status: "+model.Pending.String()))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) confirmView(st board.State) string {
	name := fmt.Sprintf("#%d", st.DeletingID)
	if t, ok := st.Task(st.DeletingID); ok {
		name = fmt.Sprintf("%q", t.Title)
	}
	lines := []string{
		errorStyle.Render("Delete task"),
		"",
		"Delete " + name + "? This cannot be undone.",
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func toastView(ns []board.Notification) string {
	if len(ns) == 0 {
		return ""
	}
	if len(ns) > visibleToasts {
		ns = ns[len(ns)-visibleToasts:]
	}
	lines := make([]string, 0, len(ns)*2)
	for _, n := range ns {
		sym := "✔ "
		if n.Level == board.LevelError {
			sym = "✖ "
		}
		lines = append(lines, levelStyle(n.Level).Render(sym+n.Message))
		if n.Tip != "" {
			lines = append(lines, mutedStyle.Render("  Tip: "+n.Tip))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpView(st board.State) string {
	var bindings []key.Binding
	switch {
	case st.ModalOpen:
		bindings = keys.formHelp()
	case st.DeleteOpen:
		bindings = keys.confirmHelp()
	case m.dragging:
		bindings = keys.dragHelp()
	default:
		bindings = keys.boardHelp()
	}
	return m.help.ShortHelpView(bindings)
}
