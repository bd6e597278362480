package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/logging"
	"github.com/idilsaglam/taskboard/internal/model"
)

// actionMsg carries the result of an Effect back onto the bubbletea loop.
type actionMsg struct{ action board.Action }

// form fields, in focus order
const (
	fieldTitle = iota
	fieldDescription
	fieldStatus
	fieldFinishedAt
	fieldCount
)

// Model renders a board.Store and turns key presses into actions.
type Model struct {
	store *board.Store
	ctx   context.Context

	width, height int

	// board cursor
	col int
	row [3]int

	list list.Model
	help help.Model

	// drag state, set by the move key
	dragging   bool
	dragID     int
	dragSource board.ColumnID
	dragTarget int

	// modal form
	formOpen    bool
	focus       int
	title       textinput.Model
	description textinput.Model
	finishedAt  textinput.Model
	status      model.Status
}

// New builds the UI around store. Effects run with ctx.
func New(ctx context.Context, store *board.Store) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	l := list.New(nil, taskDelegate{}, 0, 0)
	l.Title = "Tasks"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	m := Model{
		store:       store,
		ctx:         ctx,
		width:       80,
		height:      24,
		list:        l,
		help:        help.New(),
		title:       newInput("Title", 200),
		description: newInput("Description (optional)", 500),
		finishedAt:  newInput("YYYY-MM-DDTHH:MM", 32),
	}
	m.list.SetSize(m.width-4, m.height-8)
	m.syncList()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, store *board.Store) error {
	p := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd { return m.dispatch(board.Fetch{}) }

// dispatch hands a to the store and wraps any Effect into a tea.Cmd.
func (m Model) dispatch(a board.Action) tea.Cmd {
	logging.Debugf("ui: dispatch %T", a)
	eff := m.store.Dispatch(a)
	if eff == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return actionMsg{action: eff(ctx)} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		cmd := m.dispatch(msg.action)
		m.syncList()
		m.clampCursor()
		if !m.store.State().ModalOpen {
			m.closeForm()
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if len(m.store.State().Notifications) > 0 {
			m.store.Dispatch(board.DismissNotifications{})
		}
		st := m.store.State()
		switch {
		case st.ModalOpen:
			return m.updateForm(msg)
		case st.DeleteOpen:
			return m.updateConfirm(msg)
		case m.dragging:
			return m.updateDrag(msg)
		}
		return m.updateBrowse(msg, st)
	}

	if m.store.State().View == board.ViewList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg, st board.State) (tea.Model, tea.Cmd) {
	// an active filter owns the keyboard
	if st.View == board.ViewList && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.ToggleView):
		next := board.ViewList
		if st.View == board.ViewList {
			next = board.ViewBoard
		}
		return m, m.dispatch(board.SetView{Mode: next})
	case key.Matches(msg, keys.Refresh):
		return m, m.dispatch(board.Fetch{})
	case key.Matches(msg, keys.Add):
		cmd := m.dispatch(board.OpenModal{})
		m.openForm()
		return m, cmd
	case key.Matches(msg, keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.dispatch(board.OpenModal{Task: &t})
		m.openForm()
		return m, cmd
	case key.Matches(msg, keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.dispatch(board.OpenDelete{ID: t.ID})
	case key.Matches(msg, keys.Move):
		t, ok := m.selected()
		if !ok || st.Busy {
			return m, nil
		}
		m.dragging = true
		m.dragID = t.ID
		m.dragSource = board.ColumnFor(t.Status)
		m.dragTarget = int(t.Status)
		return m, nil
	}

	if st.View == board.ViewList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	cols := st.Columns()
	switch {
	case key.Matches(msg, keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, keys.Right):
		if m.col < len(cols)-1 {
			m.col++
		}
	case key.Matches(msg, keys.Up):
		if m.row[m.col] > 0 {
			m.row[m.col]--
		}
	case key.Matches(msg, keys.Down):
		if m.row[m.col] < len(cols[m.col].Tasks)-1 {
			m.row[m.col]++
		}
	}
	return m, nil
}

func (m Model) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if m.dragTarget > 0 {
			m.dragTarget--
		}
	case key.Matches(msg, keys.Right):
		if m.dragTarget < len(board.ColumnIDs)-1 {
			m.dragTarget++
		}
	case key.Matches(msg, keys.Drop):
		drop := board.DragEnd{
			TaskID:      m.dragID,
			Source:      m.dragSource,
			Destination: board.DropOn(board.ColumnIDs[m.dragTarget]),
		}
		m.dragging = false
		m.col = m.dragTarget
		return m, m.dispatch(drop)
	case key.Matches(msg, keys.Cancel):
		m.dragging = false
		return m, m.dispatch(board.DragEnd{TaskID: m.dragID, Source: m.dragSource})
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		return m, m.dispatch(board.ConfirmDelete{})
	case key.Matches(msg, keys.Deny):
		return m, m.dispatch(board.CloseDelete{})
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editing := m.store.State().Editing != nil
	switch {
	case key.Matches(msg, keys.Cancel):
		cmd := m.dispatch(board.CloseModal{})
		m.closeForm()
		return m, cmd
	case key.Matches(msg, keys.Submit):
		m.store.Dispatch(board.EditForm{Form: m.form(editing)})
		return m, m.dispatch(board.Submit{})
	case key.Matches(msg, keys.NextField):
		m.setFocus(m.nextField(1, editing))
		return m, nil
	case key.Matches(msg, keys.PrevField):
		m.setFocus(m.nextField(-1, editing))
		return m, nil
	case key.Matches(msg, keys.StatusPrev) && editing && (m.focus == fieldStatus || msg.String() == "ctrl+left"):
		m.status = shiftStatus(m.status, -1)
		return m, nil
	case key.Matches(msg, keys.StatusNext) && editing && (m.focus == fieldStatus || msg.String() == "ctrl+right"):
		m.status = shiftStatus(m.status, 1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	case fieldFinishedAt:
		m.finishedAt, cmd = m.finishedAt.Update(msg)
	case fieldStatus:
		switch {
		case key.Matches(msg, keys.Left):
			m.status = shiftStatus(m.status, -1)
		case key.Matches(msg, keys.Right):
			m.status = shiftStatus(m.status, 1)
		}
	}
	return m, cmd
}

// openForm loads the store's form into the inputs.
func (m *Model) openForm() {
	f := m.store.State().Form
	m.formOpen = true
	m.title.SetValue(f.Title)
	m.title.CursorEnd()
	m.description.SetValue(f.Description)
	m.finishedAt.SetValue("")
	if f.FinishedAt != nil {
		m.finishedAt.SetValue(*f.FinishedAt)
	}
	m.status = f.Status
	m.setFocus(fieldTitle)
}

func (m *Model) closeForm() {
	if !m.formOpen {
		return
	}
	m.formOpen = false
	m.title.Blur()
	m.description.Blur()
	m.finishedAt.Blur()
}

func (m *Model) setFocus(field int) {
	m.focus = field
	m.title.Blur()
	m.description.Blur()
	m.finishedAt.Blur()
	switch field {
	case fieldTitle:
		m.title.Focus()
	case fieldDescription:
		m.description.Focus()
	case fieldFinishedAt:
		m.finishedAt.Focus()
	}
}

// nextField cycles focus; status and finishedAt only exist for edits.
func (m Model) nextField(step int, editing bool) int {
	n := fieldCount
	if !editing {
		n = fieldStatus
	}
	return ((m.focus+step)%n + n) % n
}

func (m Model) form(editing bool) board.Form {
	f := board.Form{
		Title:       m.title.Value(),
		Description: m.description.Value(),
		Status:      model.Pending,
	}
	if editing {
		f.Status = m.status
		f.FinishedAt = model.StringPtr(m.finishedAt.Value())
	}
	return f
}

func shiftStatus(s model.Status, step int) model.Status {
	n := len(model.Statuses)
	return model.Status(((int(s)+step)%n + n) % n)
}

// selected is the task under the cursor in the current view.
func (m Model) selected() (model.Task, bool) {
	st := m.store.State()
	if st.View == board.ViewList {
		it, ok := m.list.SelectedItem().(taskItem)
		if !ok {
			return model.Task{}, false
		}
		return st.Task(it.task.ID)
	}
	col := st.Columns()[m.col]
	r := m.row[m.col]
	if r < 0 || r >= len(col.Tasks) {
		return model.Task{}, false
	}
	return col.Tasks[r], true
}

func (m *Model) clampCursor() {
	cols := m.store.State().Columns()
	for i, c := range cols {
		if m.row[i] >= len(c.Tasks) {
			m.row[i] = max(len(c.Tasks)-1, 0)
		}
	}
}

func (m *Model) syncList() {
	tasks := m.store.State().Tasks
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}
	m.list.SetItems(items)
}

// taskItem adapts a task to bubbles/list.
type taskItem struct{ task model.Task }

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return i.task.DisplayDescription() }
func (i taskItem) FilterValue() string { return i.task.Title + " " + i.task.Description }

// taskDelegate renders one task per line.
type taskDelegate struct{}

func (d taskDelegate) Height() int                               { return 1 }
func (d taskDelegate) Spacing() int                              { return 0 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	t := it.task
	sym := statusStyle(t.Status).Render(statusSymbol(t.Status))
	title := t.Title
	if t.Status == model.Finished {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s  %s", sym, title, mutedStyle.Render(strings.ToLower(t.Status.String())))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}
