package board

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/taskboard/internal/model"
)

// ColumnID identifies a board column, and with it a drop target.
type ColumnID string

const (
	ColumnPending    ColumnID = "pending"
	ColumnInProgress ColumnID = "in_progress"
	ColumnFinished   ColumnID = "finished"
)

// ColumnIDs lists the columns left to right. Each maps to exactly one status.
var ColumnIDs = [...]ColumnID{ColumnPending, ColumnInProgress, ColumnFinished}

// ColumnFor returns the column a status lives in.
func ColumnFor(s model.Status) ColumnID {
	switch s {
	case model.InProgress:
		return ColumnInProgress
	case model.Finished:
		return ColumnFinished
	default:
		return ColumnPending
	}
}

// StatusFor returns the status a drop into id assigns.
func StatusFor(id ColumnID) (model.Status, bool) {
	switch id {
	case ColumnPending:
		return model.Pending, true
	case ColumnInProgress:
		return model.InProgress, true
	case ColumnFinished:
		return model.Finished, true
	}
	return 0, false
}

// ParseColumn accepts a column id, a status label or a status number.
func ParseColumn(s string) (ColumnID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "0", "todo":
		return ColumnPending, nil
	case "in_progress", "in-progress", "inprogress", "progress", "1":
		return ColumnInProgress, nil
	case "finished", "done", "2":
		return ColumnFinished, nil
	}
	return "", fmt.Errorf("unknown column %q (want pending, in_progress or finished)", s)
}

func (id ColumnID) Title() string {
	if st, ok := StatusFor(id); ok {
		return st.String()
	}
	return string(id)
}

// Column is one bucket of the board.
type Column struct {
	ID     ColumnID
	Status model.Status
	Tasks  []model.Task
}

// Columns partitions tasks by status. Order inside a column follows tasks;
// tasks with an unknown status land nowhere.
func Columns(tasks []model.Task) [3]Column {
	var cols [3]Column
	for i, id := range ColumnIDs {
		st, _ := StatusFor(id)
		cols[i] = Column{ID: id, Status: st, Tasks: []model.Task{}}
	}
	for _, t := range tasks {
		if !t.Status.Valid() {
			continue
		}
		cols[t.Status].Tasks = append(cols[t.Status].Tasks, t)
	}
	return cols
}

// Counts holds the number of tasks per status, indexed by model.Status.
type Counts [3]int

func (c Counts) Total() int { return c[0] + c[1] + c[2] }

// Stats counts tasks per status for headers and progress bars.
func Stats(tasks []model.Task) Counts {
	var c Counts
	for _, t := range tasks {
		if t.Status.Valid() {
			c[t.Status]++
		}
	}
	return c
}

// ViewMode selects the flat list or the three-column board.
type ViewMode int

const (
	ViewBoard ViewMode = iota
	ViewList
)

func (v ViewMode) String() string {
	if v == ViewList {
		return "list"
	}
	return "board"
}

func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "board", "kanban":
		return ViewBoard, nil
	case "list":
		return ViewList, nil
	}
	return ViewBoard, fmt.Errorf("unknown view %q (want board or list)", s)
}
