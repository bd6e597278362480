package board

import (
	"slices"
	"time"

	"github.com/idilsaglam/taskboard/internal/model"
)

// Level is the severity of a Notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notification is a toast shown to the user.
type Notification struct {
	Level   Level
	Message string
	Tip     string // remediation hint from the proxy, if any
	At      time.Time
}

// maxNotifications bounds the toast history.
const maxNotifications = 20

// Form is the edit buffer of the task modal.
type Form struct {
	Title       string
	Description string
	Status      model.Status
	FinishedAt  *string
}

// State is everything the UI renders. Only the Store mutates it.
type State struct {
	Tasks []model.Task
	View  ViewMode

	ModalOpen bool
	Editing   *model.Task // nil while creating
	Form      Form

	DeleteOpen bool
	DeletingID int

	Notifications []Notification

	// Busy is true while a network effect is outstanding.
	Busy bool
}

// Columns derives the board from the current task list.
func (s State) Columns() [3]Column { return Columns(s.Tasks) }

// Task finds a task of the current list by id.
func (s State) Task(id int) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// LastNotification returns the most recent toast.
func (s State) LastNotification() (Notification, bool) {
	if len(s.Notifications) == 0 {
		return Notification{}, false
	}
	return s.Notifications[len(s.Notifications)-1], true
}

// clone copies the slices so callers cannot alias store internals.
func (s State) clone() State {
	c := s
	c.Tasks = slices.Clone(s.Tasks)
	c.Notifications = slices.Clone(s.Notifications)
	if s.Editing != nil {
		e := *s.Editing
		c.Editing = &e
	}
	c.Form.FinishedAt = copyPtr(s.Form.FinishedAt)
	return c
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
