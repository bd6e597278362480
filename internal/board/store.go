package board

import (
	"context"
	"strings"
	"time"

	"github.com/idilsaglam/taskboard/internal/api"
	"github.com/idilsaglam/taskboard/internal/model"
)

// TaskAPI is the part of api.Client the board needs.
type TaskAPI interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, d model.Draft) (model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id int) error
}

var _ TaskAPI = (*api.Client)(nil)

// Options tune the store.
type Options struct {
	Now  func() time.Time
	View ViewMode
	// ClearFinishedOnReopen drops finishedAt when a task leaves Finished.
	// The default keeps it.
	ClearFinishedOnReopen bool
}

// Store owns the board State. Dispatch is the only way to change it and must be
// called from a single goroutine; Effects may run anywhere.
type Store struct {
	api   TaskAPI
	opts  Options
	state State

	inflight int  // effects handed out and not yet reported back
	mutating bool // a create, update or delete is outstanding
}

func NewStore(taskAPI TaskAPI, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		api:   taskAPI,
		opts:  opts,
		state: State{View: opts.View, Tasks: []model.Task{}},
	}
}

// State returns a copy of the current state.
func (s *Store) State() State { return s.state.clone() }

// Dispatch applies a to the state and returns the follow-up Effect, if any.
func (s *Store) Dispatch(a Action) Effect {
	switch a.(type) {
	case FetchDone, SaveDone, DeleteDone, MoveDone:
		if s.inflight > 0 {
			s.inflight--
		}
	}
	switch a.(type) {
	case SaveDone, DeleteDone, MoveDone:
		s.mutating = false
	}

	eff := s.reduce(a)
	if eff != nil {
		s.inflight++
		switch a.(type) {
		case Submit, ConfirmDelete, DragEnd:
			s.mutating = true
		}
	}
	s.state.Busy = s.inflight > 0
	return eff
}

// Run dispatches a and runs every resulting Effect inline until none is left.
func (s *Store) Run(ctx context.Context, a Action) {
	for eff := s.Dispatch(a); eff != nil; {
		eff = s.Dispatch(eff(ctx))
	}
}

func (s *Store) reduce(a Action) Effect {
	switch a := a.(type) {
	case Fetch:
		return s.fetch()
	case FetchDone:
		if a.Err != nil {
			s.fail("Failed to load tasks", a.Err)
			s.state.Tasks = []model.Task{}
			return nil
		}
		if a.Tasks == nil {
			a.Tasks = []model.Task{}
		}
		s.state.Tasks = a.Tasks
		return nil

	case OpenModal:
		s.openModal(a.Task)
		return nil
	case CloseModal:
		s.closeModal()
		return nil
	case EditForm:
		if s.state.ModalOpen {
			s.state.Form = a.Form
		}
		return nil
	case Submit:
		if !s.state.ModalOpen || s.mutating {
			return nil
		}
		return s.submit()
	case SaveDone:
		if a.Err != nil {
			s.fail("Failed to save task", a.Err)
			return nil
		}
		if a.Created {
			s.succeed("Task created")
		} else {
			s.succeed("Task updated")
		}
		s.closeModal()
		return s.fetch()

	case OpenDelete:
		s.state.DeleteOpen = true
		s.state.DeletingID = a.ID
		return nil
	case CloseDelete:
		s.closeDelete()
		return nil
	case ConfirmDelete:
		if s.state.DeletingID == 0 || s.mutating {
			return nil
		}
		id := s.state.DeletingID
		return func(ctx context.Context) Action {
			return DeleteDone{Err: s.api.Delete(ctx, id)}
		}
	case DeleteDone:
		s.closeDelete()
		if a.Err != nil {
			s.fail("Failed to delete task", a.Err)
			return nil
		}
		s.succeed("Task deleted")
		return s.fetch()

	case DragEnd:
		if s.mutating {
			return nil
		}
		return s.dragEnd(a)
	case MoveDone:
		if a.Err != nil {
			s.fail("Failed to move task", a.Err)
			return nil
		}
		s.succeed("Task moved")
		return s.fetch()

	case SetView:
		s.state.View = a.Mode
		return nil
	case DismissNotifications:
		s.state.Notifications = nil
		return nil
	}
	return nil
}

func (s *Store) fetch() Effect {
	return func(ctx context.Context) Action {
		tasks, err := s.api.List(ctx)
		return FetchDone{Tasks: tasks, Err: err}
	}
}

func (s *Store) openModal(t *model.Task) {
	s.state.ModalOpen = true
	if t == nil {
		s.state.Editing = nil
		s.state.Form = Form{Status: model.Pending}
		return
	}
	e := *t
	e.FinishedAt = copyPtr(t.FinishedAt)
	s.state.Editing = &e
	s.state.Form = Form{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		FinishedAt:  copyPtr(t.FinishedAt),
	}
}

func (s *Store) closeModal() {
	s.state.ModalOpen = false
	s.state.Editing = nil
	s.state.Form = Form{Status: model.Pending}
}

func (s *Store) closeDelete() {
	s.state.DeleteOpen = false
	s.state.DeletingID = 0
}

// submit validates the form and builds the record to create or update.
func (s *Store) submit() Effect {
	f := s.state.Form
	rec := model.Task{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
	}
	if rec.Title == "" {
		s.fail("Title is required", nil)
		return nil
	}

	editing := s.state.Editing
	if editing == nil {
		rec.Status = model.Pending
		rec.CreatedAt = model.ISOTimestamp(s.opts.Now())
		rec.FinishedAt = nil
		return func(ctx context.Context) Action {
			_, err := s.api.Create(ctx, rec.Draft())
			return SaveDone{Created: true, Err: err}
		}
	}

	rec.ID = editing.ID
	rec.CreatedAt = editing.CreatedAt
	rec.Status = f.Status
	rec.FinishedAt = copyPtr(f.FinishedAt)
	if rec.FinishedAt != nil && strings.TrimSpace(*rec.FinishedAt) == "" {
		rec.FinishedAt = nil
	}
	s.reopen(&rec, editing.Status)
	return func(ctx context.Context) Action {
		return SaveDone{Err: s.api.Update(ctx, rec)}
	}
}

// dragEnd turns a drop into a status change.
func (s *Store) dragEnd(a DragEnd) Effect {
	if a.Destination == nil {
		return nil
	}
	task, ok := s.state.Task(a.TaskID)
	if !ok {
		return nil
	}
	status, ok := StatusFor(*a.Destination)
	if !ok || status == task.Status {
		return nil
	}

	prev := task.Status
	task.Status = status
	task.FinishedAt = copyPtr(task.FinishedAt)
	if !task.HasFinishedAt() && status == model.Finished {
		task.FinishedAt = model.StringPtr(model.LocalMinuteTimestamp(s.opts.Now()))
	}
	s.reopen(&task, prev)

	return func(ctx context.Context) Action {
		return MoveDone{Err: s.api.Update(ctx, task)}
	}
}

// reopen applies the ClearFinishedOnReopen policy to a task leaving Finished.
func (s *Store) reopen(t *model.Task, prev model.Status) {
	if s.opts.ClearFinishedOnReopen && prev == model.Finished && t.Status != model.Finished {
		t.FinishedAt = nil
	}
}

func (s *Store) notify(n Notification) {
	n.At = s.opts.Now()
	s.state.Notifications = append(s.state.Notifications, n)
	if over := len(s.state.Notifications) - maxNotifications; over > 0 {
		s.state.Notifications = s.state.Notifications[over:]
	}
}

func (s *Store) succeed(msg string) {
	s.notify(Notification{Level: LevelSuccess, Message: msg})
}

func (s *Store) fail(msg string, err error) {
	n := Notification{Level: LevelError, Message: msg}
	if err != nil {
		n.Message = msg + ": " + err.Error()
		n.Tip = api.TipOf(err)
	}
	s.notify(n)
}
