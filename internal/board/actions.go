package board

import (
	"context"

	"github.com/idilsaglam/taskboard/internal/model"
)

// Action is something that happened: user input or the result of an Effect.
type Action interface{ action() }

// Effect is the network half of an action. It runs outside the state loop and
// reports back with another Action.
type Effect func(ctx context.Context) Action

type (
	// Fetch reloads the whole task list.
	Fetch     struct{}
	FetchDone struct {
		Tasks []model.Task
		Err   error
	}

	// OpenModal opens the task form; a nil Task means create.
	OpenModal  struct{ Task *model.Task }
	CloseModal struct{}
	EditForm   struct{ Form Form }
	Submit     struct{}
	SaveDone   struct {
		Created bool
		Err     error
	}

	OpenDelete    struct{ ID int }
	CloseDelete   struct{}
	ConfirmDelete struct{}
	DeleteDone    struct{ Err error }

	// DragEnd is a card dropped somewhere. A nil Destination means the drop
	// happened outside every column.
	DragEnd struct {
		TaskID      int
		Source      ColumnID
		Destination *ColumnID
	}
	MoveDone struct{ Err error }

	SetView              struct{ Mode ViewMode }
	DismissNotifications struct{}
)

func (Fetch) action()                {}
func (FetchDone) action()            {}
func (OpenModal) action()            {}
func (CloseModal) action()           {}
func (EditForm) action()             {}
func (Submit) action()               {}
func (SaveDone) action()             {}
func (OpenDelete) action()           {}
func (CloseDelete) action()          {}
func (ConfirmDelete) action()        {}
func (DeleteDone) action()           {}
func (DragEnd) action()              {}
func (MoveDone) action()             {}
func (SetView) action()              {}
func (DismissNotifications) action() {}

// DropOn is a convenience for building a DragEnd destination.
func DropOn(id ColumnID) *ColumnID { return &id }
