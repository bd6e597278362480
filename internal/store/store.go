// Package store defines the persistence contract of the development backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/taskboard/internal/model"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Store persists tasks. Create assigns the id; Update replaces the whole record.
type Store interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id int) (model.Task, error)
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int) error
	Close() error
}

// NotFound wraps ErrNotFound with the id that was asked for.
func NotFound(id int) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}
