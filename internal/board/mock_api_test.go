package board

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/idilsaglam/taskboard/internal/model"
)

// mockAPI implements TaskAPI for testing
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *mockAPI) Create(ctx context.Context, d model.Draft) (model.Task, error) {
	args := m.Called(ctx, d)
	task, _ := args.Get(0).(model.Task)
	return task, args.Error(1)
}

func (m *mockAPI) Update(ctx context.Context, t model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockAPI) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
