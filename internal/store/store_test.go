package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/store"
	"github.com/idilsaglam/taskboard/internal/store/jsonstore"
	"github.com/idilsaglam/taskboard/internal/store/sqlite"
)

func implementations(t *testing.T) map[string]store.Store {
	t.Helper()
	dir := t.TempDir()

	js, err := jsonstore.New(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)

	db, err := sqlite.Open(context.Background(), filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mem, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	return map[string]store.Store{"json": js, "sqlite": db, "sqlite-memory": mem}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Empty(t, list)

			a, err := s.Create(ctx, model.Task{Title: "a", Status: model.Pending, CreatedAt: "2024-06-01T10:00:00.000Z"})
			require.NoError(t, err)
			b, err := s.Create(ctx, model.Task{Title: "b", Description: "second", Status: model.Pending, CreatedAt: "2024-06-01T11:00:00.000Z"})
			require.NoError(t, err)
			assert.Positive(t, a.ID)
			assert.Greater(t, b.ID, a.ID)

			got, err := s.Get(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, b, got)
			assert.Nil(t, got.FinishedAt)

			b.Status = model.Finished
			b.FinishedAt = model.StringPtr("2024-06-02T09:15")
			_, err = s.Update(ctx, b)
			require.NoError(t, err)
			got, err = s.Get(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, model.Finished, got.Status)
			require.NotNil(t, got.FinishedAt)
			assert.Equal(t, "2024-06-02T09:15", *got.FinishedAt)

			require.NoError(t, s.Delete(ctx, a.ID))
			list, err = s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, b.ID, list[0].ID)

			// ids keep increasing after deletes
			c, err := s.Create(ctx, model.Task{Title: "c", CreatedAt: "2024-06-03T09:00:00.000Z"})
			require.NoError(t, err)
			assert.Greater(t, c.ID, b.ID)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, 42)
			assert.ErrorIs(t, err, store.ErrNotFound)
			_, err = s.Update(ctx, model.Task{ID: 42, Title: "x"})
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, 42), store.ErrNotFound)
		})
	}
}

func TestJSONStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "todos.json")

	first, err := jsonstore.New(path)
	require.NoError(t, err)
	_, err = first.Create(ctx, model.Task{Title: "keep me", CreatedAt: "2024-06-01T10:00:00.000Z"})
	require.NoError(t, err)

	second, err := jsonstore.New(path)
	require.NoError(t, err)
	list, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep me", list[0].Title)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"finishedAt": null`)
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := jsonstore.New(path)
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Create(ctx, model.Task{Title: "durable", CreatedAt: "2024-06-01T10:00:00.000Z"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// migrations are not applied twice
	s, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "durable", list[0].Title)
}
