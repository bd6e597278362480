package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// One process at a time; the mutex only serializes handlers of this process.

const DefaultFileName = "todos.json"

// document is the file layout. NextID keeps ids increasing after deletes.
type document struct {
	NextID int          `json:"nextId"`
	Tasks  []model.Task `json:"tasks"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Store = (*Store)(nil)

// New stores tasks in path, or in ./todos.json when path is empty.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() (document, error) {
	doc := document{NextID: 1, Tasks: []model.Task{}}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}
	for _, t := range doc.Tasks {
		if t.ID >= doc.NextID {
			doc.NextID = t.ID + 1
		}
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	// replaced via rename, never written in place
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

func (s *Store) Get(ctx context.Context, id int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(doc.Tasks, id)
	if i < 0 {
		return model.Task{}, store.NotFound(id)
	}
	return doc.Tasks[i], nil
}

func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	t.ID = doc.NextID
	doc.NextID++
	doc.Tasks = append(doc.Tasks, t)
	if err := s.save(doc); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(doc.Tasks, t.ID)
	if i < 0 {
		return model.Task{}, store.NotFound(t.ID)
	}
	doc.Tasks[i] = t
	if err := s.save(doc); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(doc.Tasks, id)
	if i < 0 {
		return store.NotFound(id)
	}
	doc.Tasks = slices.Delete(doc.Tasks, i, i+1)
	return s.save(doc)
}

func (s *Store) Close() error { return nil }

func indexOf(tasks []model.Task, id int) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}
