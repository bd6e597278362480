// Package sqlite stores tasks in a SQLite database through modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/store"
	"github.com/idilsaglam/taskboard/internal/store/sqlite/migrations"
)

const DefaultFileName = "todos.db"

const taskColumns = `id, title, description, status, created_at, finished_at`

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path and migrates it.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id int) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, store.NotFound(id)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO tasks (title, description, status, created_at, finished_at)
	VALUES (?, ?, ?, ?, ?)`,
		t.Title, t.Description, int(t.Status), t.CreatedAt, nullString(t.FinishedAt))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = int(id)
	return t, nil
}

func (s *Store) Update(ctx context.Context, t model.Task) (model.Task, error) {
	res, err := s.db.ExecContext(ctx, `
	UPDATE tasks
	SET title = ?, description = ?, status = ?, created_at = ?, finished_at = ?
	WHERE id = ?`,
		t.Title, t.Description, int(t.Status), t.CreatedAt, nullString(t.FinishedAt), t.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := expectRow(res, t.ID); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectRow(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (model.Task, error) {
	var (
		t        model.Task
		status   int
		finished sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.Title, &t.Description, &status, &t.CreatedAt, &finished); err != nil {
		return model.Task{}, err
	}
	t.Status = model.Status(status)
	if finished.Valid {
		t.FinishedAt = model.StringPtr(finished.String)
	}
	return t, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func expectRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.NotFound(id)
	}
	return nil
}
