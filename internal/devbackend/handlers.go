package devbackend

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/store"
)

// envelope is the response shape every route answers with.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TaskHandler serves the task collection from a store.Store.
type TaskHandler struct {
	store  store.Store
	now    func() time.Time
	logger *log.Logger
}

func NewTaskHandler(s store.Store, now func() time.Time, logger *log.Logger) *TaskHandler {
	if now == nil {
		now = time.Now
	}
	return &TaskHandler{store: s, now: now, logger: logger}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Data: tasks})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	task, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Data: task})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	task := model.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      model.Pending,
		CreatedAt:   model.ISOTimestamp(h.now()),
	}
	if task.Title == "" {
		h.fail(c, &ValidationError{Field: "title", Message: "title is required"})
		return
	}
	created, err := h.store.Create(c.Request.Context(), task)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, envelope{Success: true, Data: created})
}

// UpdateTask replaces a task. The id comes from the path or, on the bare
// collection route, from the body.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var input model.Task
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	if c.Param("id") != "" {
		id, err := pathID(c)
		if err != nil {
			h.fail(c, err)
			return
		}
		input.ID = id
	}
	if input.ID <= 0 {
		h.fail(c, &ValidationError{Field: "id", Message: "id is required"})
		return
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		h.fail(c, &ValidationError{Field: "title", Message: "title is required"})
		return
	}
	if !input.Status.Valid() {
		h.fail(c, &ValidationError{Field: "status", Message: "status must be 0, 1 or 2"})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.store.Get(ctx, input.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	input.CreatedAt = existing.CreatedAt
	input.Description = strings.TrimSpace(input.Description)
	if !input.HasFinishedAt() {
		input.FinishedAt = nil
	}
	updated, err := h.store.Update(ctx, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Data: updated})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true})
}

func (h *TaskHandler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Printf("[%s] %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal error"
	}
	if errors.Is(err, ErrNotFound) {
		msg = ErrNotFound.Error()
	}
	c.JSON(status, envelope{Success: false, Error: msg})
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "id", Message: "id must be a positive integer"}
	}
	return id, nil
}

// bindJSON decodes the body, rejecting empty and malformed payloads.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ValidationError{Message: "request body is empty"}
		}
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.As(err, &syn) || errors.As(err, &typ) {
			return &ValidationError{Message: "invalid JSON body: " + err.Error()}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}
