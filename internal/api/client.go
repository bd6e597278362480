package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/taskboard/internal/model"
)

// Path is the proxy route the client talks to.
const Path = "/api/todo"

// Client issues the four task operations against the proxy.
type Client struct {
	base string
	http *http.Client
	now  func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithClock replaces time.Now, used for finishedAt stamping.
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// New returns a client for the proxy at baseURL (e.g. http://localhost:3000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/") + Path,
		http: http.DefaultClient,
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// List fetches every task, bypassing any HTTP cache.
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	req, err := c.request(ctx, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	tasks, present, err := send[[]model.Task](c, req)
	if err != nil {
		return nil, err
	}
	if !present {
		return []model.Task{}, nil
	}
	return tasks, nil
}

// Get fetches one task by id.
func (c *Client) Get(ctx context.Context, id int) (model.Task, error) {
	req, err := c.request(ctx, http.MethodGet, idQuery(id), nil)
	if err != nil {
		return model.Task{}, err
	}
	task, present, err := send[model.Task](c, req)
	if err != nil {
		return model.Task{}, err
	}
	if !present {
		return model.Task{}, fmt.Errorf("get task %d: %w", id, ErrNoData)
	}
	return task, nil
}

// Create posts d and returns the task with its server-assigned fields.
func (c *Client) Create(ctx context.Context, d model.Draft) (model.Task, error) {
	req, err := c.request(ctx, http.MethodPost, nil, d)
	if err != nil {
		return model.Task{}, err
	}
	task, present, err := send[model.Task](c, req)
	if err != nil {
		return model.Task{}, err
	}
	if !present {
		return model.Task{}, fmt.Errorf("create task: %w", ErrNoData)
	}
	return task, nil
}

// Update replaces the whole record. A finished task without finishedAt is
// stamped with the current time; an existing finishedAt is sent as is.
func (c *Client) Update(ctx context.Context, t model.Task) error {
	t = StampFinished(t, c.now())
	req, err := c.request(ctx, http.MethodPatch, nil, t)
	if err != nil {
		return err
	}
	_, _, err = send[json.RawMessage](c, req)
	return err
}

// Delete removes the task with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	req, err := c.request(ctx, http.MethodDelete, idQuery(id), nil)
	if err != nil {
		return err
	}
	_, _, err = send[json.RawMessage](c, req)
	return err
}

// StampFinished sets FinishedAt to now when a finished task has none.
func StampFinished(t model.Task, now time.Time) model.Task {
	if t.Status == model.Finished && !t.HasFinishedAt() {
		t.FinishedAt = model.StringPtr(model.ISOTimestamp(now))
	}
	return t
}

func idQuery(id int) url.Values {
	return url.Values{"id": []string{strconv.Itoa(id)}}
}

func (c *Client) request(ctx context.Context, method string, q url.Values, body any) (*http.Request, error) {
	target := c.base
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func send[T any](c *Client, req *http.Request) (T, bool, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		var zero T
		return zero, false, &Error{Message: "request failed", Details: err.Error()}
	}
	defer resp.Body.Close()
	return decode[T](resp)
}
