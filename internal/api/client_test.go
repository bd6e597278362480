package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskboard/internal/model"
)

// captured is the last request the fake proxy received.
type captured struct {
	method string
	query  string
	header http.Header
	body   []byte
}

func fakeProxy(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Path, r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		*got = captured{method: r.Method, query: r.URL.RawQuery, header: r.Header.Clone(), body: b}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

var fixedNow = time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

func newClient(url string) *Client {
	return New(url, WithClock(func() time.Time { return fixedNow }))
}

func TestList(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true,"data":[
		{"id":1,"title":"a","description":"","status":0,"createdAt":"2024-01-01T00:00:00Z","finishedAt":null},
		{"id":2,"title":"b","description":"d","status":2,"createdAt":"2024-01-01T00:00:00Z","finishedAt":"2024-01-02T00:00:00Z"}]}`)

	tasks, err := newClient(srv.URL).List(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Nil(t, tasks[0].FinishedAt)
	assert.Equal(t, model.Finished, tasks[1].Status)
	assert.Equal(t, "2024-01-02T00:00:00Z", *tasks[1].FinishedAt)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "no-cache", got.header.Get("Cache-Control"))
}

func TestList_NoDataIsAnEmptyList(t *testing.T) {
	srv, _ := fakeProxy(t, http.StatusOK, `{"success":true}`)

	tasks, err := newClient(srv.URL).List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCreate(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true,"data":{"id":7,"title":"Buy milk","description":"","status":0,"createdAt":"2024-06-01T12:30:00.000Z","finishedAt":null}}`)

	task, err := newClient(srv.URL).Create(context.Background(), model.Draft{Title: "Buy milk"})

	require.NoError(t, err)
	assert.Equal(t, 7, task.ID)
	assert.Nil(t, task.FinishedAt)
	assert.Equal(t, http.MethodPost, got.method)
	assert.JSONEq(t, `{"title":"Buy milk","description":"","status":0}`, string(got.body))
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
}

func TestCreate_NoDataIsAnError(t *testing.T) {
	srv, _ := fakeProxy(t, http.StatusOK, `{"success":true,"data":null}`)

	_, err := newClient(srv.URL).Create(context.Background(), model.Draft{Title: "x"})

	assert.ErrorIs(t, err, ErrNoData)
}

func TestUpdate_StampsFinishedAt(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true}`)

	err := newClient(srv.URL).Update(context.Background(), model.Task{
		ID: 5, Title: "x", Status: model.Finished, CreatedAt: "2024-01-01T00:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, got.method)
	var sent model.Task
	require.NoError(t, json.Unmarshal(got.body, &sent))
	require.NotNil(t, sent.FinishedAt)
	assert.Equal(t, "2024-06-01T12:30:00.000Z", *sent.FinishedAt)
	assert.Equal(t, "2024-01-01T00:00:00Z", sent.CreatedAt)
}

func TestUpdate_KeepsExistingFinishedAt(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true}`)

	for _, status := range []model.Status{model.Finished, model.Pending} {
		err := newClient(srv.URL).Update(context.Background(), model.Task{
			ID: 5, Title: "x", Status: status, FinishedAt: model.StringPtr("2024-01-02T08:00"),
		})
		require.NoError(t, err)

		var sent model.Task
		require.NoError(t, json.Unmarshal(got.body, &sent))
		require.NotNil(t, sent.FinishedAt)
		assert.Equal(t, "2024-01-02T08:00", *sent.FinishedAt, status.String())
	}
}

func TestUpdate_NotFinishedSendsNull(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true}`)

	require.NoError(t, newClient(srv.URL).Update(context.Background(), model.Task{ID: 5, Title: "x", Status: model.InProgress}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(got.body, &raw))
	assert.Contains(t, raw, "finishedAt")
	assert.Nil(t, raw["finishedAt"])
}

func TestDelete(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true}`)

	require.NoError(t, newClient(srv.URL).Delete(context.Background(), 5))

	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "id=5", got.query)
	assert.Empty(t, got.body)
}

func TestGet(t *testing.T) {
	srv, got := fakeProxy(t, http.StatusOK, `{"success":true,"data":{"id":5,"title":"x","status":1}}`)

	task, err := newClient(srv.URL).Get(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, model.InProgress, task.Status)
	assert.Equal(t, "id=5", got.query)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		tip     string
	}{
		{"http error with message", http.StatusNotFound, `{"error":"task 5 not found"}`, "task 5 not found (Status: 404)", ""},
		{"http error without message", http.StatusInternalServerError, `{}`, "unknown error returned by the server (Status: 500)", ""},
		{"http error not json", http.StatusInternalServerError, `oops`, "unknown error returned by the server (Status: 500)", ""},
		{"proxy transport failure", http.StatusBadGateway, `{"error":"connection refused","details":"dial tcp","tip":"start the backend"}`, "connection refused (Status: 502)", "start the backend"},
		{"envelope failure", http.StatusOK, `{"success":false,"error":"title is required"}`, "title is required", ""},
		{"envelope failure without message", http.StatusOK, `{"success":false}`, "unknown error returned by the server", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeProxy(t, tt.status, tt.body)

			err := newClient(srv.URL).Delete(context.Background(), 1)

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.tip, TipOf(err))
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestProxyUnreachable(t *testing.T) {
	srv, _ := fakeProxy(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	_, err := newClient(url).List(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.Contains(t, err.Error(), "request failed")
}

func TestStampFinished(t *testing.T) {
	empty := model.Task{Status: model.Finished, FinishedAt: model.StringPtr("")}
	assert.Equal(t, "2024-06-01T12:30:00.000Z", *StampFinished(empty, fixedNow).FinishedAt)
	assert.Nil(t, StampFinished(model.Task{Status: model.Pending}, fixedNow).FinishedAt)
}
