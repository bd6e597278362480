package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskboard/internal/devbackend"
	"github.com/idilsaglam/taskboard/internal/proxy"
	"github.com/idilsaglam/taskboard/internal/store/jsonstore"
	"github.com/idilsaglam/taskboard/internal/ui"
)

// isolate keeps user and project config files out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { ui.SetOutput(os.Stdout, os.Stderr) })
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = RunWithIO(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// startStack serves a dev backend behind a proxy and returns the proxy URL.
func startStack(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st, err := jsonstore.New(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)
	backend := httptest.NewServer(devbackend.NewServer(devbackend.Options{Store: st}).Handler())
	t.Cleanup(backend.Close)

	p := proxy.NewServer(proxy.Options{BackendURL: backend.URL + devbackend.Route, Client: &http.Client{}})
	front := httptest.NewServer(p.Handler())
	t.Cleanup(front.Close)
	return front.URL
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"no subcommand", nil, ""},
		{"unknown subcommand", []string{"frobnicate"}, "unknown subcommand: frobnicate"},
		{"add without title", []string{"add"}, "usage: taskboard add"},
		{"add blank title", []string{"add", "  "}, "add: empty title"},
		{"move not a number", []string{"move", "x", "done"}, "move: not a task id: x"},
		{"move bad column", []string{"move", "1", "archive"}, `unknown column "archive"`},
		{"rm too many", []string{"rm", "1", "2"}, "usage: taskboard rm <id>"},
		{"unknown flag", []string{"ls", "--nope"}, "unknown flag: --nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestHelpListsSubcommands(t *testing.T) {
	isolate(t)
	code, stdout, _ := run(t, "--help")
	assert.Equal(t, 0, code)
	for _, sub := range []string{"proxy", "backend", "ui", "ls", "add", "move", "rm"} {
		assert.Contains(t, stdout, sub)
	}
}

func TestInvalidConfigIsRuntimeError(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t, "ls", "--view", "gantt")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ui.view")
}

func TestTaskLifecycle(t *testing.T) {
	isolate(t)
	url := startStack(t)

	code, stdout, stderr := run(t, "add", "Buy", "milk", "-d", "2 liters", "--proxy-url", url)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "✔ added")

	code, stdout, _ = run(t, "ls", "--proxy-url", url)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Buy milk")
	assert.Contains(t, stdout, "2 liters")
	assert.Contains(t, stdout, "Total 1")
	assert.Contains(t, stdout, "0%")

	code, stdout, stderr = run(t, "move", "1", "done", "--proxy-url", url)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "moved #1 to Finished")

	code, stdout, _ = run(t, "move", "1", "finished", "--proxy-url", url)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "already in Finished")

	code, stdout, _ = run(t, "ls", "-g", "--proxy-url", url)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Pending")
	assert.Contains(t, stdout, "(none)")
	assert.Contains(t, stdout, "finished ")
	assert.Contains(t, stdout, "100%")

	code, stdout, _ = run(t, "rm", "1", "--proxy-url", url)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "removed")

	code, _, stderr = run(t, "rm", "1", "--proxy-url", url)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Failed to delete task: task not found")

	code, _, stderr = run(t, "move", "1", "pending", "--proxy-url", url)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no task with id 1")
	assert.Contains(t, stderr, "Hint: run `taskboard ls`")
}

func TestUnreachableProxy(t *testing.T) {
	isolate(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	code, _, stderr := run(t, "ls", "--proxy-url", "http://"+addr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Failed to load tasks: request failed")
}

func TestBackendTipIsPrinted(t *testing.T) {
	isolate(t)
	gin.SetMode(gin.TestMode)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	dead := ln.Addr().String()
	require.NoError(t, ln.Close())

	p := proxy.NewServer(proxy.Options{BackendURL: "http://" + dead + "/todo", Client: &http.Client{}})
	front := httptest.NewServer(p.Handler())
	t.Cleanup(front.Close)

	code, _, stderr := run(t, "ls", "--proxy-url", front.URL)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "connection refused")
	assert.Contains(t, stderr, "Hint: ")
}
