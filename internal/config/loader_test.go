package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ProjectFileOverridesGlobal(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".taskboard", "config.yaml"), `
proxy:
  addr: ":4000"
backend:
  url: "https://tasks.internal:9000/todo"
  timeout: 5s
ui:
  clear_finished_on_reopen: true
`)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Proxy.Addr)
	assert.Equal(t, "https://tasks.internal:9000/todo", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.UI.ClearFinishedOnReopen)
	assert.Equal(t, "json", cfg.Backend.Store, "unset keys keep defaults")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "backend:\n  store: json\n")
	t.Setenv("TASKBOARD_BACKEND_STORE", "sqlite")
	t.Setenv("TASKBOARD_PROXY_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend.Store)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Proxy.AllowedOrigins)
}

func TestLoad_FlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv("TASKBOARD_BACKEND_URL", "https://env.test/todo")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("backend-url", "", "")
	require.NoError(t, fs.Parse([]string{"--backend-url", "https://flag.test/todo"}))

	l := NewLoader()
	require.NoError(t, l.BindFlags(fs))
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://flag.test/todo", cfg.Backend.URL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := NewLoader().Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty backend url", func(c *Config) { c.Backend.URL = "" }},
		{"bad proxy scheme", func(c *Config) { c.Proxy.URL = "ftp://x" }},
		{"unknown store", func(c *Config) { c.Backend.Store = "redis" }},
		{"unknown view", func(c *Config) { c.UI.View = "gantt" }},
		{"negative rate", func(c *Config) { c.Proxy.RateLimit = -1 }},
		{"cert without key", func(c *Config) { c.Backend.TLSCert = "cert.pem" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
