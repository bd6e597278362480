package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds every setting of the taskboard binary.
type Config struct {
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Backend BackendConfig `mapstructure:"backend"`
	UI      UIConfig      `mapstructure:"ui"`
	Debug   bool          `mapstructure:"debug"`
}

// ProxyConfig configures the /api/todo proxy and how clients reach it.
type ProxyConfig struct {
	Addr           string   `mapstructure:"addr"`
	URL            string   `mapstructure:"url"` // base URL the UI and CLI use
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimit      float64  `mapstructure:"rate_limit"` // requests per second per client, 0 disables
	RateBurst      int      `mapstructure:"rate_burst"`
}

// BackendConfig configures the remote task collection. The Addr, Store, DataFile
// and TLS fields are only read by the bundled development backend.
type BackendConfig struct {
	URL                string        `mapstructure:"url"`
	CAFile             string        `mapstructure:"ca_file"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"` // 0 means wait forever

	Addr     string `mapstructure:"addr"`
	Store    string `mapstructure:"store"` // json | sqlite
	DataFile string `mapstructure:"data_file"`
	TLSCert  string `mapstructure:"tls_cert"`
	TLSKey   string `mapstructure:"tls_key"`
}

// UIConfig tunes the interactive board.
type UIConfig struct {
	View                  string `mapstructure:"view"` // board | list
	ClearFinishedOnReopen bool   `mapstructure:"clear_finished_on_reopen"`
	Theme                 string `mapstructure:"theme"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Proxy: ProxyConfig{
			Addr:           ":3000",
			URL:            "http://localhost:3000",
			AllowedOrigins: []string{"http://localhost:3000"},
			RateBurst:      20,
		},
		Backend: BackendConfig{
			URL:      "https://localhost:7085/todo",
			Addr:     ":7085",
			Store:    "json",
			DataFile: "todos.json",
		},
		UI: UIConfig{
			View:  "board",
			Theme: "classic",
		},
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if err := validURL("proxy.url", c.Proxy.URL); err != nil {
		return err
	}
	if err := validURL("backend.url", c.Backend.URL); err != nil {
		return err
	}
	switch c.Backend.Store {
	case "json", "sqlite":
	default:
		return fmt.Errorf("backend.store: unknown store %q (want json or sqlite)", c.Backend.Store)
	}
	switch strings.ToLower(c.UI.View) {
	case "board", "kanban", "list":
	default:
		return fmt.Errorf("ui.view: unknown view %q (want board or list)", c.UI.View)
	}
	if c.Proxy.RateLimit < 0 {
		return fmt.Errorf("proxy.rate_limit: must not be negative")
	}
	if (c.Backend.TLSCert == "") != (c.Backend.TLSKey == "") {
		return fmt.Errorf("backend.tls_cert and backend.tls_key must be set together")
	}
	return nil
}

func validURL(key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s: must not be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https, got %q", key, u.Scheme)
	}
	return nil
}
