package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TASKBOARD_BACKEND_URL.
const EnvPrefix = "TASKBOARD"

// Loader merges defaults, config files, environment and flags, in that order.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"backend-url": "backend.url",
	"proxy-url":   "proxy.url",
	"proxy-addr":  "proxy.addr",
	"view":        "ui.view",
	"debug":       "debug",
}

// BindFlags lets explicitly set flags win over every other source.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads path when given, otherwise the global then the project config file,
// both optional.
func (l *Loader) Load(path string) (*Config, error) {
	l.v.SetConfigType("yaml")
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		for _, p := range []string{GlobalConfigPath(), ProjectConfigPath()} {
			if err := mergeFile(l.v, p); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// GlobalConfigPath is $HOME/.taskboard/config.yaml, or "" without a home directory.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".taskboard", "config.yaml")
}

// ProjectConfigPath is ./.taskboard/config.yaml.
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".taskboard", "config.yaml")
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("debug", d.Debug)

	v.SetDefault("proxy.addr", d.Proxy.Addr)
	v.SetDefault("proxy.url", d.Proxy.URL)
	v.SetDefault("proxy.allowed_origins", d.Proxy.AllowedOrigins)
	v.SetDefault("proxy.rate_limit", d.Proxy.RateLimit)
	v.SetDefault("proxy.rate_burst", d.Proxy.RateBurst)

	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.ca_file", d.Backend.CAFile)
	v.SetDefault("backend.insecure_skip_verify", d.Backend.InsecureSkipVerify)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("backend.addr", d.Backend.Addr)
	v.SetDefault("backend.store", d.Backend.Store)
	v.SetDefault("backend.data_file", d.Backend.DataFile)
	v.SetDefault("backend.tls_cert", d.Backend.TLSCert)
	v.SetDefault("backend.tls_key", d.Backend.TLSKey)

	v.SetDefault("ui.view", d.UI.View)
	v.SetDefault("ui.clear_finished_on_reopen", d.UI.ClearFinishedOnReopen)
	v.SetDefault("ui.theme", d.UI.Theme)
}
