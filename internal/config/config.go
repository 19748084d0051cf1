// Package config handles XDG configuration directory, file paths and settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskpad"

	// SessionFile is the stored session token filename.
	SessionFile = "session.json"

	// YAMLFile is the optional settings file.
	YAMLFile = "config.yaml"

	// JSONCFile is the optional settings file in JSON with comments.
	// Consulted only when config.yaml is absent.
	JSONCFile = "config.jsonc"

	// APIURLEnv overrides the API base URL from the settings file.
	APIURLEnv = "TASKPAD_API_URL"

	// DefaultAPIURL is used when no base URL is configured.
	DefaultAPIURL = "http://localhost:3000/api"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 5 * time.Second
)

// View selects how the task list is rendered.
type View string

const (
	ViewCards View = "cards"
	ViewTable View = "table"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the task service, without trailing slash.
	APIURL string

	// Timeout bounds each API call.
	Timeout time.Duration

	// View is the default task list rendering.
	View View

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger receives diagnostics. Never nil after New.
	Logger *slog.Logger
}

// fileSettings mirrors config.yaml / config.jsonc.
type fileSettings struct {
	APIURL  string `yaml:"api_url" json:"api_url"`
	Timeout string `yaml:"timeout" json:"timeout"`
	View    string `yaml:"view" json:"view"`
}

// New creates a Config for the default or specified config directory and
// applies the settings file and environment found there.
// If configDir is empty, uses XDG_CONFIG_HOME/taskpad or $HOME/.config/taskpad.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		View:    ViewCards,
		Logger:  slog.New(slog.DiscardHandler),
	}

	settings, err := loadSettings(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.apply(settings); err != nil {
		return nil, err
	}

	if env := os.Getenv(APIURLEnv); env != "" {
		cfg.SetAPIURL(env)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SetAPIURL sets the base URL, dropping trailing slashes.
func (c *Config) SetAPIURL(u string) {
	c.APIURL = strings.TrimRight(strings.TrimSpace(u), "/")
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

func (c *Config) apply(s fileSettings) error {
	if s.APIURL != "" {
		c.SetAPIURL(s.APIURL)
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout in config: %q", s.Timeout)
		}
		c.Timeout = d
	}
	if s.View != "" {
		v, err := ParseView(s.View)
		if err != nil {
			return err
		}
		c.View = v
	}
	return nil
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewCards:
		return ViewCards, nil
	case ViewTable:
		return ViewTable, nil
	}
	return "", fmt.Errorf("invalid view: %s (want cards or table)", s)
}

// loadSettings reads config.yaml, or config.jsonc when the former is absent.
// Missing files are not an error.
func loadSettings(dir string) (fileSettings, error) {
	var s fileSettings

	data, err := os.ReadFile(filepath.Join(dir, YAMLFile))
	if err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing %s: %w", YAMLFile, err)
		}
		return s, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return s, fmt.Errorf("reading %s: %w", YAMLFile, err)
	}

	data, err = os.ReadFile(filepath.Join(dir, JSONCFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading %s: %w", JSONCFile, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", JSONCFile, err)
	}
	return s, nil
}
