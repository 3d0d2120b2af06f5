// Package config resolves the configuration directory and the layered
// settings: defaults, then config.yaml, then TASKMGR_* environment variables.
// Command-line flags are applied on top by the dispatcher.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"taskmgr/internal/view"
)

const (
	// AppName is the application directory name.
	AppName = "taskmgr"

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "TASKMGR"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// SessionFile is the persisted session filename.
	SessionFile = "session.json"

	// DefaultBaseURL is the API root used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultLogLevel keeps diagnostics quiet unless asked for.
	DefaultLogLevel = "warn"
)

// Route set names accepted by the routes setting.
const (
	RoutesV1   = "v1"
	RoutesTask = "task"
)

// RouteSets lists the valid values of Config.Routes.
var RouteSets = []string{RoutesV1, RoutesTask}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the root of the task REST API.
	BaseURL string

	// Routes selects the endpoint layout of the API.
	Routes string

	// PageSize is the initial number of rows per table page.
	PageSize int

	// RequestTimeout bounds each API request. Zero means no timeout.
	RequestTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// NoColor disables colored output.
	NoColor bool


	// Quiet suppresses informational output.
	Quiet bool
}

type fileConfig struct {
	APIBaseURL     string `yaml:"api_base_url"`
	Routes         string `yaml:"routes"`
	PageSize       int    `yaml:"page_size"`
	RequestTimeout string `yaml:"request_timeout"`
	LogLevel       string `yaml:"log_level"`
	NoColor        bool   `yaml:"no_color"`
}

type envSpec struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL"`
	Routes         string        `envconfig:"ROUTES"`
	PageSize       int           `envconfig:"PAGE_SIZE"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	NoColor        bool          `envconfig:"NO_COLOR"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskmgr or $HOME/.config/taskmgr.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		BaseURL:  DefaultBaseURL,
		Routes:   RoutesV1,
		PageSize: view.DefaultPageSize,
		LogLevel: DefaultLogLevel,
	}
}

// Load builds a Config for configDir and applies config.yaml and the
// environment on top of the defaults. A missing config.yaml is not an error.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.FilePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.APIBaseURL != "" {
		c.BaseURL = fc.APIBaseURL
	}
	if fc.Routes != "" {
		c.Routes = fc.Routes
	}
	if fc.PageSize != 0 {
		c.PageSize = fc.PageSize
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid %s: request_timeout: %w", ConfigFile, err)
		}
		c.RequestTimeout = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.NoColor {
		c.NoColor = true
	}
	return nil
}

func (c *Config) loadEnv() error {
	var env envSpec
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	if env.APIBaseURL != "" {
		c.BaseURL = env.APIBaseURL
	}
	if env.Routes != "" {
		c.Routes = env.Routes
	}
	if env.PageSize != 0 {
		c.PageSize = env.PageSize
	}
	if env.RequestTimeout != 0 {
		c.RequestTimeout = env.RequestTimeout
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.NoColor {
		c.NoColor = true
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("api base url is empty")
	}
	if !slices.Contains(RouteSets, c.Routes) {
		return fmt.Errorf("unknown route set %q (want one of %v)", c.Routes, RouteSets)
	}
	if !view.ValidPageSize(c.PageSize) {
		return fmt.Errorf("invalid page size %d (want one of %v)", c.PageSize, view.PageSizes)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout: %s", c.RequestTimeout)
	}
	return nil
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

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}
