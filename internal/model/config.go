package model

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when the config file or a key is missing.
const (
	DefaultEndpoint   = "http://localhost:8000/issues"
	DefaultTimeoutSec = 30
	DefaultTimeLayout = "1/2/2006, 3:04:05 PM"
	DefaultLogLevel   = "info"
)

// EnvPrefix is prepended to environment overrides, e.g. ISSUES_API_ENDPOINT.
const EnvPrefix = "ISSUES"

var envKeyReplacer = strings.NewReplacer(".", "_")

// APIConfig describes how to reach the issues backend.
type APIConfig struct {
	// Endpoint is the absolute URL that returns the issue collection.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// TimeoutSec bounds the single fetch, in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	// TimeLayout is a Go reference-time layout for the UpdatedAt column.
	TimeLayout string `mapstructure:"time_layout" yaml:"time_layout"`

	// Timezone is an IANA zone name. Empty means the local zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Timeout returns the fetch timeout as a duration.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// Location resolves the configured timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

// Validate checks the values that would otherwise fail late, at fetch or
// render time.
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.API.Endpoint)
	if err != nil {
		return fmt.Errorf("parsing api.endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.endpoint %q must be an absolute http(s) URL", c.API.Endpoint)
	}
	if c.API.TimeoutSec <= 0 {
		return fmt.Errorf("api.timeout_sec must be positive, got %d", c.API.TimeoutSec)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/issuetracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "issuetracker", "config.yaml")
}

// DefaultAppConfig returns the configuration used when nothing is set.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			Endpoint:   DefaultEndpoint,
			TimeoutSec: DefaultTimeoutSec,
		},
		Display: DisplayConfig{
			TimeLayout: DefaultTimeLayout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// NewViper returns a viper instance with defaults and environment
// overrides registered. Callers may bind flags on it before LoadConfig.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("api.endpoint", DefaultEndpoint)
	v.SetDefault("api.timeout_sec", DefaultTimeoutSec)
	v.SetDefault("display.time_layout", DefaultTimeLayout)
	v.SetDefault("display.timezone", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	return v
}

// LoadConfig reads the YAML file at path into v and unmarshals the result.
// A missing file is not an error; defaults, environment and bound flags
// still apply.
func LoadConfig(v *viper.Viper, path string) (*AppConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.TimeLayout == "" {
		cfg.Display.TimeLayout = DefaultTimeLayout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", map[string]any{
		"endpoint":    cfg.API.Endpoint,
		"timeout_sec": cfg.API.TimeoutSec,
	})
	v.Set("display", map[string]any{
		"time_layout": cfg.Display.TimeLayout,
		"timezone":    cfg.Display.Timezone,
	})
	v.Set("log", map[string]any{
		"level": cfg.Log.Level,
		"json":  cfg.Log.JSON,
		"file":  cfg.Log.File,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
