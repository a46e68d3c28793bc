// Package config loads optional journalreader defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/modoterra/journalreader/pkg/render"
)

// DefaultPath is consulted when no --config flag is given.
const DefaultPath = "~/.config/journalreader/config.yaml"

const maxBufferSize = 1 << 20

// Config represents a journalreader config file.
type Config struct {
	Directory  string `yaml:"directory"`   // journal directory instead of the local journal
	BufferSize int    `yaml:"buffer_size"` // output buffer capacity in bytes
	Timezone   string `yaml:"timezone"`    // IANA zone for timestamps, empty for local time
	LogLevel   string `yaml:"log_level"`   // debug, info, warn or error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{BufferSize: render.DefaultBufferSize, LogLevel: "warn"}
}

// Load reads path. An empty path means DefaultPath, which is optional: when
// it cannot be resolved (no home directory) or read, Load logs the reason
// and returns Default.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if path == "" {
		return loadDefault(logger), nil
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func loadDefault(logger *slog.Logger) *Config {
	resolved, err := expandPath(DefaultPath)
	if err != nil {
		logger.Debug("default config skipped", "error", err)
		return Default()
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("default config skipped", "path", resolved, "error", err)
		}
		return Default()
	}
	c, err := Parse(data)
	if err == nil {
		err = errors.Join(Validate(c)...)
	}
	if err != nil {
		logger.Warn("default config skipped", "path", resolved, "error", err)
		return Default()
	}
	return c
}

// Parse decodes YAML data over the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.Directory = strings.TrimSpace(c.Directory)
	if c.Directory != "" {
		dir, err := expandPath(c.Directory)
		if err != nil {
			return nil, err
		}
		c.Directory = dir
	}
	return c, nil
}

// Validate checks the config for values journalreader cannot use.
func Validate(c *Config) []error {
	var errs []error

	if c.BufferSize < 1 || c.BufferSize > maxBufferSize {
		errs = append(errs, fmt.Errorf("buffer_size must be between 1 and %d, got %d", maxBufferSize, c.BufferSize))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// Location returns the zone timestamps are rendered in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level must be debug, info, warn or error; got %q", c.LogLevel)
	}
	return lvl, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
