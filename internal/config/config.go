// ABOUTME: YAML configuration for the heapwalk CLI
// ABOUTME: Worker fan-out, log level and heap validity rules

// Package config loads heapwalk's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prateek/heapwalk/graph"
)

// Config is the on-disk configuration.
type Config struct {
	// Workers is the number of goroutines enumerating roots, at least 1.
	Workers int `yaml:"workers"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Rules configure the validity predicate.
	Rules graph.Rules `yaml:"rules"`
}

// Default returns the configuration used when no file is given. There is no
// object size limit by default.
func Default() Config {
	return Config{
		Workers:  4,
		LogLevel: "info",
		Rules: graph.Rules{
			Alignment:      8,
			RequireType:    true,
			ForbiddenTypes: []string{"<freed>"},
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the tool cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if a := c.Rules.Alignment; a != 0 && a&(a-1) != 0 {
		errs = append(errs, fmt.Errorf("alignment must be a power of two, got %d", a))
	}
	return errors.Join(errs...)
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
