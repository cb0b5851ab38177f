// Package config handles configuration loading and validation for taskscout.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/taskscout/internal/core/task"
)

// ToolConfig controls one task type: whether it is scanned at all and an
// optional executable-path override for its invocations.
type ToolConfig struct {
	Enabled *bool  `yaml:"enabled"` // nil means enabled
	Path    string `yaml:"path"`    // executable override, empty means built-in default
}

// AntConfig holds ant-specific options.
type AntConfig struct {
	// IncludeGlobs are scanned in addition to the built-in **/[Bb]uild.xml.
	IncludeGlobs []string `yaml:"include_globs"`
	// EnableAnsicon prefixes ant invocations with the ansicon wrapper.
	EnableAnsicon bool   `yaml:"enable_ansicon"`
	AnsiconPath   string `yaml:"ansicon_path"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel string                `yaml:"log_level"`
	Exclude  []string              `yaml:"exclude"` // globs or substrings tested against every candidate path
	Tools    map[string]ToolConfig `yaml:"tools"`   // keyed by task type name
	Ant      AntConfig             `yaml:"ant"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Exclude:  []string{"**/node_modules/**", "**/.git/**"},
		Tools:    map[string]ToolConfig{},
	}
}

// Load reads the config file at configPath, merging it over defaults.
// A missing file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Exclude == nil {
		c.Exclude = defaults.Exclude
	}
	if c.Tools == nil {
		c.Tools = map[string]ToolConfig{}
	}
}

// ToolEnabled reports whether the given task type is enabled. Types are
// enabled unless the config explicitly turns them off.
func (c *Config) ToolEnabled(t task.Type) bool {
	tc, ok := c.Tools[string(t)]
	if !ok || tc.Enabled == nil {
		return true
	}
	return *tc.Enabled
}

// ToolPath returns the executable for the given task type, preferring the
// configured override. A configured path that cannot be resolved is
// reported by validation, not here; invocation assembly always has a
// usable fallback.
func (c *Config) ToolPath(t task.Type, fallback string) string {
	if tc, ok := c.Tools[string(t)]; ok && tc.Path != "" {
		return tc.Path
	}
	return fallback
}

// WindowsExe picks between the posix and windows default executable names.
func WindowsExe(posix, windows string) string {
	if runtime.GOOS == "windows" {
		return windows
	}
	return posix
}
