// Package config provides configuration loading and validation for the
// server, worker and seed commands.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the runtime configuration. It can be loaded from a JSON
// file, with environment variables taking precedence and built-in
// defaults filling the rest.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP listen port

	// Renderer
	MediaRoot string `json:"media_root,omitempty"` // manim --media_dir target
	ManimBin  string `json:"manim_bin,omitempty"`  // manim executable
	SceneFile string `json:"scene_file,omitempty"` // python scene file
	SceneName string `json:"scene_name,omitempty"` // scene class to render

	// Worker timings, as time.ParseDuration strings
	PollInterval    string `json:"poll_interval,omitempty"`    // queue poll period
	RenderTimeout   string `json:"render_timeout,omitempty"`   // per-render deadline
	OrphanThreshold string `json:"orphan_threshold,omitempty"` // RUNNING liveness cutoff

	SeedFile string `json:"seed_file,omitempty"` // optional external seed declaration
	Verbose  bool   `json:"verbose,omitempty"`   // debug logging
}

// Default returns the built-in defaults. DatabaseURL has no default and
// must come from the file, the environment or a flag.
func Default() Config {
	return Config{
		Port:            8080,
		MediaRoot:       "media",
		ManimBin:        "manim",
		SceneFile:       "scenes/cube_formula.py",
		SceneName:       "FormulaScene",
		PollInterval:    "2s",
		RenderTimeout:   "15m",
		OrphanThreshold: "30m",
	}
}

// Load reads configuration from a JSON file. An empty path yields an
// empty config.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("MEDIA_ROOT"); v != "" {
		c.MediaRoot = v
	}
	if v := os.Getenv("MANIM_BIN"); v != "" {
		c.ManimBin = v
	}
	if v := os.Getenv("SCENE_FILE"); v != "" {
		c.SceneFile = v
	}
	if v := os.Getenv("SCENE_NAME"); v != "" {
		c.SceneName = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv("RENDER_TIMEOUT"); v != "" {
		c.RenderTimeout = v
	}
	if v := os.Getenv("ORPHAN_THRESHOLD"); v != "" {
		c.OrphanThreshold = v
	}
	if v := os.Getenv("SEED_FILE"); v != "" {
		c.SeedFile = v
	}
}

// MergeWithDefaults fills empty fields from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MediaRoot == "" {
		result.MediaRoot = defaults.MediaRoot
	}
	if result.ManimBin == "" {
		result.ManimBin = defaults.ManimBin
	}
	if result.SceneFile == "" {
		result.SceneFile = defaults.SceneFile
	}
	if result.SceneName == "" {
		result.SceneName = defaults.SceneName
	}
	if result.PollInterval == "" {
		result.PollInterval = defaults.PollInterval
	}
	if result.RenderTimeout == "" {
		result.RenderTimeout = defaults.RenderTimeout
	}
	if result.OrphanThreshold == "" {
		result.OrphanThreshold = defaults.OrphanThreshold
	}
	if result.SeedFile == "" {
		result.SeedFile = defaults.SeedFile
	}
	return result
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required (or set DATABASE_URL)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	for name, value := range map[string]string{
		"poll_interval":    c.PollInterval,
		"render_timeout":   c.RenderTimeout,
		"orphan_threshold": c.OrphanThreshold,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config error: '%s' is not a duration: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: '%s' must be positive", name)
		}
	}
	if c.SeedFile != "" {
		if _, err := os.Stat(c.SeedFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: seed file not found: %s", c.SeedFile)
		}
	}
	return nil
}

// Resolve loads the file (when path is non-empty), applies environment
// overrides and defaults, and validates the result.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Duration accessors assume Validate has passed.

func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

func (c *Config) RenderTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RenderTimeout)
	return d
}

func (c *Config) OrphanThresholdDuration() time.Duration {
	d, _ := time.ParseDuration(c.OrphanThreshold)
	return d
}
