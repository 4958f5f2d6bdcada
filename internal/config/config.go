// Package config holds declscan configuration loaded from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config filename looked up in the workspace.
const DefaultConfigFile = ".declscan.yaml"

// Config holds all declscan configuration.
type Config struct {
	// Config schema version.
	Version string `yaml:"version"`

	// Workspace is the root scanned when no paths are given on the
	// command line. Relative cache and spill paths resolve against it.
	Workspace string `yaml:"workspace"`

	// Scan settings
	Scan ScanConfig `yaml:"scan"`

	// Result cache
	Cache CacheConfig `yaml:"cache"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig configures the analysis run.
type ScanConfig struct {
	Workers     int    `yaml:"workers"`
	Timeout     string `yaml:"timeout"`
	MaxFileSize int64  `yaml:"max_file_size"`
	Sink        string `yaml:"sink"` // memory, file
	WorkDir     string `yaml:"work_dir"`
}

// CacheConfig configures the fingerprint cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:   "1.0",
		Workspace: ".",

		Scan: ScanConfig{
			Workers:     4,
			Timeout:     "10m",
			MaxFileSize: 10 << 20,
			Sink:        "memory",
			WorkDir:     ".declscan/shards",
		},

		Cache: CacheConfig{
			Enabled: true,
			Path:    ".declscan/cache.db",
		},

		Logging: LoggingConfig{
			Level: "info",
			Dir:   ".declscan/logs",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DECLSCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.Workers = n
		}
	}
	if v := os.Getenv("DECLSCAN_TIMEOUT"); v != "" {
		c.Scan.Timeout = v
	}
	if v := os.Getenv("DECLSCAN_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v := os.Getenv("DECLSCAN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DECLSCAN_WORKSPACE"); v != "" {
		c.Workspace = v
	}
}

// GetScanTimeout returns the scan timeout as a duration. Zero means
// the run is unbounded.
func (c *Config) GetScanTimeout() time.Duration {
	d, err := ParseTimeout(c.Scan.Timeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// ParseTimeout parses a user-supplied timeout. Empty and "0" both mean
// no limit.
func ParseTimeout(raw string) (time.Duration, error) {
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative: %s", raw)
	}
	return d, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.MaxFileSize < 1 {
		return fmt.Errorf("scan.max_file_size must be positive, got %d", c.Scan.MaxFileSize)
	}

	switch c.Scan.Sink {
	case "memory", "file":
	default:
		return fmt.Errorf("invalid scan.sink: %s (valid: memory, file)", c.Scan.Sink)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	if _, err := ParseTimeout(c.Scan.Timeout); err != nil {
		return fmt.Errorf("invalid scan.timeout: %w", err)
	}

	return nil
}
