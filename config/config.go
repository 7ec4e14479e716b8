// Package config loads mapper settings from YAML or TOML files.
//
//	space: social
//	batch_size: 500
//	concurrency: 4
//	slow_threshold: 200ms
//	cache:
//	  enabled: true
//	  ttl: 30s
//	  redis_addr: localhost:6379
//	metrics: true
//	log:
//	  level: debug
//	  statements: true
//
// The format is chosen by file extension: .yaml, .yml or .toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is matched by every *ConfigError.
var ErrInvalidConfig = errors.New("ocean: invalid configuration")

// Defaults.
const (
	DefaultBatchSize     = 500
	DefaultConcurrency   = 1
	DefaultSlowThreshold = 100 * time.Millisecond
	DefaultCachePrefix   = "ocean:"
)

// Config holds mapper settings.
type Config struct {
	// Space is the graph space statements run in by default.
	Space string `yaml:"space" toml:"space"`
	// BatchSize caps the number of rows per INSERT statement.
	BatchSize int `yaml:"batch_size" toml:"batch_size"`
	// Concurrency caps the number of statements of one batch in flight.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
	// SlowThreshold marks statements slower than it as slow.
	SlowThreshold Duration `yaml:"slow_threshold" toml:"slow_threshold"`
	// Metrics exports statement counters and latencies to the default
	// Prometheus registerer.
	Metrics bool  `yaml:"metrics" toml:"metrics"`
	Cache   Cache `yaml:"cache" toml:"cache"`
	Log     Log   `yaml:"log" toml:"log"`
}

// Cache configures read-result caching.
type Cache struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// TTL of cached results; zero keeps them until a write invalidates them.
	TTL Duration `yaml:"ttl" toml:"ttl"`
	// RedisAddr selects the Redis cache; empty selects the in-memory cache.
	RedisAddr string `yaml:"redis_addr" toml:"redis_addr"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level" toml:"level"`
	// Statements logs every statement at debug level.
	Statements bool `yaml:"statements" toml:"statements"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BatchSize:     DefaultBatchSize,
		Concurrency:   DefaultConcurrency,
		SlowThreshold: Duration(DefaultSlowThreshold),
		Cache:         Cache{Prefix: DefaultCachePrefix},
		Log:           Log{Level: "info"},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format ("yaml", "yml" or "toml") over the
// defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case "toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, err
		}
	default:
		return nil, NewConfigError("format", format, "unsupported format, expect yaml or toml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch {
	case c.BatchSize <= 0:
		return NewConfigError("batch_size", c.BatchSize, "must be positive")
	case c.Concurrency <= 0:
		return NewConfigError("concurrency", c.Concurrency, "must be positive")
	case c.SlowThreshold < 0:
		return NewConfigError("slow_threshold", c.SlowThreshold, "must not be negative")
	case c.Cache.TTL < 0:
		return NewConfigError("cache.ttl", c.Cache.TTL, "must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return NewConfigError("log.level", c.Log.Level, err.Error())
	}
	return nil
}

// SlogLevel returns the slog level named by Level. Empty is info.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// Duration is a time.Duration decoded from strings such as "200ms".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("ocean: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("ocean: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}
