package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean/config"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, config.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, config.DefaultSlowThreshold, cfg.SlowThreshold.Std())
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "ocean:", cfg.Cache.Prefix)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := write(t, "ocean.yaml", `
space: social
batch_size: 200
concurrency: 4
slow_threshold: 250ms
metrics: true
cache:
  enabled: true
  ttl: 30s
  redis_addr: localhost:6379
log:
  level: debug
  statements: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "social", cfg.Space)
	assert.Equal(t, 200, cfg.BatchSize)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowThreshold.Std())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Std())
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "ocean:", cfg.Cache.Prefix, "defaults survive partial files")
	assert.True(t, cfg.Metrics)
	assert.True(t, cfg.Log.Statements)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	path := write(t, "ocean.toml", `
space = "social"
batch_size = 50
slow_threshold = "1s"

[cache]
enabled = true
ttl = "5m"
prefix = "graph:"

[log]
level = "warn"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "social", cfg.Space)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, config.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, time.Second, cfg.SlowThreshold.Std())
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.Std())
	assert.Equal(t, "graph:", cfg.Cache.Prefix)
	assert.Empty(t, cfg.Cache.RedisAddr)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(write(t, "ocean.json", `{}`))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	_, err = config.Load(write(t, "bad.yaml", "batch_size: 0\n"))
	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "batch_size", cerr.Option)

	_, err = config.Load(write(t, "bad.yaml", "slow_threshold: soon\n"))
	assert.Error(t, err)

	_, err = config.Load(write(t, "bad.toml", "[log]\nlevel = \"loud\"\n"))
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "log.level", cerr.Option)
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := config.NewConfigError("concurrency", 0, "must be positive")
	assert.Equal(t, `ocean: config error for "concurrency" (value: 0): must be positive`, err.Error())
	err = config.NewConfigError("format", nil, "missing")
	assert.Equal(t, `ocean: config error for "format": missing`, err.Error())
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}
