package mapper

import (
	"context"
	"fmt"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/cache"
	"github.com/syssam/ocean/config"
	"github.com/syssam/ocean/dialect"
)

// Open validates cfg and returns a Mapper configured from it. When caching is
// enabled, results are cached in Redis if cfg.Cache.RedisAddr is set and in
// process memory otherwise. Options in opts override the configuration.
// Metrics wrap the executor with Prometheus collectors on the default
// registerer, and Log.Statements logs every statement at debug level.
// Close the mapper to release the Redis client.
func Open(ctx context.Context, exec dialect.Executor, cfg *config.Config, opts ...Option) (*Mapper, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Metrics {
		me, err := dialect.NewMetricsExecutor(exec, nil)
		if err != nil {
			return nil, fmt.Errorf("ocean: open metrics: %w", err)
		}
		exec = me
	}
	base := []Option{FromConfig(cfg)}
	if cfg.Cache.Enabled {
		c, err := openCache(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		base = append(base, WithCache(c, cfg.Cache.TTL.Std()))
	}
	m := New(exec, append(base, opts...)...)
	if cfg.Log.Statements {
		m.exec = dialect.Debug(m.exec, m.logger)
	}
	return m, nil
}

func openCache(ctx context.Context, cfg config.Cache) (ocean.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), nil
	}
	r, err := cache.Dial(ctx, cfg.RedisAddr, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("ocean: open cache: %w", err)
	}
	return r, nil
}
