// Package cache stores raw provider responses with an expiry.
package cache

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/overunder/internal/config"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the live entry for key, or nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores data under key until ttl elapses. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// DeleteExpired removes expired entries and reports how many were removed.
	DeleteExpired(ctx context.Context) (int, error)
	Close() error
}

// Open builds the cache selected by cfg.Driver. SQL drivers are migrated
// before they are returned.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case "sqlite":
		c, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := c.Migrate(ctx); err != nil {
			c.Close() //nolint:errcheck
			return nil, err
		}
		return c, nil
	case "postgres":
		c, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := c.Migrate(ctx); err != nil {
			c.Close() //nolint:errcheck
			return nil, err
		}
		return c, nil
	case "redis":
		c, err := NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "memory":
		return NewMemory(), nil
	case "none", "":
		return Nop{}, nil
	default:
		return nil, eris.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) Delete(context.Context, ...string) error { return nil }

func (Nop) DeleteExpired(context.Context) (int, error) { return 0, nil }

func (Nop) Close() error { return nil }
