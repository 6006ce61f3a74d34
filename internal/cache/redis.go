package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const redisKeyPrefix = "overunder:"

// Redis implements Cache on go-redis. Expiry is delegated to Redis TTLs.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to the server at rawURL (redis://[:password@]host:port/db)
// and pings it.
func NewRedis(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "redis: parse url")
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, eris.Wrap(err, "redis: ping")
	}
	return &Redis{rdb: rdb}, nil
}

func redisKey(key string) string { return redisKeyPrefix + key }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "redis: get %s", key)
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return eris.Wrapf(r.rdb.Set(ctx, redisKey(key), data, ttl).Err(), "redis: set %s", key)
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKey(k)
	}
	return eris.Wrap(r.rdb.Del(ctx, prefixed...).Err(), "redis: delete")
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (r *Redis) DeleteExpired(context.Context) (int, error) {
	return 0, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
