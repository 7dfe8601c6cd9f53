package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "booktracker:cache:"
	scanBatchSize = 100
)

// Redis shares cached reads between processes. Keys are namespaced with a
// prefix so Clear only touches this cache.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (cache *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := cache.client.Get(ctx, cache.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

func (cache *Redis) Set(ctx context.Context, key string, value []byte) error {
	return cache.client.Set(ctx, cache.prefix+key, value, cache.ttl).Err()
}

func (cache *Redis) Clear(ctx context.Context) error {
	var cursor uint64

	for {
		keys, next, err := cache.client.Scan(
			ctx,
			cursor,
			cache.prefix+"*",
			scanBatchSize,
		).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err = cache.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}
