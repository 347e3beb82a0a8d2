package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contentapi/internal/config"
)

// RedisCache implements RenderCache on Redis. Values are stored raw under
// key: "<prefix><key>" with the TTL given per Set call.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis using cfg and verifies connectivity with a
// short ping. Prefix may be empty, in which case "render:" is used.
func NewRedis(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "render:"
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

// NewRedisWithClient wraps an existing client; used by tests.
func NewRedisWithClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "render:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return b, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, html []byte, ttl time.Duration) error {
	if ttl <= 0 {
		// guard against storing entries that never expire
		ttl = time.Minute
	}
	return c.client.Set(ctx, c.key(key), html, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}
