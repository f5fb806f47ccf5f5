package cache

import (
	"context"
	"fmt"

	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client with the service key prefix.
type RedisClient struct {
	*redis.Client
	prefix string
}

// NewRedisClient creates and configures a new Redis client
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*RedisClient, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is not configured")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to cache at %s: %w", cfg.Addr, err)
	}

	return &RedisClient{Client: rdb, prefix: cfg.KeyPrefix}, nil
}

// Key prepends the configured key prefix.
func (c *RedisClient) Key(key string) string {
	return c.prefix + key
}

// Prefix returns the configured key prefix.
func (c *RedisClient) Prefix() string {
	return c.prefix
}

// AddToList adds an item to the start of a list and trims the list to a max length.
func (c *RedisClient) AddToList(ctx context.Context, key, value string, maxLength int64) error {
	pipe := c.Pipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, maxLength-1)
	_, err := pipe.Exec(ctx)
	return err
}

// GetListRange returns a range of items from a list.
func (c *RedisClient) GetListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.LRange(ctx, key, start, stop).Result()
}

// ScanKeys collects every key matching pattern.
func (c *RedisClient) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
