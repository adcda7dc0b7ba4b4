package redisinfra

import (
	"context"
	"fmt"

	"github.com/donor-intake-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client with health checking.
type Client struct {
	*redis.Client
}

// New connects to cfg.RedisURL. It returns nil, nil when Redis is not configured.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.StoreTimeout > 0 {
		opts.DialTimeout = cfg.StoreTimeout
		opts.ReadTimeout = cfg.StoreTimeout
		opts.WriteTimeout = cfg.StoreTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
