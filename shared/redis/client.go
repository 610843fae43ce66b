package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{Client: rdb}, nil
}

// Connect returns nil, without error, when addr is empty or the server cannot
// be reached. Services then run without view caches and event streams.
func Connect(addr, password string, logger *slog.Logger) *Client {
	if addr == "" {
		logger.Info("redis disabled")
		return nil
	}
	client, err := NewClient(addr, password, 0)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache and events", "addr", addr, "error", err)
		return nil
	}
	logger.Info("connected to redis", "addr", addr)
	return client
}

// Raw returns the underlying client, or nil for a nil Client.
func (c *Client) Raw() *redis.Client {
	if c == nil {
		return nil
	}
	return c.Client
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.Client.Close()
}

// Key joins parts into a namespaced cache key, e.g. "txn:list:usr-1".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
