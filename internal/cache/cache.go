// Package cache stores computed group summaries so repeated reads skip the
// balance engine. Entries are dropped whenever a group's expenses change.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "payshare:group:"

// ErrMiss is returned by Get when no entry exists.
var ErrMiss = errors.New("cache miss")

// Cache is a byte store keyed by group ID.
type Cache interface {
	Get(ctx context.Context, groupID string) ([]byte, error)
	Set(ctx context.Context, groupID string, value []byte) error
	Delete(ctx context.Context, groupID string) error
	Close() error
}

// SummaryKey returns the Redis key holding a group's summary.
func SummaryKey(groupID string) string {
	return keyPrefix + groupID + ":summary"
}

// RedisCache keeps summaries in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to addr and pings it once.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached summary or ErrMiss.
func (c *RedisCache) Get(ctx context.Context, groupID string) ([]byte, error) {
	val, err := c.client.Get(ctx, SummaryKey(groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores a summary. A zero TTL keeps it until the next Delete.
func (c *RedisCache) Set(ctx context.Context, groupID string, value []byte) error {
	if err := c.client.Set(ctx, SummaryKey(groupID), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete drops a summary. Missing keys are not an error.
func (c *RedisCache) Delete(ctx context.Context, groupID string) error {
	if err := c.client.Del(ctx, SummaryKey(groupID)).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything. Used when no Redis address is configured.
type Noop struct{}

var _ Cache = Noop{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte) error   { return nil }
func (Noop) Delete(context.Context, string) error        { return nil }
func (Noop) Close() error                                { return nil }
