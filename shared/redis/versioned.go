package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Versioned is a cached value tagged with the source version it was read at.
type Versioned[T any] struct {
	Version int64 `json:"version"`
	Value   T     `json:"value"`
}

// VersionedCache guards a ViewCache with a version counter kept in its own
// key. Writers Bump after committing; readers capture Version before reading
// the source of truth and Put with it. An entry is only served while its
// version is current, so a reader that raced a write can store its stale
// snapshot but never have it returned.
type VersionedCache[T any] struct {
	client  *goredis.Client
	entries *ViewCache[Versioned[T]]
}

func NewVersionedCache[T any](client *goredis.Client, ttl time.Duration) *VersionedCache[T] {
	return &VersionedCache[T]{
		client:  client,
		entries: NewViewCache[Versioned[T]](client, ttl),
	}
}

// Version returns the counter stored at versionKey, 0 if unset or unreadable.
func (c *VersionedCache[T]) Version(ctx context.Context, versionKey string) int64 {
	if c.client == nil {
		return 0
	}
	v, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		slog.WarnContext(ctx, "cache version read failed", "key", versionKey, "error", err)
	}
	return v
}

// Bump invalidates every entry read under versionKey. The entries at keys are
// also dropped so they stop taking memory.
func (c *VersionedCache[T]) Bump(ctx context.Context, versionKey string, keys ...string) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		slog.WarnContext(ctx, "cache version bump failed", "key", versionKey, "error", err)
	}
	c.entries.Delete(ctx, keys...)
}

// Get returns the entry at key when it was stored at the current version.
func (c *VersionedCache[T]) Get(ctx context.Context, versionKey, key string) (*T, bool) {
	entry, ok := c.entries.Get(ctx, key)
	if !ok || entry.Version != c.Version(ctx, versionKey) {
		return nil, false
	}
	return &entry.Value, true
}

// Put stores value as read at version.
func (c *VersionedCache[T]) Put(ctx context.Context, key string, version int64, value *T) {
	if value == nil {
		return
	}
	c.entries.Set(ctx, key, &Versioned[T]{Version: version, Value: *value})
}
