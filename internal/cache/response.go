// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed JSON response cache for the public
// read API. Listing and detail responses are stored as serialized JSON so
// repeated requests skip the DB queries and relation loading entirely.
// Any admin mutation invalidates the affected entity's keys.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached API responses.
	responseKeyPrefix = "api:"

	// DefaultResponseTTL is how long a cached response stays valid. Kept
	// short because public listings must track admin edits closely.
	DefaultResponseTTL = 60 * time.Second
)

// ResponseCache manages JSON response caching in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached JSON payload for a key. Returns false on miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a JSON payload for a key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateEntity removes all cached responses for one entity kind
// (for example "businesses") by scanning for its key prefix. Mutations to
// one entity can change denormalized payloads of others, so callers
// usually invalidate several kinds at once.
func (rc *ResponseCache) InvalidateEntity(ctx context.Context, entity string) {
	rc.invalidatePrefix(ctx, responseKeyPrefix+entity+":")
}

// InvalidateAll removes every cached response.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	rc.invalidatePrefix(ctx, responseKeyPrefix)
}

func (rc *ResponseCache) invalidatePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache cleared", "prefix", prefix, "deleted", deleted)
	}
}

// ListKey returns the cache key for an entity listing with the given raw
// query string.
func ListKey(entity, rawQuery string) string {
	if rawQuery == "" {
		return entity + ":list"
	}
	return entity + ":list?" + rawQuery
}

// DetailKey returns the cache key for a single entity payload.
func DetailKey(entity, id string) string {
	return entity + ":" + id
}
