// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides a Redis-backed read-through cache for resolved
// FieldSpecs. Schema reads happen on every ingest and query call; the
// cache keeps them off the database between schema mutations. Every
// mutation invalidates the touched codes, and any cache failure degrades
// to a direct database read.
package schema

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// specKeyPrefix namespaces FieldSpec keys in Redis.
	specKeyPrefix = "fieldspec:"

	// DefaultSpecTTL bounds staleness if an invalidation is ever lost.
	DefaultSpecTTL = 5 * time.Minute
)

// Cache stores resolved FieldSpecs in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a FieldSpec cache backed by the given Redis client.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultSpecTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get retrieves a cached spec for a category code. Returns false on miss
// or on any cache error.
func (c *Cache) Get(ctx context.Context, code string) (*FieldSpec, bool) {
	val, err := c.client.Get(ctx, specKeyPrefix+code).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("fieldspec cache get error", "code", code, "error", err)
		return nil, false
	}

	var spec FieldSpec
	if err := json.Unmarshal(val, &spec); err != nil {
		slog.Warn("fieldspec cache decode error", "code", code, "error", err)
		return nil, false
	}
	return &spec, true
}

// Set stores a resolved spec with the configured TTL.
func (c *Cache) Set(ctx context.Context, code string, spec *FieldSpec) {
	payload, err := json.Marshal(spec)
	if err != nil {
		slog.Warn("fieldspec cache encode error", "code", code, "error", err)
		return
	}
	if err := c.client.Set(ctx, specKeyPrefix+code, payload, c.ttl).Err(); err != nil {
		slog.Warn("fieldspec cache set error", "code", code, "error", err)
	}
}

// Invalidate drops the cached specs for the given category codes. Called
// by every schema mutation, including both sides of a rename.
func (c *Cache) Invalidate(ctx context.Context, codes ...string) {
	for _, code := range codes {
		if err := c.client.Del(ctx, specKeyPrefix+code).Err(); err != nil {
			slog.Warn("fieldspec cache invalidate error", "code", code, "error", err)
		}
	}
	slog.Debug("fieldspec cache invalidated", "codes", codes)
}
