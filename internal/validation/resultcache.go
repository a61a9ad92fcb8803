package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	platformredis "fairworkly/internal/platform/redis"
	"fairworkly/pkg/domain"
)

// ResultCache caches aggregated results in Redis keyed by run id, so repeated
// result fetches skip re-reading records and issues. Nil-safe: a nil cache
// degrades to pass-through.
type ResultCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewResultCache wraps a Redis client. Returns nil when the client is nil
// (Redis not configured).
func NewResultCache(client *platformredis.Client, ttl time.Duration) *ResultCache {
	if client == nil {
		return nil
	}
	return &ResultCache{client: client, ttl: ttl}
}

func cacheKey(id domain.RunID) string {
	return fmt.Sprintf("fairworkly:validation:result:%s", id)
}

// Get returns the cached result, or (nil, false) on miss or any cache fault.
// Cache faults are never surfaced; the caller falls through to the store.
func (c *ResultCache) Get(ctx context.Context, id domain.RunID) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Set stores the result with the configured TTL. Best effort.
func (c *ResultCache) Set(ctx context.Context, id domain.RunID, result *Result) {
	if c == nil || result == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(id), raw, c.ttl).Err()
}
