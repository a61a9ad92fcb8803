package ratelimit

import (
	"context"
	"fmt"
	"time"

	platformredis "fairworkly/internal/platform/redis"
)

// RedisStore implements BucketStore with a fixed window counter in Redis, so
// the limit holds across instances. INCR plus a first-hit EXPIRE keeps it to
// two round trips without scripting.
type RedisStore struct {
	client *platformredis.Client
}

// NewRedisStore wraps a Redis client. Returns nil when the client is nil
// (Redis not configured); callers fall back to the memory store.
func NewRedisStore(client *platformredis.Client) *RedisStore {
	if client == nil {
		return nil
	}
	return &RedisStore{client: client}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	redisKey := "fairworkly:ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return nil, fmt.Errorf("set rate limit window: %w", err)
		}
	}

	ttl, err := s.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(limit) {
		return &Result{Allowed: false, Limit: limit, ResetAt: resetAt}, nil
	}
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count),
		ResetAt:   resetAt,
	}, nil
}
