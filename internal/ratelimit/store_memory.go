package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements BucketStore with an in-process sliding window. Not
// distributed; use the Redis store when running more than one instance.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*slidingWindow
}

type slidingWindow struct {
	timestamps []time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*slidingWindow)}
}

func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	bucket := s.buckets[key]
	if bucket == nil {
		bucket = &slidingWindow{}
		s.buckets[key] = bucket
	}
	bucket.cleanup(now, window)

	if len(bucket.timestamps) >= limit {
		return &Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: bucket.timestamps[0].Add(window),
		}, nil
	}

	bucket.timestamps = append(bucket.timestamps, now)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(bucket.timestamps),
		ResetAt:   bucket.timestamps[0].Add(window),
	}, nil
}

// cleanup drops timestamps that have aged out of the window.
func (w *slidingWindow) cleanup(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept
}
