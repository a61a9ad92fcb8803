// Package ratelimit throttles payroll uploads per tenant. Validation runs are
// expensive (file storage, parsing, a full rule pass), so a runaway client is
// cut off before it reaches the pipeline.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// BucketStore is the persistence interface for rate limit counters. Keys are
// simple strings; validation happens at the boundary.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Limiter applies one limit per tenant over a sliding window.
type Limiter struct {
	store  BucketStore
	limit  int
	window time.Duration
	logger *slog.Logger
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func NewLimiter(store BucketStore, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{store: store, limit: limit, window: window}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records one upload attempt for the tenant and reports whether it is
// allowed. Store faults fail open: an unreachable counter never blocks
// uploads, it only loses throttling until the store recovers.
func (l *Limiter) Check(ctx context.Context, tenantKey string) *Result {
	result, err := l.store.Allow(ctx, "upload:"+tenantKey, l.limit, l.window)
	if err != nil {
		if l.logger != nil {
			l.logger.WarnContext(ctx, "rate limit check failed, failing open",
				"key", tenantKey, "error", err.Error())
		}
		return &Result{Allowed: true, Limit: l.limit, Remaining: l.limit}
	}
	if !result.Allowed {
		result.RetryAfter = int(time.Until(result.ResetAt).Seconds()) + 1
	}
	return result
}
