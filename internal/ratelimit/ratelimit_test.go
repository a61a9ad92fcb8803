package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEnforcesLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := store.Allow(ctx, "upload:t-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3-(i+1), result.Remaining)
	}

	result, err := store.Allow(ctx, "upload:t-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.False(t, result.ResetAt.IsZero())
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Allow(ctx, "upload:t-1", 1, time.Minute)
	require.NoError(t, err)

	result, err := store.Allow(ctx, "upload:t-2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryStoreWindowSlides(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Allow(ctx, "upload:t-1", 1, 30*time.Millisecond)
	require.NoError(t, err)

	denied, err := store.Allow(ctx, "upload:t-1", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	assert.Eventually(t, func() bool {
		result, err := store.Allow(ctx, "upload:t-1", 1, 30*time.Millisecond)
		return err == nil && result.Allowed
	}, time.Second, 10*time.Millisecond)
}

type failingBucketStore struct{}

func (failingBucketStore) Allow(context.Context, string, int, time.Duration) (*Result, error) {
	return nil, errors.New("store down")
}

func TestLimiterFailsOpenOnStoreFault(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := NewLimiter(failingBucketStore{}, 1, time.Minute, WithLogger(logger))

	result := limiter.Check(context.Background(), "t-1")
	assert.True(t, result.Allowed)
}

func TestLimiterSetsRetryAfter(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 1, time.Minute)

	first := limiter.Check(context.Background(), "t-1")
	assert.True(t, first.Allowed)

	second := limiter.Check(context.Background(), "t-1")
	assert.False(t, second.Allowed)
	assert.Positive(t, second.RetryAfter)
}

func TestMiddleware(t *testing.T) {
	newServer := func(limiter *Limiter) http.Handler {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		return Middleware(limiter)(next)
	}

	t.Run("throttles per tenant", func(t *testing.T) {
		server := newServer(NewLimiter(NewMemoryStore(), 1, time.Minute))

		req := httptest.NewRequest(http.MethodPost, "/v1/validations", nil)
		req.Header.Set("X-Tenant-ID", "t-1")

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

		rec = httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		other := httptest.NewRequest(http.MethodPost, "/v1/validations", nil)
		other.Header.Set("X-Tenant-ID", "t-2")
		rec = httptest.NewRecorder()
		server.ServeHTTP(rec, other)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("reads are never throttled", func(t *testing.T) {
		server := newServer(NewLimiter(NewMemoryStore(), 1, time.Minute))

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/v1/validations/abc", nil)
			req.Header.Set("X-Tenant-ID", "t-1")
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusCreated, rec.Code)
		}
	})
}
