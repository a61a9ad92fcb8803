//go:build integration

package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "fairworkly/internal/platform/redis"
	"fairworkly/pkg/domain"
	"fairworkly/pkg/testutil/containers"
)

func TestResultCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	cache := NewResultCache(&platformredis.Client{Client: rc.Client}, time.Minute)
	require.NotNil(t, cache)

	runID := domain.NewRunID()
	result := &Result{
		ValidationID: runID.Short(),
		Status:       "Failed",
		Timestamp:    time.Now().UTC().Truncate(time.Second),
		Summary:      Summary{TotalIssues: 2, TotalUnderpayment: 53.10, AffectedEmployees: 1},
	}

	_, ok := cache.Get(ctx, runID)
	assert.False(t, ok)

	cache.Set(ctx, runID, result)

	cached, ok := cache.Get(ctx, runID)
	require.True(t, ok)
	assert.Equal(t, result.ValidationID, cached.ValidationID)
	assert.Equal(t, result.Status, cached.Status)
	assert.Equal(t, result.Summary, cached.Summary)

	// Other runs never see this entry.
	_, ok = cache.Get(ctx, domain.NewRunID())
	assert.False(t, ok)
}

func TestResultCacheExpiry(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	cache := NewResultCache(&platformredis.Client{Client: rc.Client}, 50*time.Millisecond)
	runID := domain.NewRunID()
	cache.Set(ctx, runID, &Result{ValidationID: runID.Short(), Status: "Passed"})

	assert.Eventually(t, func() bool {
		_, ok := cache.Get(ctx, runID)
		return !ok
	}, time.Second, 20*time.Millisecond)
}
