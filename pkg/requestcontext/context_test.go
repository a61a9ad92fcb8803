package requestcontext

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"fairworkly/pkg/domain"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
}

func TestTenantIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.True(t, TenantID(ctx).IsNil())

	tenantID := domain.TenantID(uuid.New())
	ctx = WithTenantID(ctx, tenantID)
	assert.Equal(t, tenantID, TenantID(ctx))
}
