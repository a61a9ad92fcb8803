// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services and handlers read
// them without importing net/http.
package requestcontext

import (
	"context"

	"fairworkly/pkg/domain"
)

type (
	requestIDKey struct{}
	tenantIDKey  struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestID = requestIDKey{}
	ContextKeyTenantID  = tenantIDKey{}
)

// RequestID retrieves the request ID from the context, or "" if unset.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// TenantID retrieves the tenant ID from the context. Returns the zero value
// (nil UUID) if not set.
func TenantID(ctx context.Context) domain.TenantID {
	if tenantID, ok := ctx.Value(ContextKeyTenantID).(domain.TenantID); ok {
		return tenantID
	}
	return domain.TenantID{}
}

// WithTenantID injects a tenant ID into the context.
func WithTenantID(ctx context.Context, tenantID domain.TenantID) context.Context {
	return context.WithValue(ctx, ContextKeyTenantID, tenantID)
}
