package testutil

import (
	"context"
	"net/http"
)

// WithTenant stamps the tenant header onto the request, the way the upload
// endpoints expect authenticated callers to arrive.
func WithTenant(req *http.Request, tenantID string) *http.Request {
	req.Header.Set("X-Tenant-ID", tenantID)
	return req
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
