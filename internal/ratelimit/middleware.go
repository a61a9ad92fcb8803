package ratelimit

import (
	"net/http"
	"strconv"

	dErrors "fairworkly/pkg/domain-errors"
	"fairworkly/pkg/platform/httputil"
)

// Middleware throttles upload requests per tenant. Reads limit the pipeline
// far less, so only mutating methods are counted. Requests without a tenant
// header share one anonymous bucket; the handler rejects them anyway.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			tenantKey := r.Header.Get("X-Tenant-ID")
			if tenantKey == "" {
				tenantKey = "anonymous"
			}

			result := limiter.Check(r.Context(), tenantKey)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "upload rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
