package graphql

import (
	"context"
	"net/http"
	"strconv"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyTenantID contextKey = "tenantID"

// HeaderTenantID carries the tenant on GraphQL requests, same header as
// the REST surface.
const HeaderTenantID = "X-Tenant-ID"

// TenantIDFromContext returns the tenant id for the current request, 0 when absent.
func TenantIDFromContext(ctx context.Context) uint {
	if v := ctx.Value(CtxKeyTenantID); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// WithTenantID attaches the tenant id to context.
func WithTenantID(ctx context.Context, tenantID uint) context.Context {
	return context.WithValue(ctx, CtxKeyTenantID, tenantID)
}

// GetTenantID extracts the tenant id from the request header.
func GetTenantID(r *http.Request) uint {
	if h := r.Header.Get(HeaderTenantID); h != "" {
		if id, err := strconv.ParseUint(h, 10, 32); err == nil {
			return uint(id)
		}
	}
	return 0
}
