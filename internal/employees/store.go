package employees

import (
	"context"

	"fairworkly/pkg/domain"
)

// Store persists directory entries. Lookups return sentinel.ErrNotFound when
// no entry matches; Create returns sentinel.ErrConflict when the natural key
// is already taken within the tenant.
type Store interface {
	Create(ctx context.Context, employee *Employee) error
	FindByEmail(ctx context.Context, tenantID domain.TenantID, email string) (*Employee, error)
	FindByNumber(ctx context.Context, tenantID domain.TenantID, number string) (*Employee, error)
}
