package employees

import (
	"context"
	"errors"
	"log/slog"

	"fairworkly/internal/validation/ports"
	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
	"fairworkly/pkg/email"
	"fairworkly/pkg/platform/sentinel"
)

// Directory implements the validation EmployeeDirectory port with
// find-or-create semantics: unseen natural keys become new directory entries
// on the spot. A ref that cannot form a valid entry resolves to the zero
// identity rather than failing the run.
type Directory struct {
	store  Store
	logger *slog.Logger
}

type Option func(d *Directory)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

func NewDirectory(store Store, opts ...Option) *Directory {
	d := &Directory{store: store}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve maps every requested key to an identity. The returned map is total
// over the input keys.
func (d *Directory) Resolve(ctx context.Context, tenantID domain.TenantID, refs []ports.EmployeeRef) (map[string]ports.Identity, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}

	identities := make(map[string]ports.Identity, len(refs))
	for _, ref := range refs {
		employee, err := d.resolveOne(ctx, tenantID, ref)
		if err != nil {
			return nil, err
		}
		if employee == nil {
			if d.logger != nil {
				d.logger.WarnContext(ctx, "employee could not be resolved",
					"tenant_id", tenantID.String(), "key", ref.Key)
			}
			identities[ref.Key] = ports.Identity{}
			continue
		}
		identities[ref.Key] = ports.Identity{
			ID:     employee.ID,
			Name:   employee.Name,
			Number: employee.Number,
		}
	}
	return identities, nil
}

// resolveOne looks the ref up by email, then number, and creates an entry on
// miss. A concurrent create of the same key loses the race and re-reads.
func (d *Directory) resolveOne(ctx context.Context, tenantID domain.TenantID, ref ports.EmployeeRef) (*Employee, error) {
	employee, err := d.find(ctx, tenantID, ref)
	if err == nil {
		return employee, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	name := ref.Name
	if name == "" {
		name = email.DeriveDisplayName(ref.Email)
	}
	created, err := NewEmployee(tenantID, ref.Email, ref.Number, name)
	if err != nil {
		return nil, nil
	}
	if err := d.store.Create(ctx, created); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return d.find(ctx, tenantID, ref)
		}
		return nil, err
	}
	return created, nil
}

func (d *Directory) find(ctx context.Context, tenantID domain.TenantID, ref ports.EmployeeRef) (*Employee, error) {
	if ref.Email != "" {
		return d.store.FindByEmail(ctx, tenantID, ref.Email)
	}
	if ref.Number != "" {
		return d.store.FindByNumber(ctx, tenantID, ref.Number)
	}
	return nil, sentinel.ErrNotFound
}
