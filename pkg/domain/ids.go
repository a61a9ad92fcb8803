// Package domain holds cross-cutting domain primitives: typed identifiers and
// the award/payroll enumerations shared by the awards, compliance, and
// validation packages. Construct values via the Parse functions at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "fairworkly/pkg/domain-errors"
)

// Typed IDs prevent cross-type assignment at compile time. A RunID can never
// be passed where an EmployeeID is expected.
type (
	// TenantID identifies the employer organisation a validation belongs to.
	TenantID uuid.UUID
	// EmployeeID identifies a resolved employee within a tenant.
	EmployeeID uuid.UUID
	// RunID identifies one validation run aggregate.
	RunID uuid.UUID
	// IssueID identifies a single compliance issue.
	IssueID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseTenantID validates external input into a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s)
	return TenantID(u), err
}

// ParseEmployeeID validates external input into an EmployeeID.
func ParseEmployeeID(s string) (EmployeeID, error) {
	u, err := parseUUID(s)
	return EmployeeID(u), err
}

// ParseRunID validates external input into a RunID.
func ParseRunID(s string) (RunID, error) {
	u, err := parseUUID(s)
	return RunID(u), err
}

// NewRunID returns a fresh random RunID.
func NewRunID() RunID { return RunID(uuid.New()) }

// NewIssueID returns a fresh random IssueID.
func NewIssueID() IssueID { return IssueID(uuid.New()) }

// NewEmployeeID returns a fresh random EmployeeID.
func NewEmployeeID() EmployeeID { return EmployeeID(uuid.New()) }

func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id EmployeeID) String() string { return uuid.UUID(id).String() }
func (id RunID) String() string      { return uuid.UUID(id).String() }
func (id IssueID) String() string    { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id EmployeeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RunID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id IssueID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// Short returns the first eight hex characters of the run UUID. Validation
// results expose this as the externally referenceable validation id.
func (id RunID) Short() string {
	return uuid.UUID(id).String()[:8]
}
