// Package employees maintains the per-tenant employee directory that payroll
// rows resolve against.
package employees

import (
	"strings"
	"time"

	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
)

// Employee is one directory entry. Email is stored lowercased; it is the
// primary natural key, with the employee number as fallback.
type Employee struct {
	ID        domain.EmployeeID
	TenantID  domain.TenantID
	Email     string
	Number    string
	Name      string
	CreatedAt time.Time
}

// NewEmployee constructs a directory entry. At least one natural key is
// required.
func NewEmployee(tenantID domain.TenantID, email, number, name string) (*Employee, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "employee requires a tenant")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	number = strings.TrimSpace(number)
	if email == "" && number == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "employee requires an email or number")
	}
	return &Employee{
		ID:        domain.NewEmployeeID(),
		TenantID:  tenantID,
		Email:     email,
		Number:    number,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}, nil
}
