// Package ports defines the collaborator contracts the validation
// orchestrator consumes. Ports keep the pipeline independent of file formats,
// identity storage, and blob storage implementations.
package ports

import (
	"context"
	"io"
	"strings"
	"time"

	"fairworkly/pkg/domain"
)

// Row is one successfully parsed payroll line. Award, category, and level are
// already typed; data-quality problems (empty classification, non-positive
// rates) deliberately survive parsing so the pre-validation gate can report
// them per record.
type Row struct {
	RowNumber int

	EmployeeEmail  string
	EmployeeNumber string
	EmployeeName   string

	Award          domain.AwardCode
	Classification string
	Level          int
	Category       domain.EmploymentCategory

	HourlyRate float64

	OrdinaryHours      float64
	OrdinaryPay        float64
	SaturdayHours      float64
	SaturdayPay        float64
	SundayHours        float64
	SundayPay          float64
	PublicHolidayHours float64
	PublicHolidayPay   float64

	GrossPay  float64
	SuperPaid float64

	PeriodStart time.Time
	PeriodEnd   time.Time
}

// NaturalKey is the identity-matching key for a row: lowercased email when
// present, otherwise the employee number.
func (r Row) NaturalKey() string {
	if r.EmployeeEmail != "" {
		return strings.ToLower(r.EmployeeEmail)
	}
	return r.EmployeeNumber
}

// Parser turns an uploaded payroll stream into rows plus row-scoped parse
// errors. If the stream is unparsable as a whole, rows is empty and
// parseErrors is non-empty. The returned error is reserved for infrastructure
// faults (I/O), which are fatal to the run.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) (rows []Row, parseErrors []string, err error)
}

// EmployeeRef carries the matching fields for one distinct employee in a file.
type EmployeeRef struct {
	Key    string
	Email  string
	Number string
	Name   string
}

// Identity is a resolved employee. Unresolved keys map to the zero Identity
// (nil ID): rows are still audited, their findings just cannot be pinned to a
// directory entry.
type Identity struct {
	ID     domain.EmployeeID
	Name   string
	Number string
}

// EmployeeDirectory resolves natural keys to employee identities for one
// tenant, creating directory entries as needed. The returned map is total
// over the requested keys.
type EmployeeDirectory interface {
	Resolve(ctx context.Context, tenantID domain.TenantID, refs []EmployeeRef) (map[string]Identity, error)
}

// FileStore persists the raw upload for audit purposes and returns an opaque
// location. Failure is fatal to the run.
type FileStore interface {
	Store(ctx context.Context, r io.Reader, filename string) (location string, err error)
}
