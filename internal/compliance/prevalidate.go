package compliance

import (
	"fmt"
	"strings"
)

// PreValidator gates a record into auditable or not before any rule runs.
// The gate is all-or-nothing: partially garbage financial data cannot be
// partially audited. It is evaluated per record and never aborts a run.
type PreValidator struct{}

func NewPreValidator() *PreValidator { return &PreValidator{} }

// Check returns nil when the record is auditable. Otherwise it returns
// exactly one combined Warning issue naming every violated field.
func (v *PreValidator) Check(rec *PayRecord) *Issue {
	var violations []string
	if strings.TrimSpace(rec.Classification) == "" {
		violations = append(violations, "classification is empty")
	}
	if rec.HourlyRate <= 0 {
		violations = append(violations, "hourly_rate must be positive")
	}
	if rec.OrdinaryHours < 0 {
		violations = append(violations, "ordinary_hours cannot be negative")
	}
	if rec.OrdinaryPay < 0 {
		violations = append(violations, "ordinary_pay cannot be negative")
	}
	if rec.GrossPay < 0 {
		violations = append(violations, "gross_pay cannot be negative")
	}
	if len(violations) == 0 {
		return nil
	}
	issue, err := NewWarningIssue(CategoryPreValidation,
		fmt.Sprintf("record is not auditable: %s", strings.Join(violations, "; ")))
	if err != nil {
		// Unreachable: the message is never empty here.
		return nil
	}
	return &issue
}
