// Package validation drives the end-to-end compliance pipeline: ingest rows,
// resolve identities, materialise records, gate and evaluate, persist, and
// aggregate the result for the caller.
package validation

import (
	"time"

	"fairworkly/internal/compliance"
	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
	"fairworkly/pkg/platform/sentinel"
)

// RunStatus is the validation run state machine:
// pending -> in_progress -> {passed, failed}. Infrastructure faults propagate
// as errors rather than a terminal state of this machine.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunInProgress RunStatus = "in_progress"
	RunPassed     RunStatus = "passed"
	RunFailed     RunStatus = "failed"
)

// IsTerminal reports whether the run can no longer change.
func (s RunStatus) IsTerminal() bool { return s == RunPassed || s == RunFailed }

// RunCounts are the aggregates stamped onto a run at completion.
type RunCounts struct {
	TotalRecords   int
	PassedRecords  int
	FailedRecords  int
	TotalIssues    int
	CriticalIssues int
}

// ValidationRun is the aggregate root for one submission. Created in
// in_progress, mutated exactly once more at completion, never after.
type ValidationRun struct {
	ID           domain.RunID
	TenantID     domain.TenantID
	Filename     string
	FileLocation string
	Flags        compliance.Flags
	Status       RunStatus
	Counts       RunCounts
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// NewValidationRun constructs a run in in_progress state.
func NewValidationRun(tenantID domain.TenantID, filename, fileLocation string, flags compliance.Flags, startedAt time.Time) (*ValidationRun, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "validation run requires a tenant")
	}
	if filename == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "validation run requires a filename")
	}
	return &ValidationRun{
		ID:           domain.NewRunID(),
		TenantID:     tenantID,
		Filename:     filename,
		FileLocation: fileLocation,
		Flags:        flags,
		Status:       RunInProgress,
		StartedAt:    startedAt,
	}, nil
}

// Complete moves the run to its terminal status from the computed counts:
// failed if any issue exists, passed otherwise. Completing a terminal run is
// an invalid state transition.
func (r *ValidationRun) Complete(counts RunCounts, completedAt time.Time) error {
	if r.Status.IsTerminal() {
		return sentinel.ErrInvalidState
	}
	r.Counts = counts
	if counts.TotalIssues > 0 {
		r.Status = RunFailed
	} else {
		r.Status = RunPassed
	}
	r.CompletedAt = &completedAt
	return nil
}
