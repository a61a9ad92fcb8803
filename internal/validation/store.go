package validation

import (
	"context"

	"fairworkly/internal/compliance"
	"fairworkly/pkg/domain"
)

// Store persists runs, records, and issues. Record and issue writes are
// batched; RunInTx gives the orchestrator one atomic boundary for the
// completion writes so a crash cannot leave records persisted without their
// issues or final run state.
type Store interface {
	CreateRun(ctx context.Context, run *ValidationRun) error
	UpdateRun(ctx context.Context, run *ValidationRun) error
	FindRun(ctx context.Context, id domain.RunID) (*ValidationRun, error)

	AddRecords(ctx context.Context, records []compliance.PayRecord) error
	ListRecords(ctx context.Context, runID domain.RunID) ([]compliance.PayRecord, error)

	AddIssues(ctx context.Context, issues []compliance.Issue) error
	ListIssues(ctx context.Context, runID domain.RunID) ([]compliance.Issue, error)

	// RunInTx executes fn against a transactional view of the store.
	// Implementations without real transactions serialise with a lock.
	RunInTx(ctx context.Context, fn func(Store) error) error
}
