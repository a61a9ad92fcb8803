package validation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairworkly/internal/compliance"
	"fairworkly/pkg/domain"
)

func completedRun(t *testing.T, counts RunCounts) *ValidationRun {
	t.Helper()
	run, err := NewValidationRun(domain.TenantID(uuid.New()), "payroll.csv", "/tmp/payroll.csv", compliance.AllEnabled(), time.Now())
	require.NoError(t, err)
	require.NoError(t, run.Complete(counts, time.Now()))
	return run
}

func evidenceIssue(t *testing.T, category compliance.IssueCategory, impact float64, runID domain.RunID, recordID uuid.UUID, employeeID domain.EmployeeID) compliance.Issue {
	t.Helper()
	issue, err := compliance.NewEvidenceIssue(category, compliance.SeverityCritical, impact, compliance.Evidence{
		ActualValue:   1,
		ExpectedValue: 2,
		AffectedUnits: 8,
		Unit:          compliance.UnitHour,
		ContextLabel:  "retail level 1",
	})
	require.NoError(t, err)
	return issue.Attach(runID, recordID, employeeID)
}

func TestAggregateSummaryAndCategories(t *testing.T) {
	agg := NewAggregator()

	alice := domain.NewEmployeeID()
	bob := domain.NewEmployeeID()

	recAlice := compliance.PayRecord{ID: uuid.New(), EmployeeID: alice, EmployeeName: "Alice Wu"}
	recBob := compliance.PayRecord{ID: uuid.New(), EmployeeID: bob, EmployeeNumber: "E-042"}

	run := completedRun(t, RunCounts{TotalRecords: 3, PassedRecords: 1, FailedRecords: 2, TotalIssues: 3, CriticalIssues: 3})
	issues := []compliance.Issue{
		evidenceIssue(t, compliance.CategoryBaseRate, 10.10, run.ID, recAlice.ID, alice),
		evidenceIssue(t, compliance.CategoryBaseRate, 5.15, run.ID, recBob.ID, bob),
		evidenceIssue(t, compliance.CategorySuperannuation, 20.00, run.ID, recAlice.ID, alice),
	}

	result := agg.Aggregate(run, []compliance.PayRecord{recAlice, recBob}, issues)

	assert.Equal(t, run.ID.Short(), result.ValidationID)
	assert.Equal(t, "Failed", result.Status)
	assert.Equal(t, 1, result.Summary.PassedCount)
	assert.Equal(t, 3, result.Summary.TotalIssues)
	assert.InDelta(t, 35.25, result.Summary.TotalUnderpayment, 0.001)
	assert.Equal(t, 2, result.Summary.AffectedEmployees)

	// Only categories actually present, in fixed order.
	require.Len(t, result.Categories, 2)
	assert.Equal(t, "base_rate", result.Categories[0].Key)
	assert.Equal(t, 2, result.Categories[0].AffectedEmployeeCount)
	assert.InDelta(t, 15.25, result.Categories[0].TotalUnderpayment, 0.001)
	assert.Equal(t, "superannuation", result.Categories[1].Key)
	assert.Equal(t, 1, result.Categories[1].AffectedEmployeeCount)

	// Issue views join display fields from the record.
	require.Len(t, result.Issues, 3)
	assert.Equal(t, "Alice Wu", result.Issues[0].EmployeeName)
	assert.Equal(t, "E-042", result.Issues[1].EmployeeName) // number fallback
	assert.Equal(t, "OPEN", result.Issues[0].IssueStatus)
	assert.NotNil(t, result.Issues[0].Description)
	assert.Empty(t, result.Issues[0].Warning)
}

func TestAggregatePassedRunHasNoCategories(t *testing.T) {
	run := completedRun(t, RunCounts{TotalRecords: 2, PassedRecords: 2})
	result := NewAggregator().Aggregate(run, nil, nil)

	assert.Equal(t, "Passed", result.Status)
	assert.Empty(t, result.Categories)
	assert.Empty(t, result.Issues)
	assert.Zero(t, result.Summary.TotalUnderpayment)
	assert.Zero(t, result.Summary.AffectedEmployees)
}

func TestAggregateWarningsCarryNoUnderpayment(t *testing.T) {
	run := completedRun(t, RunCounts{TotalRecords: 1, TotalIssues: 1, FailedRecords: 1})
	warning, err := compliance.NewWarningIssue(compliance.CategoryPreValidation, "record is not auditable: hourly_rate must be positive")
	require.NoError(t, err)
	recID := uuid.New()
	employee := domain.NewEmployeeID()
	issues := []compliance.Issue{warning.Attach(run.ID, recID, employee)}

	result := NewAggregator().Aggregate(run, nil, issues)

	assert.Zero(t, result.Summary.TotalUnderpayment)
	assert.Equal(t, 1, result.Summary.AffectedEmployees)
	require.Len(t, result.Issues, 1)
	assert.Nil(t, result.Issues[0].Description)
	assert.NotEmpty(t, result.Issues[0].Warning)
}

func TestAggregateUnresolvedEmployeesExcludedFromAffectedCounts(t *testing.T) {
	run := completedRun(t, RunCounts{TotalRecords: 1, TotalIssues: 1, FailedRecords: 1})
	recID := uuid.New()
	issues := []compliance.Issue{
		evidenceIssue(t, compliance.CategoryBaseRate, 12.00, run.ID, recID, domain.EmployeeID{}),
	}

	result := NewAggregator().Aggregate(run, nil, issues)

	assert.Zero(t, result.Summary.AffectedEmployees)
	require.Len(t, result.Categories, 1)
	assert.Zero(t, result.Categories[0].AffectedEmployeeCount)
	assert.InDelta(t, 12.00, result.Categories[0].TotalUnderpayment, 0.001)
	assert.Empty(t, result.Issues[0].EmployeeID)
}

func TestAggregateParseFailure(t *testing.T) {
	run := completedRun(t, RunCounts{TotalIssues: 2})
	w1, err := compliance.NewWarningIssue(compliance.CategoryPreValidation, "missing required columns: award")
	require.NoError(t, err)
	w2, err := compliance.NewWarningIssue(compliance.CategoryPreValidation, "file is empty")
	require.NoError(t, err)
	issues := []compliance.Issue{
		w1.Attach(run.ID, uuid.Nil, domain.EmployeeID{}),
		w2.Attach(run.ID, uuid.Nil, domain.EmployeeID{}),
	}

	result := NewAggregator().AggregateParseFailure(run, issues)

	assert.Equal(t, "Failed", result.Status)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, "pre_validation", result.Categories[0].Key)
	assert.Zero(t, result.Categories[0].AffectedEmployeeCount)
	assert.Zero(t, result.Categories[0].TotalUnderpayment)
	assert.Len(t, result.Issues, 2)
}
