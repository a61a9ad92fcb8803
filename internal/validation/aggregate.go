package validation

import (
	"time"

	"github.com/google/uuid"

	"fairworkly/internal/compliance"
	"fairworkly/pkg/domain"
)

// Result is the wire-level output handed to the caller (and serialised by the
// HTTP layer). Field names follow the published API contract.
type Result struct {
	ValidationID string            `json:"validationId"`
	Status       string            `json:"status"` // "Passed" | "Failed"
	Timestamp    time.Time         `json:"timestamp"`
	Summary      Summary           `json:"summary"`
	Categories   []CategorySummary `json:"categories"`
	Issues       []IssueView       `json:"issues"`
}

// Summary aggregates the whole run.
type Summary struct {
	PassedCount       int     `json:"passedCount"`
	TotalIssues       int     `json:"totalIssues"`
	TotalUnderpayment float64 `json:"totalUnderpayment"`
	AffectedEmployees int     `json:"affectedEmployees"`
}

// CategorySummary aggregates one issue category actually present in the run.
type CategorySummary struct {
	Key                   string  `json:"key"`
	AffectedEmployeeCount int     `json:"affectedEmployeeCount"`
	TotalUnderpayment     float64 `json:"totalUnderpayment"`
}

// EvidenceView is the quantified description of an Error/Critical issue.
type EvidenceView struct {
	ActualValue   float64 `json:"actualValue"`
	ExpectedValue float64 `json:"expectedValue"`
	AffectedUnits float64 `json:"affectedUnits"`
	UnitType      string  `json:"unitType"`
	ContextLabel  string  `json:"contextLabel"`
}

// IssueView is one issue joined to its record for display. Exactly one of
// Description and Warning is populated, per the issue severity.
type IssueView struct {
	IssueID      string        `json:"issueId"`
	CategoryType string        `json:"categoryType"`
	EmployeeName string        `json:"employeeName"`
	EmployeeID   string        `json:"employeeId"`
	IssueStatus  string        `json:"issueStatus"` // always "OPEN" at creation
	Severity     int           `json:"severity"`
	ImpactAmount float64       `json:"impactAmount"`
	Description  *EvidenceView `json:"description,omitempty"`
	Warning      string        `json:"warning,omitempty"`
}

const issueStatusOpen = "OPEN"

// wireStatus maps internal run status to the published status strings.
func wireStatus(s RunStatus) string {
	if s == RunPassed {
		return "Passed"
	}
	return "Failed"
}

// categoryOrder fixes category output order so re-runs aggregate identically.
var categoryOrder = []compliance.IssueCategory{
	compliance.CategoryPreValidation,
	compliance.CategoryBaseRate,
	compliance.CategoryPenaltyRate,
	compliance.CategoryCasualLoading,
	compliance.CategorySuperannuation,
}

// Aggregator turns the accumulated issue set into the summary, category, and
// issue views. Pure domain logic - no I/O, no side effects.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// Aggregate builds the full result for a completed run. Records are consulted
// only to join display fields onto issues.
func (a *Aggregator) Aggregate(run *ValidationRun, records []compliance.PayRecord, issues []compliance.Issue) *Result {
	completedAt := run.StartedAt
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}

	result := &Result{
		ValidationID: run.ID.Short(),
		Status:       wireStatus(run.Status),
		Timestamp:    completedAt,
		Summary: Summary{
			PassedCount: run.Counts.PassedRecords,
			TotalIssues: len(issues),
		},
		Categories: []CategorySummary{},
		Issues:     make([]IssueView, 0, len(issues)),
	}

	recordsByID := make(map[uuid.UUID]compliance.PayRecord, len(records))
	for _, rec := range records {
		recordsByID[rec.ID] = rec
	}

	affected := make(map[domain.EmployeeID]struct{})
	type categoryStats struct {
		employees    map[domain.EmployeeID]struct{}
		underpayment float64
	}
	perCategory := make(map[compliance.IssueCategory]*categoryStats)

	for _, issue := range issues {
		result.Summary.TotalUnderpayment = compliance.RoundCents(result.Summary.TotalUnderpayment + issue.ImpactAmount)
		if !issue.EmployeeID.IsNil() {
			affected[issue.EmployeeID] = struct{}{}
		}

		stats, ok := perCategory[issue.Category]
		if !ok {
			stats = &categoryStats{employees: make(map[domain.EmployeeID]struct{})}
			perCategory[issue.Category] = stats
		}
		stats.underpayment = compliance.RoundCents(stats.underpayment + issue.ImpactAmount)
		if !issue.EmployeeID.IsNil() {
			stats.employees[issue.EmployeeID] = struct{}{}
		}

		result.Issues = append(result.Issues, a.issueView(issue, recordsByID))
	}
	result.Summary.AffectedEmployees = len(affected)

	for _, category := range categoryOrder {
		stats, ok := perCategory[category]
		if !ok {
			continue
		}
		result.Categories = append(result.Categories, CategorySummary{
			Key:                   string(category),
			AffectedEmployeeCount: len(stats.employees),
			TotalUnderpayment:     stats.underpayment,
		})
	}

	return result
}

// AggregateParseFailure builds the short-circuit result for a totally
// unparsable file: exactly one pre_validation category with zero stats.
func (a *Aggregator) AggregateParseFailure(run *ValidationRun, issues []compliance.Issue) *Result {
	result := a.Aggregate(run, nil, issues)
	result.Categories = []CategorySummary{{
		Key:                   string(compliance.CategoryPreValidation),
		AffectedEmployeeCount: 0,
		TotalUnderpayment:     0,
	}}
	return result
}

func (a *Aggregator) issueView(issue compliance.Issue, recordsByID map[uuid.UUID]compliance.PayRecord) IssueView {
	view := IssueView{
		IssueID:      issue.ID.String(),
		CategoryType: string(issue.Category),
		IssueStatus:  issueStatusOpen,
		Severity:     int(issue.Severity),
		ImpactAmount: issue.ImpactAmount,
		Warning:      issue.Warning,
	}
	if rec, ok := recordsByID[issue.RecordID]; ok {
		view.EmployeeName = rec.EmployeeName
		if view.EmployeeName == "" {
			view.EmployeeName = rec.EmployeeNumber
		}
	}
	if !issue.EmployeeID.IsNil() {
		view.EmployeeID = issue.EmployeeID.String()
	}
	if issue.Evidence != nil {
		view.Description = &EvidenceView{
			ActualValue:   issue.Evidence.ActualValue,
			ExpectedValue: issue.Evidence.ExpectedValue,
			AffectedUnits: issue.Evidence.AffectedUnits,
			UnitType:      string(issue.Evidence.Unit),
			ContextLabel:  issue.Evidence.ContextLabel,
		}
	}
	return view
}
