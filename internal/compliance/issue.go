package compliance

import (
	"time"

	"github.com/google/uuid"

	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
)

// IssueCategory classifies a finding by the check that produced it.
type IssueCategory string

const (
	CategoryPreValidation  IssueCategory = "pre_validation"
	CategoryBaseRate       IssueCategory = "base_rate"
	CategoryPenaltyRate    IssueCategory = "penalty_rate"
	CategoryCasualLoading  IssueCategory = "casual_loading"
	CategorySuperannuation IssueCategory = "superannuation"
)

// Severity ranks issue urgency. Wire values are the integers.
type Severity int

const (
	SeverityInfo     Severity = 1
	SeverityWarning  Severity = 2
	SeverityError    Severity = 3
	SeverityCritical Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// UnitType describes what AffectedUnits counts in an evidence payload.
type UnitType string

const (
	UnitHour     UnitType = "hour"
	UnitCurrency UnitType = "currency"
)

// Evidence quantifies an Error or Critical finding.
type Evidence struct {
	ActualValue   float64
	ExpectedValue float64
	AffectedUnits float64
	Unit          UnitType
	ContextLabel  string
}

// Issue is one finding against one record. The payload is a tagged union:
// Error and Critical issues carry Evidence, Warning issues carry free text,
// never both and never neither. Construct via NewEvidenceIssue or
// NewWarningIssue; issues are immutable once built.
type Issue struct {
	ID           domain.IssueID
	RunID        domain.RunID
	RecordID     uuid.UUID // uuid.Nil for whole-file parse failures
	EmployeeID   domain.EmployeeID
	Category     IssueCategory
	Severity     Severity
	ImpactAmount float64
	Evidence     *Evidence
	Warning      string
	CreatedAt    time.Time
}

// NewEvidenceIssue builds an Error or Critical issue with quantified evidence.
func NewEvidenceIssue(category IssueCategory, severity Severity, impact float64, ev Evidence) (Issue, error) {
	if severity != SeverityError && severity != SeverityCritical {
		return Issue{}, dErrors.New(dErrors.CodeInvariantViolation, "evidence issues must be error or critical severity")
	}
	if ev.Unit != UnitHour && ev.Unit != UnitCurrency {
		return Issue{}, dErrors.New(dErrors.CodeInvariantViolation, "evidence unit must be hour or currency")
	}
	if impact < 0 {
		return Issue{}, dErrors.New(dErrors.CodeInvariantViolation, "impact amount cannot be negative")
	}
	return Issue{
		ID:           domain.NewIssueID(),
		Category:     category,
		Severity:     severity,
		ImpactAmount: RoundCents(impact),
		Evidence:     &ev,
		CreatedAt:    time.Now(),
	}, nil
}

// NewWarningIssue builds a Warning issue. Warnings never carry an impact.
func NewWarningIssue(category IssueCategory, message string) (Issue, error) {
	if message == "" {
		return Issue{}, dErrors.New(dErrors.CodeInvariantViolation, "warning issues require a message")
	}
	return Issue{
		ID:        domain.NewIssueID(),
		Category:  category,
		Severity:  SeverityWarning,
		Warning:   message,
		CreatedAt: time.Now(),
	}, nil
}

// Attach stamps run, record, and employee ownership onto an issue. The
// orchestrator calls this once, right after a rule produces the issue.
func (i Issue) Attach(runID domain.RunID, recordID uuid.UUID, employeeID domain.EmployeeID) Issue {
	i.RunID = runID
	i.RecordID = recordID
	i.EmployeeID = employeeID
	return i
}
