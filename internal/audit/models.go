package audit

import "time"

// EventCategory classifies audit events by their primary purpose. Compliance
// events carry legal significance and long retention; operations events exist
// for debugging and can be sampled.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key validation actions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	TenantID  string
	RunID     string
	Action    string
	Subject   string // e.g. the uploaded filename
	Decision  string // terminal run status, when applicable
	Reason    string
}

// AuditAction names the recorded validation actions.
type AuditAction string

const (
	EventValidationStarted     AuditAction = "validation_started"
	EventValidationCompleted   AuditAction = "validation_completed"
	EventValidationParseFailed AuditAction = "validation_parse_failed"
)

// actionCategories maps each action to its retention category.
var actionCategories = map[AuditAction]EventCategory{
	EventValidationStarted:     CategoryOperations,
	EventValidationCompleted:   CategoryCompliance,
	EventValidationParseFailed: CategoryCompliance,
}

// CategoryFor returns the category for an action, defaulting to operations.
func CategoryFor(action AuditAction) EventCategory {
	if c, ok := actionCategories[action]; ok {
		return c
	}
	return CategoryOperations
}
