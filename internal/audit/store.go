package audit

import "context"

// Store persists audit events. Append-only; swap with concrete storage
// without touching the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRun(ctx context.Context, runID string) ([]Event, error)
}
