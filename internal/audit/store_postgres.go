package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	const q = `
		INSERT INTO audit_events (category, occurred_at, tenant_id, run_id, action, subject, decision, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, q,
		string(event.Category), event.Timestamp, event.TenantID, event.RunID,
		event.Action, event.Subject, event.Decision, event.Reason,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRun(ctx context.Context, runID string) ([]Event, error) {
	const q = `
		SELECT category, occurred_at, tenant_id, run_id, action, subject, decision, reason
		FROM audit_events
		WHERE run_id = $1
		ORDER BY occurred_at`
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var category string
		if err := rows.Scan(&category, &e.Timestamp, &e.TenantID, &e.RunID, &e.Action, &e.Subject, &e.Decision, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
