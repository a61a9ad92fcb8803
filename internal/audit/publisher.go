package audit

import (
	"context"
	"errors"
	"time"
)

// Sink receives emitted events. The store is the canonical sink; additional
// sinks (message broker, log shipper) fan out from the same publisher.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	sinks []Sink
}

func NewPublisher(store Store, sinks ...Sink) *Publisher {
	return &Publisher{store: store, sinks: sinks}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = CategoryFor(AuditAction(base.Action))
	}
	if err := p.store.Append(ctx, base); err != nil {
		return err
	}
	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Write(ctx, base); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Publisher) List(ctx context.Context, runID string) ([]Event, error) {
	return p.store.ListByRun(ctx, runID)
}
