package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them. It keeps
// background processing off the request path without wiring queue
// implementations into callers. Delivery is best effort: a failed emit is
// logged and the worker keeps draining, it never stops the process.
type Worker struct {
	publisher *Publisher
	inbox     <-chan Event
	logger    *slog.Logger
}

type WorkerOption func(*Worker)

func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(publisher *Publisher, inbox <-chan Event, opts ...WorkerOption) *Worker {
	w := &Worker{publisher: publisher, inbox: inbox}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "audit emit failed",
						"run_id", event.RunID, "action", event.Action, "error", err)
				}
			}
		}
	}
}
