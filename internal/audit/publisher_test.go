package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{ err error }

func (s *failingSink) Write(context.Context, Event) error { return s.err }

type capturingSink struct{ events []Event }

func (s *capturingSink) Write(_ context.Context, e Event) error {
	s.events = append(s.events, e)
	return nil
}

func TestPublisherEmitStampsDefaults(t *testing.T) {
	store := NewMemoryStore()
	sink := &capturingSink{}
	p := NewPublisher(store, sink)

	err := p.Emit(context.Background(), Event{
		TenantID: "t-1",
		RunID:    "r-1",
		Action:   string(EventValidationCompleted),
		Decision: "Failed",
	})
	require.NoError(t, err)

	events, err := p.List(context.Background(), "r-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, CategoryCompliance, events[0].Category)

	// Sinks see the same stamped event.
	require.Len(t, sink.events, 1)
	assert.Equal(t, events[0].Category, sink.events[0].Category)
}

func TestPublisherEmitKeepsExplicitFields(t *testing.T) {
	store := NewMemoryStore()
	p := NewPublisher(store)

	ts := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	err := p.Emit(context.Background(), Event{
		Category:  CategoryOperations,
		Timestamp: ts,
		RunID:     "r-2",
		Action:    string(EventValidationCompleted),
	})
	require.NoError(t, err)

	events, err := store.ListByRun(context.Background(), "r-2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.Equal(t, CategoryOperations, events[0].Category)
}

func TestPublisherSinkFailureDoesNotLoseTheStoreWrite(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("broker down")
	p := NewPublisher(store, &failingSink{err: boom})

	err := p.Emit(context.Background(), Event{RunID: "r-3", Action: string(EventValidationStarted)})
	require.ErrorIs(t, err, boom)

	events, listErr := store.ListByRun(context.Background(), "r-3")
	require.NoError(t, listErr)
	assert.Len(t, events, 1)
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(NewPublisher(store), inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	publisher := NewChannelPublisher(inbox)
	require.NoError(t, publisher.Emit(ctx, Event{RunID: "r-4", Action: string(EventValidationStarted)}))
	require.NoError(t, publisher.Emit(ctx, Event{RunID: "r-4", Action: string(EventValidationCompleted)}))

	assert.Eventually(t, func() bool {
		events, err := store.ListByRun(context.Background(), "r-4")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerOutlivesEmitFailures(t *testing.T) {
	store := NewMemoryStore()
	inbox := make(chan Event, 4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	worker := NewWorker(
		NewPublisher(store, &failingSink{err: errors.New("broker down")}),
		inbox,
		WithWorkerLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	publisher := NewChannelPublisher(inbox)
	require.NoError(t, publisher.Emit(ctx, Event{RunID: "r-6", Action: string(EventValidationStarted)}))
	require.NoError(t, publisher.Emit(ctx, Event{RunID: "r-6", Action: string(EventValidationCompleted)}))

	// Both events reach the store; the sink failures only get logged.
	assert.Eventually(t, func() bool {
		events, err := store.ListByRun(context.Background(), "r-6")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("worker stopped early: %v", err)
	default:
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelPublisherFullInboxDropsInsteadOfBlocking(t *testing.T) {
	inbox := make(chan Event, 1)
	publisher := NewChannelPublisher(inbox)

	require.NoError(t, publisher.Emit(context.Background(), Event{RunID: "r-5"}))
	assert.Error(t, publisher.Emit(context.Background(), Event{RunID: "r-5"}))
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, CategoryOperations, CategoryFor(EventValidationStarted))
	assert.Equal(t, CategoryCompliance, CategoryFor(EventValidationCompleted))
	assert.Equal(t, CategoryCompliance, CategoryFor(EventValidationParseFailed))
	assert.Equal(t, CategoryOperations, CategoryFor(AuditAction("unknown")))
}
