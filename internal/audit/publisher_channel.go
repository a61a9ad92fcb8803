package audit

import (
	"context"
	"time"

	"fairworkly/pkg/platform/sentinel"
)

// ChannelPublisher hands events to a background worker instead of writing
// inline, keeping audit I/O off the request path. A full inbox drops the
// event rather than blocking the caller.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	select {
	case p.inbox <- base:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return sentinel.ErrUnavailable
	}
}
