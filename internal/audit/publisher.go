package audit

import (
	"context"
	"log/slog"

	"formdesk/pkg/requestcontext"
)

// Publisher captures structured audit events. Emission is fire-and-forget
// from the caller's perspective: a full inbox drops the event with a log
// line rather than stalling the request path.
type Publisher struct {
	logger *slog.Logger
	inbox  chan Event
}

// NewPublisher creates a publisher feeding a Worker through a bounded inbox.
func NewPublisher(logger *slog.Logger, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{logger: logger, inbox: make(chan Event, buffer)}
}

// Emit records an event. A nil publisher is a no-op so services can run
// without audit wiring in tests.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"form_id", event.FormID,
		)
	}
}

// Inbox exposes the event channel for the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
