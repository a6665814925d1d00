package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher inbox and persists them,
// optionally forwarding to a Kafka sink. It keeps background processing off
// the request path.
type Worker struct {
	store  Store
	sink   *KafkaSink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, sink *KafkaSink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled. Sink failures are
// logged, not fatal: the durable store append is the one that matters.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action,
					"error", err,
				)
				continue
			}
			if w.sink != nil {
				if err := w.sink.Publish(ctx, event); err != nil {
					w.logger.WarnContext(ctx, "audit kafka publish failed",
						"action", event.Action,
						"error", err,
					)
				}
			}
		}
	}
}
