package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdesk/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherEmit(t *testing.T) {
	t.Run("fills timestamp and request id from context", func(t *testing.T) {
		p := NewPublisher(discardLogger(), 4)
		now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(requestcontext.WithRequestID(context.Background(), "req-123"), now)

		p.Emit(ctx, Event{Action: ActionFormCreated, FormID: "f1"})

		select {
		case got := <-p.Inbox():
			assert.Equal(t, ActionFormCreated, got.Action)
			assert.Equal(t, "req-123", got.RequestID)
			assert.Equal(t, now, got.Timestamp)
		default:
			t.Fatal("expected an event in the inbox")
		}
	})

	t.Run("full inbox drops instead of blocking", func(t *testing.T) {
		p := NewPublisher(discardLogger(), 1)
		ctx := context.Background()

		p.Emit(ctx, Event{Action: ActionFormCreated})

		done := make(chan struct{})
		go func() {
			p.Emit(ctx, Event{Action: ActionFormUpdated})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("emit blocked on a full inbox")
		}
	})

	t.Run("nil publisher is a no-op", func(t *testing.T) {
		var p *Publisher
		p.Emit(context.Background(), Event{Action: ActionFormCreated})
	})
}

func TestWorkerPersistsEvents(t *testing.T) {
	p := NewPublisher(discardLogger(), 4)
	store := NewInMemoryStore()
	w := NewWorker(store, nil, p.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	p.Emit(ctx, Event{Action: ActionResponseRecorded, FormID: "f1", ResponseID: "r1"})
	p.Emit(ctx, Event{Action: ActionResponseReplayed, FormID: "f1", ResponseID: "r1"})

	require.Eventually(t, func() bool {
		events, err := store.List(ctx)
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionResponseRecorded, events[0].Action)
	assert.Equal(t, ActionResponseReplayed, events[1].Action)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
