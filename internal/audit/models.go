// Package audit records what happened to forms and responses: who created a
// definition, when a type was assigned, when a submission was recorded or
// replayed. Events are transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"
)

// Action names a recorded event.
type Action string

const (
	ActionFormCreated      Action = "form_created"
	ActionFormUpdated      Action = "form_updated"
	ActionFormTypeAssigned Action = "form_type_assigned"
	ActionResponseRecorded Action = "response_recorded"
	ActionResponseReplayed Action = "response_replayed"
)

// Event is emitted from domain services to capture key actions.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	FormID     string    `json:"form_id,omitempty"`
	ResponseID string    `json:"response_id,omitempty"`
	FormType   string    `json:"form_type,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Store is an append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}
