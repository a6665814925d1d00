package response

import (
	"context"

	"formdesk/pkg/domain"
)

// Store persists form responses. Responses are append-mostly: written once
// at submission, read for review and replay.
type Store interface {
	Save(ctx context.Context, resp *FormResponse) error
	FindByID(ctx context.Context, id domain.ResponseID) (*FormResponse, error)
	// ListByForm returns the responses recorded against one definition,
	// newest first.
	ListByForm(ctx context.Context, formID domain.FormID) ([]*FormResponse, error)
}
