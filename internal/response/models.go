// Package response records submissions against form definitions. A response
// is owned by whichever external workflow created it; this package only
// reads and writes it and never garbage-collects.
package response

import (
	"time"

	"formdesk/internal/enrich"
	"formdesk/pkg/domain"
)

// FormResponse is one recorded submission. FormID is a weak reference:
// lookup only, no ownership, and it stays valid even if the definition's
// schema changes later (the enriched payload carries its own snapshot).
type FormResponse struct {
	ID        domain.ResponseID `json:"id"`
	FormID    domain.FormID     `json:"form_id"`
	CreatedAt time.Time         `json:"created_at"`
	Payload   enrich.Payload    `json:"payload,omitempty"`
}

// clone returns a copy safe to hand out of the in-memory store.
func (r *FormResponse) clone() *FormResponse {
	cp := *r
	if r.Payload != nil {
		cp.Payload = r.Payload.Clone()
	}
	return &cp
}
