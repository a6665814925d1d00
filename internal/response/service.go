package response

import (
	"context"
	"errors"
	"time"

	"formdesk/internal/audit"
	"formdesk/internal/enrich"
	"formdesk/internal/forms"
	responsemetrics "formdesk/internal/response/metrics"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/platform/sentinel"
	"formdesk/pkg/requestcontext"
)

// FormSource resolves the definition a submission targets. Satisfied by
// forms.Store; kept narrow so tests can stub it.
type FormSource interface {
	FindByID(ctx context.Context, id domain.FormID) (*forms.FormDefinition, error)
}

// Service records submissions: it resolves the target definition, runs
// enrichment against whatever schema the definition has right now, and
// persists the result.
type Service struct {
	store     Store
	formSrc   FormSource
	engine    *enrich.Engine
	publisher *audit.Publisher
	metrics   *responsemetrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Service)

// WithAuditPublisher wires submission events into the audit trail.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics wires prometheus counters.
func WithMetrics(m *responsemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, formSrc FormSource, engine *enrich.Engine, opts ...Option) *Service {
	s := &Service{store: store, formSrc: formSrc, engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records raw answers against a form definition. completedAt comes
// from the submission source; a zero value falls back to the request time.
// A definition without a schema yields a raw payload: the answers are kept,
// not rejected.
func (s *Service) Submit(ctx context.Context, formID domain.FormID, answers map[string]any, completedAt time.Time) (*FormResponse, error) {
	form, err := s.formSrc.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "form definition not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form definition")
	}

	now := requestcontext.Now(ctx)
	if completedAt.IsZero() {
		completedAt = now
	}

	payload := s.engine.Process(form.Schema, answers, completedAt)
	resp := &FormResponse{
		ID:        domain.NewResponseID(),
		FormID:    form.ID,
		CreatedAt: now,
		Payload:   payload,
	}
	if err := s.store.Save(ctx, resp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save form response")
	}

	s.metrics.RecordResponse(string(payload.Kind()))
	s.publisher.Emit(ctx, audit.Event{
		Action:     audit.ActionResponseRecorded,
		FormID:     form.ID.String(),
		ResponseID: resp.ID.String(),
	})
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id domain.ResponseID) (*FormResponse, error) {
	resp, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "form response not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form response")
	}
	return resp, nil
}

// ListByForm returns all responses recorded against one definition.
func (s *Service) ListByForm(ctx context.Context, formID domain.FormID) ([]*FormResponse, error) {
	out, err := s.store.ListByForm(ctx, formID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list form responses")
	}
	return out, nil
}
