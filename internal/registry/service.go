// Package registry owns the mapping of form identity to semantic form type
// and enforces the cardinality rules: registration and contact admit one
// live holder each, service is unbounded.
package registry

import (
	"context"
	"errors"

	"formdesk/internal/audit"
	"formdesk/internal/forms"
	formmetrics "formdesk/internal/forms/metrics"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/platform/sentinel"
	"formdesk/pkg/requestcontext"
)

// Service assigns and resolves form types. The atomic check-then-set lives
// in the store (mutex for the in-memory store, row locks for postgres), so
// the service stays free of its own synchronization; multi-instance
// deployments rely on the store's transactional isolation.
type Service struct {
	store     forms.Store
	publisher *audit.Publisher
	metrics   *formmetrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Service)

// WithAuditPublisher wires assignment events into the audit trail.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics wires the shared form metrics.
func WithMetrics(m *formmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store forms.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize maps external input to a canonical form type. It is a thin
// boundary wrapper over the single alias table in pkg/domain.
func (s *Service) Normalize(raw string) (domain.FormType, error) {
	return domain.ParseFormType(raw)
}

// Assign sets the type on a form definition. For a constrained type already
// held by a different definition it returns *forms.TypeConflictError naming
// the holder; reassigning the current holder to another type frees the slot.
func (s *Service) Assign(ctx context.Context, id domain.FormID, t domain.FormType) (*forms.FormDefinition, error) {
	if !t.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "form type must be one of registration, contact, service")
	}

	form, err := s.store.AssignType(ctx, id, t, requestcontext.Now(ctx))
	if err != nil {
		var conflict *forms.TypeConflictError
		if errors.As(err, &conflict) {
			s.metrics.RecordConflict(t.String())
			return nil, conflict
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "form definition not found")
		}
		if errors.Is(err, sentinel.ErrConflict) {
			// Backstop index fired before the holder could be named; report
			// the conflict without one.
			s.metrics.RecordConflict(t.String())
			return nil, dErrors.Newf(dErrors.CodeConflict, "form type %q is already held", t)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign form type")
	}

	s.metrics.RecordAssign(t.String())
	s.publisher.Emit(ctx, audit.Event{
		Action:   audit.ActionFormTypeAssigned,
		FormID:   form.ID.String(),
		FormType: t.String(),
	})
	return form, nil
}

// Lookup resolves the unique holder of a constrained type. Service forms
// are unbounded, so resolving them by type is a caller mistake here: query
// the form store instead.
func (s *Service) Lookup(ctx context.Context, t domain.FormType) (*forms.FormDefinition, error) {
	if !t.Constrained() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "form type %q has no unique holder; query forms by id", t)
	}
	holders, err := s.store.FindByType(ctx, t)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up form type holder")
	}
	if len(holders) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no form definition holds type %q", t)
	}
	return holders[0], nil
}
