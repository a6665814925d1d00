package forms

import (
	"context"
	"errors"

	"formdesk/internal/audit"
	formmetrics "formdesk/internal/forms/metrics"
	"formdesk/internal/schema"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/platform/sentinel"
	"formdesk/pkg/requestcontext"
)

// Service orchestrates the form definition lifecycle. It keeps validation in
// the model, persistence in the store, and stays thin in between.
type Service struct {
	store     Store
	publisher *audit.Publisher
	metrics   *formmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithAuditPublisher wires lifecycle events into the audit trail.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics wires prometheus counters.
func WithMetrics(m *formmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries creation-time fields. Type is deliberately absent:
// assignment goes through the registry so cardinality is checked in one
// place.
type CreateInput struct {
	Name        string
	Description string
	SchemaDoc   []byte
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*FormDefinition, error) {
	doc, err := decodeOptionalSchema(in.SchemaDoc)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	form, err := NewFormDefinition(domain.NewFormID(), in.Name, in.Description, doc, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, form); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create form definition")
	}

	s.metrics.IncrementCreated()
	s.publisher.Emit(ctx, audit.Event{
		Action: audit.ActionFormCreated,
		FormID: form.ID.String(),
		Detail: form.Name,
	})
	return form, nil
}

// UpdateInput carries a partial update; nil fields are untouched. A non-nil
// SchemaDoc replaces the schema atomically.
type UpdateInput struct {
	Name        *string
	Description *string
	SchemaDoc   []byte
}

func (s *Service) Update(ctx context.Context, id domain.FormID, in UpdateInput) (*FormDefinition, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := Patch{Name: in.Name, Description: in.Description}
	if in.SchemaDoc != nil {
		doc, err := decodeOptionalSchema(in.SchemaDoc)
		if err != nil {
			return nil, err
		}
		patch.Schema = doc
	}
	if err := form.Apply(patch, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, form); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "form definition not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update form definition")
	}

	s.metrics.IncrementUpdated()
	s.publisher.Emit(ctx, audit.Event{
		Action: audit.ActionFormUpdated,
		FormID: form.ID.String(),
		Detail: form.Name,
	})
	return form, nil
}

func (s *Service) Get(ctx context.Context, id domain.FormID) (*FormDefinition, error) {
	form, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "form definition not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form definition")
	}
	return form, nil
}

func (s *Service) List(ctx context.Context) ([]*FormDefinition, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list form definitions")
	}
	return out, nil
}

// ListByType returns all definitions holding a type; used for Service forms
// where many definitions share the tag.
func (s *Service) ListByType(ctx context.Context, t domain.FormType) ([]*FormDefinition, error) {
	out, err := s.store.FindByType(ctx, t)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list form definitions by type")
	}
	return out, nil
}

// decodeOptionalSchema parses an optional schema document. An absent
// document is valid (the form has no schema yet); an unreadable one is a
// validation error.
func decodeOptionalSchema(doc []byte) (*schema.Schema, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	return schema.Decode(doc)
}
