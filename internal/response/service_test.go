package response

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks FormSource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"formdesk/internal/enrich"
	"formdesk/internal/forms"
	"formdesk/internal/response/mocks"
	"formdesk/internal/schema"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	formStore *forms.InMemoryStore
	svc       *Service
	ctx       context.Context
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.formStore = forms.NewInMemoryStore()
	s.svc = NewService(NewInMemoryStore(), s.formStore, enrich.NewEngine())
	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) createForm(doc *schema.Schema) *forms.FormDefinition {
	form, err := forms.NewFormDefinition(domain.NewFormID(), "Intake", "", doc, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.formStore.Create(s.ctx, form))
	return form
}

func (s *ServiceSuite) TestSubmit() {
	s.Run("definition with schema yields an enriched payload", func() {
		doc := &schema.Schema{Pages: []schema.Page{{
			Name: "page1",
			Questions: []schema.Question{
				{Name: "q1", Title: "Subscribed?", Type: "boolean"},
			},
		}}}
		form := s.createForm(doc)

		resp, err := s.svc.Submit(s.ctx, form.ID, map[string]any{"q1": true}, time.Time{})
		s.Require().NoError(err)
		s.Equal(form.ID, resp.FormID)
		s.Equal(s.now, resp.CreatedAt)

		enriched, ok := resp.Payload.(enrich.EnrichedPayload)
		s.Require().True(ok)
		s.Require().Len(enriched.DetailedResponses, 1)
		s.Equal("Yes", enriched.DetailedResponses[0].DisplayValue)
		s.Equal(true, enriched.SimpleData["q1"])
		s.Equal(s.now, enriched.SurveyInfo.CompletedAt)
	})

	s.Run("definition without schema degrades to a raw payload", func() {
		form := s.createForm(nil)

		resp, err := s.svc.Submit(s.ctx, form.ID, map[string]any{"q1": "kept"}, time.Time{})
		s.Require().NoError(err)

		raw, ok := resp.Payload.(enrich.RawPayload)
		s.Require().True(ok)
		s.Equal("kept", raw.Answers["q1"])
	})

	s.Run("explicit completion time is preserved", func() {
		form := s.createForm(&schema.Schema{Pages: []schema.Page{{
			Questions: []schema.Question{{Name: "q1", Type: "text"}},
		}}})
		completed := s.now.Add(-2 * time.Hour)

		resp, err := s.svc.Submit(s.ctx, form.ID, map[string]any{"q1": "v"}, completed)
		s.Require().NoError(err)

		enriched, ok := resp.Payload.(enrich.EnrichedPayload)
		s.Require().True(ok)
		s.Equal(completed, enriched.SurveyInfo.CompletedAt)
	})

	s.Run("unknown form not found", func() {
		_, err := s.svc.Submit(s.ctx, domain.NewFormID(), map[string]any{"q1": "v"}, time.Time{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("recorded response survives a later schema change", func() {
		form := s.createForm(&schema.Schema{Pages: []schema.Page{{
			Questions: []schema.Question{{Name: "q1", Title: "Q1", Type: "text"}},
		}}})
		resp, err := s.svc.Submit(s.ctx, form.ID, map[string]any{"q1": "v"}, time.Time{})
		s.Require().NoError(err)

		form.Schema = nil
		s.Require().NoError(s.formStore.Update(s.ctx, form))

		got, err := s.svc.Get(s.ctx, resp.ID)
		s.Require().NoError(err)
		enriched, ok := got.Payload.(enrich.EnrichedPayload)
		s.Require().True(ok)
		s.False(enriched.SchemaSnapshot.IsEmpty())
	})
}

// TestSubmitSourceFailure: a store failure while resolving the target
// definition surfaces as an internal error, not a not-found.
func (s *ServiceSuite) TestSubmitSourceFailure() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	formID := domain.NewFormID()
	src := mocks.NewMockFormSource(ctrl)
	src.EXPECT().FindByID(gomock.Any(), formID).Return(nil, errors.New("connection reset"))

	svc := NewService(NewInMemoryStore(), src, enrich.NewEngine())
	_, err := svc.Submit(s.ctx, formID, map[string]any{"q1": true}, time.Time{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestGetAndList() {
	s.Run("get unknown not found", func() {
		_, err := s.svc.Get(s.ctx, domain.NewResponseID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("list by form newest first", func() {
		form := s.createForm(nil)
		first, err := s.svc.Submit(s.ctx, form.ID, map[string]any{"n": 1}, time.Time{})
		s.Require().NoError(err)

		later := requestcontext.WithTime(context.Background(), s.now.Add(time.Minute))
		second, err := s.svc.Submit(later, form.ID, map[string]any{"n": 2}, time.Time{})
		s.Require().NoError(err)

		out, err := s.svc.ListByForm(s.ctx, form.ID)
		s.Require().NoError(err)
		s.Require().Len(out, 2)
		s.Equal(second.ID, out[0].ID)
		s.Equal(first.ID, out[1].ID)
	})
}
