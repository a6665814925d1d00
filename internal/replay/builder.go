package replay

import (
	"formdesk/internal/enrich"
	"formdesk/internal/response"
	"formdesk/internal/schema"
)

const degradeMessage = "unable to reconstruct structured view"

// Builder turns stored responses into presentation models. It is pure:
// no state, no I/O, safe for concurrent use.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build reconstructs a presentation from a stored response. Exactly one of
// the returns is non-nil; Build itself never fails.
func (b *Builder) Build(resp *response.FormResponse) (*Model, *DegradeNotice) {
	if resp == nil || resp.Payload == nil {
		return nil, &DegradeNotice{Reason: ReasonEmptyPayload, Message: degradeMessage}
	}

	switch payload := resp.Payload.(type) {
	case enrich.EnrichedPayload:
		return b.buildEnriched(payload)
	case enrich.RawPayload:
		if len(payload.Answers) == 0 {
			return nil, &DegradeNotice{Reason: ReasonEmptyPayload, Message: degradeMessage}
		}
		return nil, &DegradeNotice{
			Reason:  ReasonNoSchema,
			Message: degradeMessage,
			Values:  payload.Answers,
		}
	default:
		return nil, &DegradeNotice{Reason: ReasonEmptyPayload, Message: degradeMessage}
	}
}

func (b *Builder) buildEnriched(payload enrich.EnrichedPayload) (*Model, *DegradeNotice) {
	snapshot := payload.SchemaSnapshot
	if snapshot.IsEmpty() {
		// Snapshot missing or pageless: the data survives as a listing.
		return nil, &DegradeNotice{
			Reason:  ReasonUnusableSchema,
			Message: degradeMessage,
			Values:  payload.SimpleData,
		}
	}

	// Display values were fixed at enrichment time; reuse them rather than
	// re-deriving, so replay shows exactly what was recorded.
	displayByName := make(map[string]string, len(payload.DetailedResponses))
	for _, record := range payload.DetailedResponses {
		displayByName[record.QuestionName] = record.DisplayValue
	}

	model := &Model{
		Title:        payload.SurveyInfo.Title,
		Description:  payload.SurveyInfo.Description,
		ShowProgress: len(snapshot.Pages) > 1,
		Pages:        make([]PageView, 0, len(snapshot.Pages)),
	}
	if !payload.SurveyInfo.CompletedAt.IsZero() {
		model.CompletedAt = payload.SurveyInfo.CompletedAt.Format("2006-01-02 15:04:05 MST")
	}

	for _, page := range snapshot.Pages {
		view := PageView{
			Name:        page.Name,
			Title:       page.Title,
			Description: page.Description,
			Index:       page.Index,
		}
		for _, panel := range page.Panels {
			for _, q := range panel.Questions {
				view.Questions = append(view.Questions, questionView(q, panel, payload.SimpleData, displayByName))
			}
		}
		for _, q := range page.Questions {
			view.Questions = append(view.Questions, questionView(q, schema.Panel{}, payload.SimpleData, displayByName))
		}
		model.Pages = append(model.Pages, view)
	}
	return model, nil
}

func questionView(q schema.Question, panel schema.Panel, values map[string]any, displayByName map[string]string) QuestionView {
	return QuestionView{
		Name:         q.Name,
		Title:        q.Title,
		Type:         q.Type,
		PanelName:    panel.Name,
		PanelTitle:   panel.Title,
		Required:     q.Required,
		Value:        values[q.Name],
		DisplayValue: displayByName[q.Name],
	}
}
