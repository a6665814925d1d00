package enrich

import (
	"time"

	"formdesk/internal/schema"
)

// Engine converts raw answer mappings into response payloads. It holds no
// state; a single instance serves all requests.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Process builds a payload from a schema and raw answers.
//
// Without a schema it returns a RawPayload wrapping the answers verbatim:
// the degrade path that preserves data which would otherwise be lost.
//
// With a schema it walks pages in order, panels before directly-owned
// questions within each page, and produces one QuestionRecord per question.
// Unanswered questions still get a record (nil value, empty display);
// answers for names absent from the schema survive in SimpleData only.
// completedAt comes from the submission source, not the clock here.
func (e *Engine) Process(s *schema.Schema, answers map[string]any, completedAt time.Time) Payload {
	if s == nil {
		return RawPayload{Answers: copyAnswers(answers)}
	}

	records := make([]QuestionRecord, 0, s.QuestionCount())
	questionIndex := 0

	for pageIdx := range s.Pages {
		page := &s.Pages[pageIdx]
		pageRef := &PageRef{Name: page.Name, Title: page.Title, Index: page.Index}

		for panelIdx := range page.Panels {
			panel := &page.Panels[panelIdx]
			panelRef := &PanelRef{Name: panel.Name, Title: panel.Title}
			for _, q := range panel.Questions {
				records = append(records, buildRecord(q, answers, pageRef, panelRef, questionIndex))
				questionIndex++
			}
		}
		for _, q := range page.Questions {
			records = append(records, buildRecord(q, answers, pageRef, nil, questionIndex))
			questionIndex++
		}
	}

	return EnrichedPayload{
		SurveyInfo: SurveyInfo{
			Title:          s.Title,
			Description:    s.Description,
			TotalPages:     len(s.Pages),
			TotalQuestions: len(records),
			CompletedAt:    completedAt,
		},
		SimpleData:        copyAnswers(answers),
		DetailedResponses: records,
		SchemaSnapshot:    s.Clone(),
	}
}

func buildRecord(q schema.Question, answers map[string]any, page *PageRef, panel *PanelRef, index int) QuestionRecord {
	value, answered := answers[q.Name]
	if !answered {
		value = nil
	}

	record := QuestionRecord{
		QuestionName:  q.Name,
		QuestionTitle: q.Title,
		QuestionType:  q.Type,
		Value:         value,
		DisplayValue:  displayValue(q, value),
		Page:          page,
		Panel:         panel,
		IsRequired:    q.Required,
		Metadata: RecordMetadata{
			QuestionIndex: index,
			HasComment:    hasCompanionAnswer(answers, q.Name+"-Comment"),
			HasOther:      isOtherSelected(value),
			InputType:     q.InputHint,
			Placeholder:   q.Placeholder,
		},
	}
	if len(q.Choices) > 0 {
		record.Choices = append([]schema.Choice(nil), q.Choices...)
	}
	return record
}

// hasCompanionAnswer detects the "<name>-Comment" companion key convention
// used by the authoring tool for free-text addenda.
func hasCompanionAnswer(answers map[string]any, key string) bool {
	v, ok := answers[key]
	return ok && coerceString(v) != ""
}

// isOtherSelected reports whether the reserved "other" choice value was
// picked, alone or within a multi-select.
func isOtherSelected(value any) bool {
	switch v := value.(type) {
	case string:
		return v == "other"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "other" {
				return true
			}
		}
	}
	return false
}

func copyAnswers(answers map[string]any) map[string]any {
	out := make(map[string]any, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
