// Package enrich interprets raw form answers against a schema to produce a
// structured, human-readable, replayable record. Enrichment is a pure
// function of its inputs: no shared state, safe to run concurrently across
// responses.
package enrich

import (
	"encoding/json"
	"maps"
	"time"

	"formdesk/internal/schema"
	dErrors "formdesk/pkg/domain-errors"
)

// PayloadKind tags the stored payload variant.
type PayloadKind string

const (
	KindRaw      PayloadKind = "raw"
	KindEnriched PayloadKind = "enriched"
)

// Payload is the recorded content of a form response: either a raw answer
// mapping (no schema at submission time) or a fully enriched record.
// Clone isolates stored payloads from caller mutation; answer values are
// treated as immutable JSON scalars and are shared.
type Payload interface {
	Kind() PayloadKind
	Clone() Payload
}

// RawPayload wraps the answer mapping verbatim. It is the explicit degrade
// path used when no schema was available, not an error state.
type RawPayload struct {
	Answers map[string]any `json:"answers"`
}

func (RawPayload) Kind() PayloadKind { return KindRaw }

func (p RawPayload) Clone() Payload {
	return RawPayload{Answers: maps.Clone(p.Answers)}
}

// SurveyInfo summarizes the submission.
type SurveyInfo struct {
	Title          string    `json:"title,omitempty"`
	Description    string    `json:"description,omitempty"`
	TotalPages     int       `json:"total_pages"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// PageRef locates a question's page at enrichment time.
type PageRef struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Index int    `json:"index"`
}

// PanelRef locates a question's panel, when it had one.
type PanelRef struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// RecordMetadata carries traversal and input details for one question.
// QuestionIndex is the zero-based position in the flattened question
// sequence across all pages, not the page-local position.
type RecordMetadata struct {
	QuestionIndex int    `json:"question_index"`
	HasComment    bool   `json:"has_comment"`
	HasOther      bool   `json:"has_other"`
	InputType     string `json:"input_type,omitempty"`
	Placeholder   string `json:"placeholder,omitempty"`
}

// QuestionRecord is one question's enriched answer.
type QuestionRecord struct {
	QuestionName  string          `json:"question_name"`
	QuestionTitle string          `json:"question_title,omitempty"`
	QuestionType  string          `json:"question_type"`
	Value         any             `json:"value,omitempty"`
	DisplayValue  string          `json:"display_value"`
	Page          *PageRef        `json:"page,omitempty"`
	Panel         *PanelRef       `json:"panel,omitempty"`
	IsRequired    bool            `json:"is_required"`
	Choices       []schema.Choice `json:"choices,omitempty"`
	Metadata      RecordMetadata  `json:"metadata"`
}

// EnrichedPayload is the structured record of one submission. SchemaSnapshot
// is the schema exactly as used, so later schema edits never change how a
// historical response replays.
type EnrichedPayload struct {
	SurveyInfo        SurveyInfo       `json:"survey_info"`
	SimpleData        map[string]any   `json:"simple_data"`
	DetailedResponses []QuestionRecord `json:"detailed_responses"`
	SchemaSnapshot    *schema.Schema   `json:"schema_snapshot"`
}

func (EnrichedPayload) Kind() PayloadKind { return KindEnriched }

func (p EnrichedPayload) Clone() Payload {
	cp := p
	cp.SimpleData = maps.Clone(p.SimpleData)
	cp.SchemaSnapshot = p.SchemaSnapshot.Clone()
	if p.DetailedResponses != nil {
		cp.DetailedResponses = make([]QuestionRecord, len(p.DetailedResponses))
		for i, rec := range p.DetailedResponses {
			cr := rec
			if rec.Page != nil {
				page := *rec.Page
				cr.Page = &page
			}
			if rec.Panel != nil {
				panel := *rec.Panel
				cr.Panel = &panel
			}
			cr.Choices = append([]schema.Choice(nil), rec.Choices...)
			cp.DetailedResponses[i] = cr
		}
	}
	return cp
}

// payloadEnvelope is the storage encoding: a kind tag plus the variant body.
type payloadEnvelope struct {
	Kind PayloadKind     `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodePayload serializes a payload for storage. A nil payload encodes to
// nil, representing an absent payload.
func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode response payload")
	}
	return json.Marshal(payloadEnvelope{Kind: p.Kind(), Data: data})
}

// DecodePayload deserializes a stored payload. Absent or empty input yields
// a nil payload; an unrecognized kind yields nil as well, leaving the
// degrade decision to the replay builder rather than failing the read.
func DecodePayload(raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var env payloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode response payload envelope")
	}
	switch env.Kind {
	case KindRaw:
		var p RawPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode raw payload")
		}
		return p, nil
	case KindEnriched:
		var p EnrichedPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode enriched payload")
		}
		return p, nil
	default:
		return nil, nil
	}
}
