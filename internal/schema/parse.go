package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	dErrors "formdesk/pkg/domain-errors"
)

// schemaFields strips the custom JSON methods below so the codec can use
// the plain struct encoding without recursing.
type schemaFields Schema

// Decode parses an opaque JSON document into a Schema. The document is
// kept verbatim alongside the typed view: unknown authoring fields are not
// understood here, but they are never lost on a store round trip.
//
// Errors: CodeValidation when the document is not valid JSON or does not
// have the pages-panels-questions shape.
func Decode(raw []byte) (*Schema, error) {
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "schema document is empty")
	}
	var s Schema
	if err := json.Unmarshal(raw, (*schemaFields)(&s)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "schema document is not valid JSON")
	}
	s.doc = append(json.RawMessage(nil), raw...)
	s.Normalize()
	return &s, nil
}

// Normalize repairs best-effort defaults on the typed view, in place:
// missing page names get a synthetic "page{n}" name, missing question names
// get "question{n}" (n is the 1-based position in the flattened question
// order), and a page without an authored index gets its position. The
// authored document is untouched. A malformed node degrades to defaults
// instead of failing the whole schema.
func (s *Schema) Normalize() {
	if s == nil {
		return
	}
	questionSeq := 0
	for i := range s.Pages {
		page := &s.Pages[i]
		if page.Index == 0 {
			page.Index = i
		}
		if page.Name == "" {
			page.Name = fmt.Sprintf("page%d", i+1)
		}
		for j := range page.Panels {
			panel := &page.Panels[j]
			if panel.Name == "" {
				panel.Name = fmt.Sprintf("panel%d", j+1)
			}
			normalizeQuestions(panel.Questions, &questionSeq)
		}
		normalizeQuestions(page.Questions, &questionSeq)
	}
}

func normalizeQuestions(questions []Question, seq *int) {
	for i := range questions {
		*seq++
		if questions[i].Name == "" {
			questions[i].Name = fmt.Sprintf("question%d", *seq)
		}
	}
}

// Encode serializes the schema for storage. A schema that came from Decode
// round-trips as the exact authored document; one assembled in code
// marshals its typed fields.
func (s *Schema) Encode() ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	if len(s.doc) > 0 {
		return append([]byte(nil), s.doc...), nil
	}
	return json.Marshal((*schemaFields)(s))
}

// MarshalJSON emits the authored document when one is held, so API
// responses and stored snapshots carry the schema verbatim.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if len(s.doc) > 0 {
		return append([]byte(nil), s.doc...), nil
	}
	return json.Marshal((*schemaFields)(s))
}

// UnmarshalJSON routes stored documents back through Decode so the typed
// view and the verbatim document stay paired.
func (s *Schema) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	decoded, err := Decode(raw)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
