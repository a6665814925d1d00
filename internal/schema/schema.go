// Package schema holds the declarative form schema shapes: ordered pages
// containing panels and questions. The schema is authored externally,
// stored verbatim, and read (never mutated) by enrichment and replay.
package schema

import "encoding/json"

// Schema is the root of a declarative form definition.
type Schema struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Pages       []Page `json:"pages,omitempty"`

	// doc is the authored document exactly as supplied. Storage and API
	// reads emit it verbatim; the typed fields above are only a view for
	// enrichment and replay.
	doc json.RawMessage
}

// Page is one navigable step of a form. It may own questions directly,
// group them under panels, or mix both; ordering is significant.
type Page struct {
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Index       int        `json:"index"`
	Description string     `json:"description,omitempty"`
	Panels      []Panel    `json:"panels,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// Panel groups related questions within a page.
type Panel struct {
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// Question is a single field. Type is an open tag: the known kinds are
// listed in internal/enrich, and unknown tags still flow through the
// pipeline with raw string display.
type Question struct {
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	InputHint   string   `json:"inputHint,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Choice is one selectable option of a choice-typed question.
type Choice struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// IsEmpty reports whether the schema carries no pages at all. Enrichment
// treats an empty schema as structured (zero questions), not as missing.
func (s *Schema) IsEmpty() bool {
	return s == nil || len(s.Pages) == 0
}

// QuestionCount returns the number of questions across all pages and panels.
func (s *Schema) QuestionCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range s.Pages {
		for _, panel := range p.Panels {
			n += len(panel.Questions)
		}
		n += len(p.Questions)
	}
	return n
}

// Clone returns a deep copy. Enrichment snapshots the schema into each
// enriched payload so later edits never change historical replays.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{Title: s.Title, Description: s.Description}
	if len(s.doc) > 0 {
		out.doc = append(json.RawMessage(nil), s.doc...)
	}
	if s.Pages == nil {
		return out
	}
	out.Pages = make([]Page, len(s.Pages))
	for i, p := range s.Pages {
		cp := p
		cp.Panels = clonePanels(p.Panels)
		cp.Questions = cloneQuestions(p.Questions)
		out.Pages[i] = cp
	}
	return out
}

func clonePanels(panels []Panel) []Panel {
	if panels == nil {
		return nil
	}
	out := make([]Panel, len(panels))
	for i, p := range panels {
		cp := p
		cp.Questions = cloneQuestions(p.Questions)
		out[i] = cp
	}
	return out
}

func cloneQuestions(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		cq := q
		if q.Choices != nil {
			cq.Choices = append([]Choice(nil), q.Choices...)
		}
		out[i] = cq
	}
	return out
}
