// Package replay reconstructs a read-only presentation of a recorded
// response. Building never fails: when a structured view cannot be
// reconstructed the result is an annotated degrade notice instead.
package replay

// DegradeReason explains why a structured view was not reconstructed.
// Empty submissions and unparseable payloads both degrade, but callers
// doing analytics can tell them apart by reason.
type DegradeReason string

const (
	// ReasonEmptyPayload: the response carries no payload at all.
	ReasonEmptyPayload DegradeReason = "empty_payload"
	// ReasonNoSchema: the response was recorded without a schema, so only
	// the raw answer mapping exists.
	ReasonNoSchema DegradeReason = "no_schema"
	// ReasonUnusableSchema: an enriched payload whose stored snapshot
	// cannot drive a paginated view.
	ReasonUnusableSchema DegradeReason = "unusable_schema"
)

// DegradeNotice is the fallback view: an inspectable key-value listing with
// no navigation or question semantics, explicitly flagged as such.
type DegradeNotice struct {
	Reason  DegradeReason  `json:"reason"`
	Message string         `json:"message"`
	Values  map[string]any `json:"values,omitempty"`
}

// QuestionView is one question in the read-only presentation.
type QuestionView struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Type         string `json:"type"`
	PanelName    string `json:"panel_name,omitempty"`
	PanelTitle   string `json:"panel_title,omitempty"`
	Required     bool   `json:"required"`
	Value        any    `json:"value,omitempty"`
	DisplayValue string `json:"display_value"`
}

// PageView is one navigable page of the presentation.
type PageView struct {
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Index       int            `json:"index"`
	Questions   []QuestionView `json:"questions"`
}

// Model is the navigable, read-only presentation of an enriched response.
// Navigation stays enabled for inspection even though submission is off.
type Model struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	CompletedAt string     `json:"completed_at,omitempty"`
	Pages       []PageView `json:"pages"`
	// ShowProgress indicates a progress bar is worth rendering: more than
	// one page exists.
	ShowProgress bool `json:"show_progress"`

	pageIndex int
}

// CurrentPage returns the page the model is positioned on. The second
// return is false when the model has no pages.
func (m *Model) CurrentPage() (PageView, bool) {
	if len(m.Pages) == 0 {
		return PageView{}, false
	}
	return m.Pages[m.pageIndex], true
}

// PageIndex returns the current zero-based position.
func (m *Model) PageIndex() int { return m.pageIndex }

// Next advances one page; it reports whether the position moved.
func (m *Model) Next() bool {
	if m.pageIndex+1 >= len(m.Pages) {
		return false
	}
	m.pageIndex++
	return true
}

// Previous steps one page back; it reports whether the position moved.
func (m *Model) Previous() bool {
	if m.pageIndex == 0 {
		return false
	}
	m.pageIndex--
	return true
}

// GoToPage jumps to a zero-based page index; out-of-range jumps are
// ignored and reported false.
func (m *Model) GoToPage(index int) bool {
	if index < 0 || index >= len(m.Pages) {
		return false
	}
	m.pageIndex = index
	return true
}

// SetValue is deliberately a no-op: the model exists purely for inspection,
// so attempted mutations are absorbed, not errored.
func (m *Model) SetValue(questionName string, value any) {}

// Values returns the answer shown for each question, keyed by question
// name. It reproduces the recorded simple data for answered questions.
func (m *Model) Values() map[string]any {
	out := make(map[string]any)
	for _, page := range m.Pages {
		for _, q := range page.Questions {
			if q.Value != nil {
				out[q.Name] = q.Value
			}
		}
	}
	return out
}
