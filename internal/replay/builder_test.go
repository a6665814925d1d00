package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdesk/internal/enrich"
	"formdesk/internal/response"
	"formdesk/internal/schema"
	"formdesk/pkg/domain"
)

func enrichedResponse(t *testing.T, rawSchema string, answers map[string]any) *response.FormResponse {
	t.Helper()
	s, err := schema.Decode([]byte(rawSchema))
	require.NoError(t, err)
	payload := enrich.NewEngine().Process(s, answers, time.Date(2026, 5, 2, 11, 0, 0, 0, time.UTC))
	return &response.FormResponse{
		ID:        domain.NewResponseID(),
		FormID:    domain.NewFormID(),
		CreatedAt: time.Now(),
		Payload:   payload,
	}
}

const twoPageSchema = `{"title":"Service Intake","pages":[
	{"name":"p1","title":"Basics","questions":[
		{"name":"name","type":"text","required":true},
		{"name":"contact","type":"dropdown","choices":[{"value":"em","text":"Email"},{"value":"ph","text":"Phone"}]}
	]},
	{"name":"p2","title":"Details","panels":[{"name":"history","title":"History","questions":[
		{"name":"returning","type":"boolean"}
	]}]}
]}`

func TestBuild_StructuredView(t *testing.T) {
	builder := NewBuilder()
	resp := enrichedResponse(t, twoPageSchema, map[string]any{
		"name": "Dana", "contact": "ph", "returning": true,
	})

	model, notice := builder.Build(resp)
	require.Nil(t, notice)
	require.NotNil(t, model)

	assert.Equal(t, "Service Intake", model.Title)
	assert.True(t, model.ShowProgress)
	require.Len(t, model.Pages, 2)

	page, ok := model.CurrentPage()
	require.True(t, ok)
	assert.Equal(t, "p1", page.Name)
	assert.Equal(t, "Phone", page.Questions[1].DisplayValue)

	// Panel question carries its panel reference.
	assert.Equal(t, "history", model.Pages[1].Questions[0].PanelName)
}

// TestBuild_RoundTrip verifies no value is dropped or mutated in transit:
// the values shown per question reproduce the recorded simple data.
func TestBuild_RoundTrip(t *testing.T) {
	builder := NewBuilder()
	answers := map[string]any{"name": "Dana", "contact": "em", "returning": false}
	resp := enrichedResponse(t, twoPageSchema, answers)

	model, notice := builder.Build(resp)
	require.Nil(t, notice)
	assert.Equal(t, answers, model.Values())
}

func TestBuild_Navigation(t *testing.T) {
	builder := NewBuilder()
	model, _ := builder.Build(enrichedResponse(t, twoPageSchema, nil))

	assert.Equal(t, 0, model.PageIndex())
	assert.True(t, model.Next())
	assert.Equal(t, 1, model.PageIndex())
	assert.False(t, model.Next(), "cannot advance past the last page")
	assert.True(t, model.Previous())
	assert.False(t, model.Previous(), "cannot step before the first page")
	assert.True(t, model.GoToPage(1))
	assert.False(t, model.GoToPage(5))
	assert.Equal(t, 1, model.PageIndex())
}

// TestBuild_MutationIsNoOp: the model exists for inspection; writes are
// absorbed silently.
func TestBuild_MutationIsNoOp(t *testing.T) {
	builder := NewBuilder()
	answers := map[string]any{"name": "Dana"}
	model, _ := builder.Build(enrichedResponse(t, twoPageSchema, answers))

	model.SetValue("name", "changed")
	assert.Equal(t, "Dana", model.Values()["name"])
}

func TestBuild_SinglePageHidesProgress(t *testing.T) {
	builder := NewBuilder()
	model, notice := builder.Build(enrichedResponse(t,
		`{"pages":[{"name":"p1","questions":[{"name":"q1","type":"text"}]}]}`, nil))
	require.Nil(t, notice)
	assert.False(t, model.ShowProgress)
}

func TestBuild_DegradePaths(t *testing.T) {
	builder := NewBuilder()

	t.Run("nil response", func(t *testing.T) {
		model, notice := builder.Build(nil)
		assert.Nil(t, model)
		require.NotNil(t, notice)
		assert.Equal(t, ReasonEmptyPayload, notice.Reason)
	})

	t.Run("absent payload", func(t *testing.T) {
		model, notice := builder.Build(&response.FormResponse{ID: domain.NewResponseID()})
		assert.Nil(t, model)
		require.NotNil(t, notice)
		assert.Equal(t, ReasonEmptyPayload, notice.Reason)
	})

	t.Run("empty raw payload", func(t *testing.T) {
		_, notice := builder.Build(&response.FormResponse{
			ID:      domain.NewResponseID(),
			Payload: enrich.RawPayload{Answers: map[string]any{}},
		})
		require.NotNil(t, notice)
		assert.Equal(t, ReasonEmptyPayload, notice.Reason)
	})

	t.Run("raw payload lists values without structure", func(t *testing.T) {
		model, notice := builder.Build(&response.FormResponse{
			ID:      domain.NewResponseID(),
			Payload: enrich.RawPayload{Answers: map[string]any{"a": float64(1)}},
		})
		assert.Nil(t, model)
		require.NotNil(t, notice)
		assert.Equal(t, ReasonNoSchema, notice.Reason)
		assert.Equal(t, "unable to reconstruct structured view", notice.Message)
		assert.Equal(t, map[string]any{"a": float64(1)}, notice.Values)
	})

	t.Run("enriched payload with unusable snapshot", func(t *testing.T) {
		_, notice := builder.Build(&response.FormResponse{
			ID: domain.NewResponseID(),
			Payload: enrich.EnrichedPayload{
				SimpleData: map[string]any{"q1": "kept"},
			},
		})
		require.NotNil(t, notice)
		assert.Equal(t, ReasonUnusableSchema, notice.Reason)
		assert.Equal(t, "kept", notice.Values["q1"])
	})
}
