package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formdesk/internal/enrich"
	"formdesk/internal/forms"
	"formdesk/internal/jwttoken"
	"formdesk/internal/registry"
	"formdesk/internal/replay"
	"formdesk/internal/response"
)

const testSigningKey = "test-signing-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	formStore := forms.NewInMemoryStore()
	formsSvc := forms.NewService(formStore)
	registrySvc := registry.NewService(formStore)
	responsesSvc := response.NewService(response.NewInMemoryStore(), formStore, enrich.NewEngine())
	replaySvc := replay.NewService(replay.NewBuilder(), log)

	return NewRouter(RouterDeps{
		Logger:    log,
		Verifier:  jwttoken.NewService(testSigningKey),
		Forms:     NewFormsHandler(log, formsSvc, registrySvc),
		Responses: NewResponsesHandler(log, responsesSvc, replaySvc),
	})
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := jwttoken.NewService(testSigningKey).Generate("reviewer@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createForm(t *testing.T, router http.Handler, token string, body map[string]any) map[string]any {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/forms", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating form, got %d: %s", rec.Code, rec.Body.String())
	}
	var form map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&form); err != nil {
		t.Fatalf("failed to decode form: %v", err)
	}
	return form
}

func TestMutationsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/forms", "", map[string]any{"name": "Nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/forms", "not-a-jwt", map[string]any{"name": "Nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestFormLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	form := createForm(t, router, token, map[string]any{
		"name":        "Customer Intake",
		"description": "intake flow",
		"schema": map[string]any{
			"title": "Intake",
			"pages": []map[string]any{{
				"questions": []map[string]any{{"name": "q1", "type": "text"}},
			}},
		},
	})
	id, _ := form["id"].(string)
	if id == "" {
		t.Fatalf("expected form id in response")
	}

	getRec := doJSON(t, router, http.MethodGet, "/forms/"+id, "", nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 getting form, got %d", getRec.Code)
	}
	etag := getRec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag on form GET")
	}

	// Conditional GET with the current validator short-circuits.
	condReq := httptest.NewRequest(http.MethodGet, "/forms/"+id, nil)
	condReq.Header.Set("If-None-Match", etag)
	condRec := httptest.NewRecorder()
	router.ServeHTTP(condRec, condReq)
	if condRec.Code != http.StatusNotModified {
		t.Fatalf("expected 304 with matching validator, got %d", condRec.Code)
	}

	patchRec := doJSON(t, router, http.MethodPatch, "/forms/"+id, token, map[string]any{"name": "Renamed"})
	if patchRec.Code != http.StatusOK {
		t.Fatalf("expected 200 patching form, got %d: %s", patchRec.Code, patchRec.Body.String())
	}
	if newTag := patchRec.Header().Get("ETag"); newTag == "" || newTag == etag {
		t.Fatalf("expected a fresh ETag after update, got %q (was %q)", newTag, etag)
	}

	listRec := doJSON(t, router, http.MethodGet, "/forms", "", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing forms, got %d", listRec.Code)
	}
}

func TestAssignTypeConflictEnvelope(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	holder := createForm(t, router, token, map[string]any{"name": "Holder"})
	challenger := createForm(t, router, token, map[string]any{"name": "Challenger"})
	holderID := holder["id"].(string)
	challengerID := challenger["id"].(string)

	rec := doJSON(t, router, http.MethodPut, "/forms/"+holderID+"/type", token, map[string]any{"type": "contact"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 assigning type, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/forms/"+challengerID+"/type", token, map[string]any{"type": "contact_form"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second contact holder, got %d", rec.Code)
	}
	var env struct {
		Error      string `json:"error"`
		HolderID   string `json:"holder_id"`
		HolderName string `json:"holder_name"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode conflict envelope: %v", err)
	}
	if env.HolderID != holderID || env.HolderName != "Holder" {
		t.Fatalf("expected conflict to name the holder, got %+v", env)
	}

	lookupRec := doJSON(t, router, http.MethodGet, "/forms/types/contact", "", nil)
	if lookupRec.Code != http.StatusOK {
		t.Fatalf("expected 200 resolving contact holder, got %d", lookupRec.Code)
	}
	var resolved map[string]any
	if err := json.NewDecoder(lookupRec.Body).Decode(&resolved); err != nil {
		t.Fatalf("failed to decode resolved form: %v", err)
	}
	if resolved["id"] != holderID {
		t.Fatalf("expected lookup to resolve holder %s, got %v", holderID, resolved["id"])
	}
}

func TestAssignUnknownTypeRejected(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)
	form := createForm(t, router, token, map[string]any{"name": "F"})

	rec := doJSON(t, router, http.MethodPut, "/forms/"+form["id"].(string)+"/type", token, map[string]any{"type": "questionnaire"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestSubmitAndReplay(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	form := createForm(t, router, token, map[string]any{
		"name": "Survey",
		"schema": map[string]any{
			"title": "Survey",
			"pages": []map[string]any{{
				"questions": []map[string]any{
					{"name": "q1", "title": "Happy?", "type": "boolean"},
				},
			}},
		},
	})
	formID := form["id"].(string)

	// Submission needs no token: the public form host posts here.
	subRec := doJSON(t, router, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": map[string]any{"q1": true},
	})
	if subRec.Code != http.StatusCreated {
		t.Fatalf("expected 201 recording response, got %d: %s", subRec.Code, subRec.Body.String())
	}
	var submitted struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(subRec.Body).Decode(&submitted); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	replayRec := doJSON(t, router, http.MethodGet, "/responses/"+submitted.ID+"/replay", token, nil)
	if replayRec.Code != http.StatusOK {
		t.Fatalf("expected 200 replaying response, got %d: %s", replayRec.Code, replayRec.Body.String())
	}
	var outcome struct {
		Model  *json.RawMessage `json:"model"`
		Notice *json.RawMessage `json:"notice"`
	}
	if err := json.NewDecoder(replayRec.Body).Decode(&outcome); err != nil {
		t.Fatalf("failed to decode replay outcome: %v", err)
	}
	if outcome.Model == nil || outcome.Notice != nil {
		t.Fatalf("expected a structured model without a degrade notice")
	}
}

func TestReplayDegradesWithoutSchema(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	form := createForm(t, router, token, map[string]any{"name": "Schemaless"})
	formID := form["id"].(string)

	subRec := doJSON(t, router, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": map[string]any{"q1": "kept"},
	})
	if subRec.Code != http.StatusCreated {
		t.Fatalf("expected 201 recording response, got %d", subRec.Code)
	}
	var submitted struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(subRec.Body).Decode(&submitted); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Degraded replay is still a 200; the notice is data.
	replayRec := doJSON(t, router, http.MethodGet, "/responses/"+submitted.ID+"/replay", token, nil)
	if replayRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on degraded replay, got %d", replayRec.Code)
	}
	var outcome struct {
		Model  *json.RawMessage `json:"model"`
		Notice *struct {
			Reason string         `json:"reason"`
			Values map[string]any `json:"values"`
		} `json:"notice"`
	}
	if err := json.NewDecoder(replayRec.Body).Decode(&outcome); err != nil {
		t.Fatalf("failed to decode replay outcome: %v", err)
	}
	if outcome.Model != nil || outcome.Notice == nil {
		t.Fatalf("expected a degrade notice without a model")
	}
	if outcome.Notice.Reason != "no_schema" {
		t.Fatalf("expected no_schema degrade reason, got %q", outcome.Notice.Reason)
	}
	if outcome.Notice.Values["q1"] != "kept" {
		t.Fatalf("expected preserved raw answers in the notice")
	}
}

func TestResponseEndpointsNotFound(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	rec := doJSON(t, router, http.MethodPost, "/forms/not-a-uuid/responses", "", map[string]any{"answers": map[string]any{}})
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 4xx for malformed form id, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/responses/8f2d1a0e-0000-4000-8000-000000000000", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown response, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}
}
