package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"formdesk/internal/replay"
	"formdesk/internal/response"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/requestcontext"
)

// ResponsesHandler serves submission recording and replay.
type ResponsesHandler struct {
	logger    *slog.Logger
	responses *response.Service
	replay    *replay.Service
}

func NewResponsesHandler(logger *slog.Logger, responsesSvc *response.Service, replaySvc *replay.Service) *ResponsesHandler {
	return &ResponsesHandler{logger: logger, responses: responsesSvc, replay: replaySvc}
}

// Register mounts the response routes. Submission is open (the public form
// host posts here); review endpoints sit behind auth.
func (h *ResponsesHandler) Register(r chi.Router, authed func(http.Handler) http.Handler) {
	r.Post("/forms/{formID}/responses", h.handleSubmit)

	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/forms/{formID}/responses", h.handleListByForm)
		r.Get("/responses/{responseID}", h.handleGet)
		r.Get("/responses/{responseID}/replay", h.handleReplay)
	})
}

type submitRequest struct {
	Answers     map[string]any `json:"answers"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func (h *ResponsesHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	formID, err := domain.ParseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	var completedAt time.Time
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	resp, err := h.responses.Submit(r.Context(), formID, req.Answers, completedAt)
	if err != nil {
		h.logger.WarnContext(r.Context(), "record response failed",
			"error", err.Error(),
			"form_id", formID.String(),
			"request_id", requestcontext.RequestID(r.Context()),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *ResponsesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseResponseID(chi.URLParam(r, "responseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.responses.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ResponsesHandler) handleListByForm(w http.ResponseWriter, r *http.Request) {
	formID, err := domain.ParseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.responses.ListByForm(r.Context(), formID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReplay returns the read-only presentation. A degraded outcome is
// still HTTP 200: the degrade notice is data, not a failure.
func (h *ResponsesHandler) handleReplay(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseResponseID(chi.URLParam(r, "responseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.responses.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.replay.Build(r.Context(), resp))
}
