package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formdesk/internal/forms"
	"formdesk/internal/registry"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/requestcontext"
)

// FormsHandler serves the form definition endpoints.
type FormsHandler struct {
	logger   *slog.Logger
	forms    *forms.Service
	registry *registry.Service
}

func NewFormsHandler(logger *slog.Logger, formsSvc *forms.Service, registrySvc *registry.Service) *FormsHandler {
	return &FormsHandler{logger: logger, forms: formsSvc, registry: registrySvc}
}

// Register mounts the form definition routes. Mutations sit behind the
// auth middleware applied by the router.
func (h *FormsHandler) Register(r chi.Router, authed func(http.Handler) http.Handler) {
	r.Get("/forms", h.handleList)
	r.Get("/forms/{formID}", h.handleGet)
	r.Get("/forms/types/{formType}", h.handleTypeLookup)

	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Post("/forms", h.handleCreate)
		r.Patch("/forms/{formID}", h.handleUpdate)
		r.Put("/forms/{formID}/type", h.handleAssignType)
	})
}

type createFormRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

func (h *FormsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	form, err := h.forms.Create(r.Context(), forms.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		SchemaDoc:   req.Schema,
	})
	if err != nil {
		h.logWarn(r, "create form failed", err)
		writeError(w, err)
		return
	}
	w.Header().Set("ETag", form.CacheToken())
	writeJSON(w, http.StatusCreated, form)
}

type updateFormRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

func (h *FormsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	form, err := h.forms.Update(r.Context(), id, forms.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		SchemaDoc:   req.Schema,
	})
	if err != nil {
		h.logWarn(r, "update form failed", err)
		writeError(w, err)
		return
	}
	w.Header().Set("ETag", form.CacheToken())
	writeJSON(w, http.StatusOK, form)
}

func (h *FormsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		writeError(w, err)
		return
	}
	form, err := h.forms.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	token := form.CacheToken()
	if r.Header.Get("If-None-Match") == token {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", token)
	writeJSON(w, http.StatusOK, form)
}

func (h *FormsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.forms.List(r.Context())
	if err != nil {
		h.logWarn(r, "list forms failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type assignTypeRequest struct {
	Type string `json:"type"`
}

func (h *FormsHandler) handleAssignType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req assignTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	formType, err := h.registry.Normalize(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	form, err := h.registry.Assign(r.Context(), id, formType)
	if err != nil {
		h.logWarn(r, "assign form type failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// handleTypeLookup resolves the unique holder of a constrained type. For
// the unbounded service type it returns every holder instead.
func (h *FormsHandler) handleTypeLookup(w http.ResponseWriter, r *http.Request) {
	formType, err := h.registry.Normalize(chi.URLParam(r, "formType"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !formType.Constrained() {
		out, err := h.forms.ListByType(r.Context(), formType)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	form, err := h.registry.Lookup(r.Context(), formType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *FormsHandler) logWarn(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(r.Context()),
	)
}
