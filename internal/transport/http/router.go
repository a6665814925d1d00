package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formdesk/internal/platform/metrics"
	"formdesk/internal/platform/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Verifier  middleware.TokenVerifier
	Forms     *FormsHandler
	Responses *ResponsesHandler
}

// NewRouter assembles the middleware chain and mounts all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.ContentTypeJSON)

	authed := middleware.RequireAuth(deps.Verifier, deps.Logger)
	deps.Forms.Register(r, authed)
	deps.Responses.Register(r, authed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
