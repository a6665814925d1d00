// Package httptransport is the thin HTTP layer: it decodes requests,
// delegates to domain services, and translates coded errors to JSON
// envelopes. No business logic lives here.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"formdesk/internal/forms"
	dErrors "formdesk/pkg/domain-errors"
)

type errorEnvelope struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	HolderID   string `json:"holder_id,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError centralizes domain error translation. Type conflicts carry the
// current holder so clients can offer reassignment.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	env := errorEnvelope{Error: string(code), Message: err.Error()}

	var conflict *forms.TypeConflictError
	if errors.As(err, &conflict) {
		env.HolderID = conflict.HolderID.String()
		env.HolderName = conflict.HolderName
	}
	writeJSON(w, dErrors.ToHTTPStatus(code), env)
}
