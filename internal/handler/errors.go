package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/planit/backend/internal/domain"
)

// errorResponse is the envelope every non-2xx body uses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses:
// not found and ownership failures are 404 (so callers cannot probe for other
// organizers' resources), validation is 422, the claim-flow email mismatch
// and other authorization failures are 403, and unique violations are 409.
// Anything unrecognized is a 500 with no internal detail leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrEmailMismatch):
		writeError(w, http.StatusForbidden, "email_mismatch", "this invite was sent to a different email address")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden", "you do not have access to this resource")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "a record with those values already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// decodeBody decodes the JSON request body into v. A missing or malformed
// body is reported as a 422 in the standard envelope; the caller should
// return immediately when ok is false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) (ok bool) {
	if r.Body == nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return false
	}
	return true
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: title is
// required" becomes "title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}
