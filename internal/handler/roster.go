package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// GetRoster handles GET /api/admin/roster?trip_id=...: the organizer
// dashboard joining memberships, RSVPs, and deposit state.
func (s *Server) GetRoster(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	tripID, err := uuid.Parse(r.URL.Query().Get("trip_id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "trip_id is required")
		return
	}

	rows, err := s.roster.Build(r.Context(), user.ID, tripID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}
