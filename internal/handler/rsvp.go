package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
)

// rsvpRequest is the JSON body for POST /api/trips/{trip}/rsvp.
type rsvpRequest struct {
	Status      domain.RSVPStatus   `json:"status"`
	ArrivalAt   *time.Time          `json:"arrival_at"`
	DepartureAt *time.Time          `json:"departure_at"`
	WalkingPref *domain.WalkingPref `json:"walking_pref"`
	Notes       string              `json:"notes"`
}

// SubmitRSVP handles POST /api/trips/{trip}/rsvp. Resubmitting replaces the
// caller's previous answer.
func (s *Server) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "trip"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed trip id")
		return
	}

	var body rsvpRequest
	if !decodeBody(w, r, &body) {
		return
	}

	rsvp := domain.RSVP{
		TripID:      tripID,
		Status:      body.Status,
		ArrivalAt:   body.ArrivalAt,
		DepartureAt: body.DepartureAt,
		WalkingPref: body.WalkingPref,
		Notes:       body.Notes,
	}

	saved, err := s.rsvps.Submit(r.Context(), user.ID, rsvp)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetRSVP handles GET /api/trips/{trip}/rsvp: the caller's own answer.
// Not having answered yet is a normal state, rendered as a null body rather
// than a 404.
func (s *Server) GetRSVP(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "trip"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed trip id")
		return
	}

	rsvp, err := s.rsvps.Get(r.Context(), user.ID, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}
