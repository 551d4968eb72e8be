package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
)

// sendInvitesRequest is the JSON body for POST /api/invites/send.
type sendInvitesRequest struct {
	TripID uuid.UUID `json:"trip_id"`
	Emails []string  `json:"emails"`
}

// SendInvites handles POST /api/invites/send. The response tallies how many
// invites were dispatched; email_configured false tells the frontend the
// ledger was written but nothing was actually emailed.
func (s *Server) SendInvites(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	var body sendInvitesRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.TripID == uuid.Nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "trip_id is required")
		return
	}

	result, err := s.invites.SendInvites(r.Context(), user.ID, body.TripID, body.Emails)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListInvites handles GET /api/invites?trip_id=...&page=&limit=.
func (s *Server) ListInvites(w http.ResponseWriter, r *http.Request) {
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
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	items, total, err := s.memberships.ListByTrip(r.Context(), user.ID, tripID, params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": items,
		"pagination": map[string]int{
			"page":  params.Page,
			"limit": params.Limit,
			"total": int(total),
		},
	})
}

// remindRequest is the JSON body for POST /api/trips/{trip}/remind.
type remindRequest struct {
	Filter       domain.ReminderFilter `json:"filter"`
	ReminderType domain.ReminderType   `json:"reminder_type"`
}

// SendReminders handles POST /api/trips/{trip}/remind.
func (s *Server) SendReminders(w http.ResponseWriter, r *http.Request) {
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

	var body remindRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Filter == "" {
		body.Filter = domain.FilterAll
	}
	if body.ReminderType == "" {
		body.ReminderType = domain.RemindRSVP
	}

	result, err := s.invites.SendReminders(r.Context(), user.ID, tripID, body.Filter, body.ReminderType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ClaimInvite handles GET /invite/{token}: the landing URL from an invite
// email. A successful (or repeated) claim redirects to the trip page; a
// failure renders the standard envelope so the guest knows why.
func (s *Server) ClaimInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	trip, err := s.memberships.Claim(r.Context(), chi.URLParam(r, "token"), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	http.Redirect(w, r, "/trips/"+trip.Slug, http.StatusFound)
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
