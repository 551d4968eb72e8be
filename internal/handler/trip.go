package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/middleware"
)

// sessionUser returns the signed-in user from the request context. The
// session middleware guarantees it is present on guarded routes; a missing
// session here means a wiring bug, reported as 500 by the caller.
func sessionUser(r *http.Request) (domain.User, bool) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		return domain.User{}, false
	}
	return domain.User{ID: session.UserID, Email: session.Email}, true
}

// tripRequest is the JSON body for creating or updating a trip.
// Dates are calendar dates ("2006-01-02"), not timestamps.
type tripRequest struct {
	Title              string                 `json:"title"`
	Slug               string                 `json:"slug"`
	Location           string                 `json:"location_name"`
	StartDate          *openapi_types.Date    `json:"start_date"`
	EndDate            *openapi_types.Date    `json:"end_date"`
	Overview           string                 `json:"overview"`
	Itinerary          []domain.ItineraryItem `json:"itinerary"`
	DepositAmountCents int64                  `json:"deposit_amount_cents"`
	DepositDueDate     *openapi_types.Date    `json:"deposit_due_date"`
	VenmoHandle        string                 `json:"venmo_handle"`
	VenmoQRURL         string                 `json:"venmo_qr_url"`
	ZelleRecipient     string                 `json:"zelle_recipient"`
	MemoTemplate       string                 `json:"required_memo_template"`
}

// tripResponse is the JSON shape of a trip in responses.
type tripResponse struct {
	ID                 uuid.UUID              `json:"id"`
	Slug               string                 `json:"slug"`
	Title              string                 `json:"title"`
	Location           string                 `json:"location_name,omitempty"`
	StartDate          *openapi_types.Date    `json:"start_date,omitempty"`
	EndDate            *openapi_types.Date    `json:"end_date,omitempty"`
	Overview           string                 `json:"overview,omitempty"`
	Itinerary          []domain.ItineraryItem `json:"itinerary,omitempty"`
	DepositAmountCents int64                  `json:"deposit_amount_cents"`
	DepositDueDate     *openapi_types.Date    `json:"deposit_due_date,omitempty"`
	VenmoHandle        string                 `json:"venmo_handle,omitempty"`
	VenmoQRURL         string                 `json:"venmo_qr_url,omitempty"`
	ZelleRecipient     string                 `json:"zelle_recipient,omitempty"`
	MemoTemplate       string                 `json:"required_memo_template,omitempty"`
	CreatedBy          uuid.UUID              `json:"created_by"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), user.ID, requestToTrip(body))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /api/trips: every trip the caller organizes or has
// accepted an invite to.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	trips, err := s.trips.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// GetTrip handles GET /api/trips/{trip}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	trip, err := s.trips.GetBySlug(r.Context(), user.ID, chi.URLParam(r, "trip"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /api/trips/{trip}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "trip"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed trip id")
		return
	}

	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip := requestToTrip(body)
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), user.ID, trip)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// --- mapping helpers --------------------------------------------------------

func requestToTrip(body tripRequest) domain.Trip {
	t := domain.Trip{
		Title:              body.Title,
		Slug:               body.Slug,
		Location:           body.Location,
		Overview:           body.Overview,
		Itinerary:          body.Itinerary,
		DepositAmountCents: body.DepositAmountCents,
		VenmoHandle:        body.VenmoHandle,
		VenmoQRURL:         body.VenmoQRURL,
		ZelleRecipient:     body.ZelleRecipient,
		MemoTemplate:       body.MemoTemplate,
	}
	if body.StartDate != nil {
		d := body.StartDate.Time
		t.StartDate = &d
	}
	if body.EndDate != nil {
		d := body.EndDate.Time
		t.EndDate = &d
	}
	if body.DepositDueDate != nil {
		d := body.DepositDueDate.Time
		t.DepositDueDate = &d
	}
	return t
}

func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:                 t.ID,
		Slug:               t.Slug,
		Title:              t.Title,
		Location:           t.Location,
		Overview:           t.Overview,
		Itinerary:          t.Itinerary,
		DepositAmountCents: t.DepositAmountCents,
		VenmoHandle:        t.VenmoHandle,
		VenmoQRURL:         t.VenmoQRURL,
		ZelleRecipient:     t.ZelleRecipient,
		MemoTemplate:       t.MemoTemplate,
		CreatedBy:          t.CreatedBy,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.StartDate != nil {
		resp.StartDate = &openapi_types.Date{Time: *t.StartDate}
	}
	if t.EndDate != nil {
		resp.EndDate = &openapi_types.Date{Time: *t.EndDate}
	}
	if t.DepositDueDate != nil {
		resp.DepositDueDate = &openapi_types.Date{Time: *t.DepositDueDate}
	}
	return resp
}
