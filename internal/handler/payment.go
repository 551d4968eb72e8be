package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
)

// paymentRequest is the JSON body for POST /api/trips/{trip}/payments.
type paymentRequest struct {
	Type        string               `json:"type"`
	AmountCents int64                `json:"amount_cents"`
	Method      domain.PaymentMethod `json:"method"`
	Identifier  string               `json:"identifier"`
	Memo        string               `json:"memo"`
}

// ReportPayment handles POST /api/trips/{trip}/payments: a guest reporting
// that they sent their deposit. Re-reporting updates the details but never
// clears an existing verification.
func (s *Server) ReportPayment(w http.ResponseWriter, r *http.Request) {
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

	var body paymentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	payment := domain.Payment{
		TripID:      tripID,
		Type:        body.Type,
		AmountCents: body.AmountCents,
		Method:      body.Method,
		Identifier:  body.Identifier,
		Memo:        body.Memo,
	}

	saved, err := s.payments.Report(r.Context(), user.ID, payment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetPayment handles GET /api/trips/{trip}/payments?type=deposit: the caller's
// own payment record. Nothing reported yet renders as a null body.
func (s *Server) GetPayment(w http.ResponseWriter, r *http.Request) {
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

	payment, err := s.payments.Get(r.Context(), user.ID, tripID, r.URL.Query().Get("type"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// VerifyPayment handles PATCH /api/payments/{id}/verify: the organizer
// confirming a guest's self-reported payment. Verifying twice keeps the
// original verification.
func (s *Server) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "no session")
		return
	}

	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed payment id")
		return
	}

	verified, err := s.payments.Verify(r.Context(), user.ID, paymentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verified)
}
