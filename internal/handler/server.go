// Package handler implements the HTTP layer of the PlanIt API.
// All handlers are methods on Server; routes are mounted by Routes. Methods
// are split into domain-specific files (trip.go, invite.go, etc.) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (domain.Trip, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
}

// MembershipServicer defines the invite-ledger operations the handlers use.
type MembershipServicer interface {
	Claim(ctx context.Context, token string, user domain.User) (domain.Trip, error)
	ListByTrip(ctx context.Context, adminID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error)
}

// InviteServicer defines the invite and reminder batch operations.
type InviteServicer interface {
	SendInvites(ctx context.Context, adminID, tripID uuid.UUID, emails []string) (domain.InviteResult, error)
	SendReminders(ctx context.Context, adminID, tripID uuid.UUID, filter domain.ReminderFilter, rtype domain.ReminderType) (domain.ReminderResult, error)
}

// RSVPServicer defines a guest's own RSVP operations.
type RSVPServicer interface {
	Submit(ctx context.Context, userID uuid.UUID, rsvp domain.RSVP) (domain.RSVP, error)
	Get(ctx context.Context, userID, tripID uuid.UUID) (domain.RSVP, error)
}

// PaymentServicer defines payment reporting and verification operations.
type PaymentServicer interface {
	Report(ctx context.Context, userID uuid.UUID, payment domain.Payment) (domain.Payment, error)
	Get(ctx context.Context, userID, tripID uuid.UUID, paymentType string) (domain.Payment, error)
	Verify(ctx context.Context, adminID, paymentID uuid.UUID) (domain.Payment, error)
}

// RosterServicer defines the organizer dashboard aggregation.
type RosterServicer interface {
	Build(ctx context.Context, adminID, tripID uuid.UUID) ([]domain.RosterRow, error)
}

// AuthServicer defines the passwordless sign-in handshake.
type AuthServicer interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (domain.Session, error)
}

// Server holds every handler dependency. Methods live in domain-specific
// files but all operate on this struct.
type Server struct {
	trips       TripServicer
	memberships MembershipServicer
	invites     InviteServicer
	rsvps       RSVPServicer
	payments    PaymentServicer
	roster      RosterServicer
	auth        AuthServicer

	// secureCookies marks session cookies Secure; enable when serving TLS.
	secureCookies bool
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	memberships MembershipServicer,
	invites InviteServicer,
	rsvps RSVPServicer,
	payments PaymentServicer,
	roster RosterServicer,
	auth AuthServicer,
	secureCookies bool,
) *Server {
	return &Server{
		trips:         trips,
		memberships:   memberships,
		invites:       invites,
		rsvps:         rsvps,
		payments:      payments,
		roster:        roster,
		auth:          auth,
		secureCookies: secureCookies,
	}
}

// Routes mounts every endpoint on a fresh chi router. requireSession guards
// the signed-in surface; sign-in endpoints and the health check stay open.
func (s *Server) Routes(requireSession func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPISpec)
	r.Get("/docs", s.GetDocs)

	r.Post("/api/auth/send-otp", s.SendOTP)
	r.Post("/api/auth/verify-otp", s.VerifyOTP)
	r.Post("/api/auth/signout", s.SignOut)
	r.Get("/auth/callback", s.AuthCallback)

	r.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Post("/api/trips", s.CreateTrip)
		r.Get("/api/trips", s.ListTrips)
		r.Get("/api/trips/{trip}", s.GetTrip)
		r.Put("/api/trips/{trip}", s.UpdateTrip)

		r.Post("/api/invites/send", s.SendInvites)
		r.Get("/api/invites", s.ListInvites)
		r.Post("/api/trips/{trip}/remind", s.SendReminders)
		r.Get("/invite/{token}", s.ClaimInvite)

		r.Post("/api/trips/{trip}/rsvp", s.SubmitRSVP)
		r.Get("/api/trips/{trip}/rsvp", s.GetRSVP)

		r.Post("/api/trips/{trip}/payments", s.ReportPayment)
		r.Get("/api/trips/{trip}/payments", s.GetPayment)
		r.Patch("/api/payments/{id}/verify", s.VerifyPayment)

		r.Get("/api/admin/roster", s.GetRoster)
	})

	return r
}
