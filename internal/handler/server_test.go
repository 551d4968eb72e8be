package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/handler"
	"github.com/pkordes/planit/backend/internal/middleware"
)

// Hand-written test doubles for the handler's servicer interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create      func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	update      func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getBySlug   func(ctx context.Context, userID uuid.UUID, slug string) (domain.Trip, error)
	listForUser func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, userID, trip)
}
func (m *mockTripServicer) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, userID, trip)
}
func (m *mockTripServicer) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (domain.Trip, error) {
	return m.getBySlug(ctx, userID, slug)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockMembershipServicer struct {
	claim      func(ctx context.Context, token string, user domain.User) (domain.Trip, error)
	listByTrip func(ctx context.Context, adminID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error)
}

func (m *mockMembershipServicer) Claim(ctx context.Context, token string, user domain.User) (domain.Trip, error) {
	return m.claim(ctx, token, user)
}
func (m *mockMembershipServicer) ListByTrip(ctx context.Context, adminID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error) {
	return m.listByTrip(ctx, adminID, tripID, p)
}

var _ handler.MembershipServicer = (*mockMembershipServicer)(nil)

type mockInviteServicer struct {
	sendInvites   func(ctx context.Context, adminID, tripID uuid.UUID, emails []string) (domain.InviteResult, error)
	sendReminders func(ctx context.Context, adminID, tripID uuid.UUID, filter domain.ReminderFilter, rtype domain.ReminderType) (domain.ReminderResult, error)
}

func (m *mockInviteServicer) SendInvites(ctx context.Context, adminID, tripID uuid.UUID, emails []string) (domain.InviteResult, error) {
	return m.sendInvites(ctx, adminID, tripID, emails)
}
func (m *mockInviteServicer) SendReminders(ctx context.Context, adminID, tripID uuid.UUID, filter domain.ReminderFilter, rtype domain.ReminderType) (domain.ReminderResult, error) {
	return m.sendReminders(ctx, adminID, tripID, filter, rtype)
}

var _ handler.InviteServicer = (*mockInviteServicer)(nil)

type mockRSVPServicer struct {
	submit func(ctx context.Context, userID uuid.UUID, rsvp domain.RSVP) (domain.RSVP, error)
	get    func(ctx context.Context, userID, tripID uuid.UUID) (domain.RSVP, error)
}

func (m *mockRSVPServicer) Submit(ctx context.Context, userID uuid.UUID, rsvp domain.RSVP) (domain.RSVP, error) {
	return m.submit(ctx, userID, rsvp)
}
func (m *mockRSVPServicer) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.RSVP, error) {
	return m.get(ctx, userID, tripID)
}

var _ handler.RSVPServicer = (*mockRSVPServicer)(nil)

type mockPaymentServicer struct {
	report func(ctx context.Context, userID uuid.UUID, payment domain.Payment) (domain.Payment, error)
	get    func(ctx context.Context, userID, tripID uuid.UUID, paymentType string) (domain.Payment, error)
	verify func(ctx context.Context, adminID, paymentID uuid.UUID) (domain.Payment, error)
}

func (m *mockPaymentServicer) Report(ctx context.Context, userID uuid.UUID, payment domain.Payment) (domain.Payment, error) {
	return m.report(ctx, userID, payment)
}
func (m *mockPaymentServicer) Get(ctx context.Context, userID, tripID uuid.UUID, paymentType string) (domain.Payment, error) {
	return m.get(ctx, userID, tripID, paymentType)
}
func (m *mockPaymentServicer) Verify(ctx context.Context, adminID, paymentID uuid.UUID) (domain.Payment, error) {
	return m.verify(ctx, adminID, paymentID)
}

var _ handler.PaymentServicer = (*mockPaymentServicer)(nil)

type mockRosterServicer struct {
	build func(ctx context.Context, adminID, tripID uuid.UUID) ([]domain.RosterRow, error)
}

func (m *mockRosterServicer) Build(ctx context.Context, adminID, tripID uuid.UUID) ([]domain.RosterRow, error) {
	return m.build(ctx, adminID, tripID)
}

var _ handler.RosterServicer = (*mockRosterServicer)(nil)

type mockAuthServicer struct {
	requestCode func(ctx context.Context, email string) error
	verifyCode  func(ctx context.Context, email, code string) (domain.Session, error)
}

func (m *mockAuthServicer) RequestCode(ctx context.Context, email string) error {
	return m.requestCode(ctx, email)
}
func (m *mockAuthServicer) VerifyCode(ctx context.Context, email, code string) (domain.Session, error) {
	return m.verifyCode(ctx, email, code)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// sessionStub validates exactly the token "session-token" and returns a
// session for the configured user.
type sessionStub struct {
	user domain.User
}

func (p *sessionStub) ParseSession(token string) (domain.Session, error) {
	if token != "session-token" {
		return domain.Session{}, errors.New("bad token")
	}
	return domain.Session{Token: token, UserID: p.user.ID, Email: p.user.Email}, nil
}

// serverDeps bundles the mocks for newTestRouter; nil fields stay nil on the
// Server, which is fine for endpoints the test never hits.
type serverDeps struct {
	trips       handler.TripServicer
	memberships handler.MembershipServicer
	invites     handler.InviteServicer
	rsvps       handler.RSVPServicer
	payments    handler.PaymentServicer
	roster      handler.RosterServicer
	auth        handler.AuthServicer
}

// newTestRouter wires a Server with the given mocks into its router, guarded
// by the real session middleware. This mirrors how main.go wires production.
func newTestRouter(user domain.User, deps serverDeps) http.Handler {
	srv := handler.NewServer(deps.trips, deps.memberships, deps.invites, deps.rsvps, deps.payments, deps.roster, deps.auth, false)
	return srv.Routes(middleware.NewSessionAuth(&sessionStub{user: user}))
}

// doSignedIn performs a request carrying a valid session cookie.
func doSignedIn(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "session-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
