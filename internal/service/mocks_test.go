package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/mailer"
	"github.com/pkordes/planit/backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces and the mailer.
// Each method delegates to a function field; fields left nil return zero
// values so tests only wire what they exercise.

// ---- mockTripRepo ------------------------------------------------------------

type mockTripRepo struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getBySlug   func(ctx context.Context, slug string) (domain.Trip, error)
	listForUser func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- mockMembershipRepo ------------------------------------------------------

type mockMembershipRepo struct {
	upsertInvite     func(ctx context.Context, tripID uuid.UUID, email, token string) (domain.Membership, error)
	getByToken       func(ctx context.Context, token string) (domain.Membership, error)
	accept           func(ctx context.Context, id, userID uuid.UUID) (domain.Membership, error)
	getByTripAndUser func(ctx context.Context, tripID, userID uuid.UUID) (domain.Membership, error)
	listByTrip       func(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error)
	listPaged        func(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error)
	listActiveByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error)
}

func (m *mockMembershipRepo) UpsertInvite(ctx context.Context, tripID uuid.UUID, email, token string) (domain.Membership, error) {
	return m.upsertInvite(ctx, tripID, email, token)
}
func (m *mockMembershipRepo) GetByToken(ctx context.Context, token string) (domain.Membership, error) {
	return m.getByToken(ctx, token)
}
func (m *mockMembershipRepo) Accept(ctx context.Context, id, userID uuid.UUID) (domain.Membership, error) {
	return m.accept(ctx, id, userID)
}
func (m *mockMembershipRepo) GetByTripAndUser(ctx context.Context, tripID, userID uuid.UUID) (domain.Membership, error) {
	return m.getByTripAndUser(ctx, tripID, userID)
}
func (m *mockMembershipRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMembershipRepo) ListPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error) {
	if m.listPaged != nil {
		return m.listPaged(ctx, tripID, p)
	}
	return nil, 0, nil
}
func (m *mockMembershipRepo) ListActiveByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error) {
	return m.listActiveByTrip(ctx, tripID)
}

var _ repo.MembershipRepo = (*mockMembershipRepo)(nil)

// ---- mockRSVPRepo ------------------------------------------------------------

type mockRSVPRepo struct {
	upsert     func(ctx context.Context, rsvp domain.RSVP) (domain.RSVP, error)
	get        func(ctx context.Context, tripID, userID uuid.UUID) (domain.RSVP, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.RSVP, error)
}

func (m *mockRSVPRepo) Upsert(ctx context.Context, rsvp domain.RSVP) (domain.RSVP, error) {
	return m.upsert(ctx, rsvp)
}
func (m *mockRSVPRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.RSVP, error) {
	return m.get(ctx, tripID, userID)
}
func (m *mockRSVPRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RSVP, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tripID)
	}
	return nil, nil
}

var _ repo.RSVPRepo = (*mockRSVPRepo)(nil)

// ---- mockPaymentRepo ---------------------------------------------------------

type mockPaymentRepo struct {
	upsert            func(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	get               func(ctx context.Context, tripID, userID uuid.UUID, paymentType string) (domain.Payment, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	verify            func(ctx context.Context, id, verifierID uuid.UUID) (domain.Payment, error)
	listByTripAndType func(ctx context.Context, tripID uuid.UUID, paymentType string) ([]domain.Payment, error)
}

func (m *mockPaymentRepo) Upsert(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	return m.upsert(ctx, payment)
}
func (m *mockPaymentRepo) Get(ctx context.Context, tripID, userID uuid.UUID, paymentType string) (domain.Payment, error) {
	return m.get(ctx, tripID, userID, paymentType)
}
func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return m.getByID(ctx, id)
}
func (m *mockPaymentRepo) Verify(ctx context.Context, id, verifierID uuid.UUID) (domain.Payment, error) {
	return m.verify(ctx, id, verifierID)
}
func (m *mockPaymentRepo) ListByTripAndType(ctx context.Context, tripID uuid.UUID, paymentType string) ([]domain.Payment, error) {
	if m.listByTripAndType != nil {
		return m.listByTripAndType(ctx, tripID, paymentType)
	}
	return nil, nil
}

var _ repo.PaymentRepo = (*mockPaymentRepo)(nil)

// ---- mockUserRepo ------------------------------------------------------------

type mockUserRepo struct {
	upsertByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail    func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) UpsertByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.upsertByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- mockAuthCodeRepo --------------------------------------------------------

type mockAuthCodeRepo struct {
	create  func(ctx context.Context, email, code string, kind domain.AuthCodeKind, expiresAt time.Time) error
	consume func(ctx context.Context, email, code string, kind domain.AuthCodeKind) error
}

func (m *mockAuthCodeRepo) Create(ctx context.Context, email, code string, kind domain.AuthCodeKind, expiresAt time.Time) error {
	if m.create != nil {
		return m.create(ctx, email, code, kind, expiresAt)
	}
	return nil
}
func (m *mockAuthCodeRepo) Consume(ctx context.Context, email, code string, kind domain.AuthCodeKind) error {
	return m.consume(ctx, email, code, kind)
}

var _ repo.AuthCodeRepo = (*mockAuthCodeRepo)(nil)

// ---- mockMailer --------------------------------------------------------------

type mockMailer struct {
	configured         bool
	sendInvite         func(to, tripTitle, inviteURL string) (bool, error)
	sendRSVPReminder   func(to, tripTitle, tripURL string) (bool, error)
	sendDepositRemind  func(to, tripTitle, tripURL, dueDateText string) (bool, error)
	sendSignInCode     func(to, code, magicLinkURL string) (bool, error)
}

func (m *mockMailer) Configured() bool { return m.configured }
func (m *mockMailer) SendInvite(to, tripTitle, inviteURL string) (bool, error) {
	if m.sendInvite != nil {
		return m.sendInvite(to, tripTitle, inviteURL)
	}
	return !m.configured, nil
}
func (m *mockMailer) SendRSVPReminder(to, tripTitle, tripURL string) (bool, error) {
	if m.sendRSVPReminder != nil {
		return m.sendRSVPReminder(to, tripTitle, tripURL)
	}
	return !m.configured, nil
}
func (m *mockMailer) SendDepositReminder(to, tripTitle, tripURL, dueDateText string) (bool, error) {
	if m.sendDepositRemind != nil {
		return m.sendDepositRemind(to, tripTitle, tripURL, dueDateText)
	}
	return !m.configured, nil
}
func (m *mockMailer) SendSignInCode(to, code, magicLinkURL string) (bool, error) {
	if m.sendSignInCode != nil {
		return m.sendSignInCode(to, code, magicLinkURL)
	}
	return !m.configured, nil
}

var _ mailer.Mailer = (*mockMailer)(nil)
