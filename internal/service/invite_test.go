package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/mailer"
	"github.com/pkordes/planit/backend/internal/repo"
	"github.com/pkordes/planit/backend/internal/service"
)

const testAppURL = "https://planit.test"

func newInviteService(trips repo.TripRepo, memberships repo.MembershipRepo, rsvps repo.RSVPRepo, payments repo.PaymentRepo, mail mailer.Mailer) *service.InviteService {
	return service.NewInviteService(trips, memberships, rsvps, payments, mail, testAppURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// recordingMembershipRepo upserts into memory so tests can assert on what
// the ledger ends up holding.
func recordingMembershipRepo(rows *[]domain.Membership) *mockMembershipRepo {
	return &mockMembershipRepo{
		upsertInvite: func(_ context.Context, tripID uuid.UUID, email, token string) (domain.Membership, error) {
			m := domain.Membership{ID: uuid.New(), TripID: tripID, InvitedEmail: email, InviteToken: token, Status: domain.MembershipInvited}
			*rows = append(*rows, m)
			return m, nil
		},
	}
}

// ---- SendInvites -----------------------------------------------------------

func TestInviteService_SendInvites_AllDelivered(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	var rows []domain.Membership

	var sentTo []string
	mail := &mockMailer{
		configured: true,
		sendInvite: func(to, title, inviteURL string) (bool, error) {
			sentTo = append(sentTo, to)
			assert.Equal(t, "Bandon Dunes 2026", title)
			assert.Contains(t, inviteURL, testAppURL+"/invite/")
			return false, nil
		},
	}

	svc := newInviteService(ownedTripRepo(tripID, adminID), recordingMembershipRepo(&rows), &mockRSVPRepo{}, &mockPaymentRepo{}, mail)

	got, err := svc.SendInvites(context.Background(), adminID, tripID,
		[]string{"a@example.com", "b@example.com", "c@example.com"})

	require.NoError(t, err)
	assert.Equal(t, 3, got.Sent)
	assert.Equal(t, 0, got.Failed)
	assert.True(t, got.EmailConfigured)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, sentTo)
}

func TestInviteService_SendInvites_UnconfiguredMailerStillRecords(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	var rows []domain.Membership

	svc := newInviteService(ownedTripRepo(tripID, adminID), recordingMembershipRepo(&rows),
		&mockRSVPRepo{}, &mockPaymentRepo{}, &mockMailer{configured: false})

	got, err := svc.SendInvites(context.Background(), adminID, tripID,
		[]string{"a@example.com", "b@example.com", "c@example.com"})

	require.NoError(t, err)
	assert.Equal(t, 3, got.Sent)
	assert.Equal(t, 0, got.Failed)
	assert.False(t, got.EmailConfigured)
	assert.Len(t, rows, 3, "ledger writes happen regardless of mail transport")
}

func TestInviteService_SendInvites_PartialFailure(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	var rows []domain.Membership

	mail := &mockMailer{
		configured: true,
		sendInvite: func(to, _, _ string) (bool, error) {
			if to == "b@example.com" {
				return false, errors.New("smtp: connection reset")
			}
			return false, nil
		},
	}

	svc := newInviteService(ownedTripRepo(tripID, adminID), recordingMembershipRepo(&rows), &mockRSVPRepo{}, &mockPaymentRepo{}, mail)

	got, err := svc.SendInvites(context.Background(), adminID, tripID,
		[]string{"a@example.com", "b@example.com"})

	require.NoError(t, err)
	assert.Equal(t, 1, got.Sent)
	assert.Equal(t, 1, got.Failed)
	assert.Len(t, rows, 2, "the failed recipient's invite is still recorded")
}

func TestInviteService_SendInvites_NormalizesAndDedupes(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	var rows []domain.Membership

	svc := newInviteService(ownedTripRepo(tripID, adminID), recordingMembershipRepo(&rows),
		&mockRSVPRepo{}, &mockPaymentRepo{}, &mockMailer{})

	got, err := svc.SendInvites(context.Background(), adminID, tripID,
		[]string{" Pat@Example.com ", "pat@example.com", "bogus", "sam@example.com"})

	require.NoError(t, err)
	assert.Equal(t, 2, got.Sent)
	require.Len(t, rows, 2)
	assert.Equal(t, "pat@example.com", rows[0].InvitedEmail)
	assert.Equal(t, "sam@example.com", rows[1].InvitedEmail)
}

func TestInviteService_SendInvites_NoValidAddresses(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	svc := newInviteService(ownedTripRepo(tripID, adminID), &mockMembershipRepo{},
		&mockRSVPRepo{}, &mockPaymentRepo{}, &mockMailer{})

	_, err := svc.SendInvites(context.Background(), adminID, tripID, []string{"bogus", "@", " "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInviteService_SendInvites_NotOrganizer(t *testing.T) {
	tripID := uuid.New()
	svc := newInviteService(ownedTripRepo(tripID, uuid.New()), &mockMembershipRepo{},
		&mockRSVPRepo{}, &mockPaymentRepo{}, &mockMailer{})

	_, err := svc.SendInvites(context.Background(), uuid.New(), tripID, []string{"a@example.com"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- SendReminders ---------------------------------------------------------

// reminderMembers returns three active memberships: two bound to accounts,
// one still unclaimed.
func reminderMembers(boundA, boundB uuid.UUID) []domain.Membership {
	return []domain.Membership{
		{ID: uuid.New(), InvitedEmail: "a@example.com", UserID: &boundA, Status: domain.MembershipAccepted},
		{ID: uuid.New(), InvitedEmail: "b@example.com", UserID: &boundB, Status: domain.MembershipAccepted},
		{ID: uuid.New(), InvitedEmail: "unclaimed@example.com", Status: domain.MembershipInvited},
	}
}

func TestInviteService_SendReminders_All(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	userA, userB := uuid.New(), uuid.New()

	var sentTo []string
	mail := &mockMailer{
		configured: true,
		sendRSVPReminder: func(to, _, tripURL string) (bool, error) {
			sentTo = append(sentTo, to)
			assert.Equal(t, testAppURL+"/trips/bandon-2026", tripURL)
			return false, nil
		},
	}

	svc := newInviteService(
		ownedTripRepo(tripID, adminID),
		&mockMembershipRepo{
			listActiveByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Membership, error) {
				return reminderMembers(userA, userB), nil
			},
		},
		&mockRSVPRepo{}, &mockPaymentRepo{}, mail,
	)

	got, err := svc.SendReminders(context.Background(), adminID, tripID, domain.FilterAll, domain.RemindRSVP)

	require.NoError(t, err)
	assert.Equal(t, 3, got.Sent)
	assert.Equal(t, 0, got.Failed)
	assert.Contains(t, sentTo, "unclaimed@example.com")
}

func TestInviteService_SendReminders_NeedsRSVP(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	userA, userB := uuid.New(), uuid.New()

	var sentTo []string
	mail := &mockMailer{
		configured: true,
		sendRSVPReminder: func(to, _, _ string) (bool, error) {
			sentTo = append(sentTo, to)
			return false, nil
		},
	}

	svc := newInviteService(
		ownedTripRepo(tripID, adminID),
		&mockMembershipRepo{
			listActiveByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Membership, error) {
				return reminderMembers(userA, userB), nil
			},
		},
		&mockRSVPRepo{
			listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.RSVP, error) {
				// userA already answered no; any answer counts as responded.
				return []domain.RSVP{{UserID: userA, Status: domain.RSVPNo}}, nil
			},
		},
		&mockPaymentRepo{}, mail,
	)

	got, err := svc.SendReminders(context.Background(), adminID, tripID, domain.FilterNeedsRSVP, domain.RemindRSVP)

	require.NoError(t, err)
	assert.Equal(t, 1, got.Sent)
	assert.Equal(t, []string{"b@example.com"}, sentTo, "unclaimed invites have no account to RSVP from")
}

func TestInviteService_SendReminders_NeedsDeposit(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	userA, userB := uuid.New(), uuid.New()
	now := time.Now()

	var sentTo []string
	mail := &mockMailer{
		configured: true,
		sendDepositRemind: func(to, _, _, dueDateText string) (bool, error) {
			sentTo = append(sentTo, to)
			assert.Equal(t, "soon", dueDateText)
			return false, nil
		},
	}

	svc := newInviteService(
		ownedTripRepo(tripID, adminID),
		&mockMembershipRepo{
			listActiveByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Membership, error) {
				return reminderMembers(userA, userB), nil
			},
		},
		&mockRSVPRepo{},
		&mockPaymentRepo{
			listByTripAndType: func(_ context.Context, _ uuid.UUID, paymentType string) ([]domain.Payment, error) {
				assert.Equal(t, domain.PaymentTypeDeposit, paymentType)
				return []domain.Payment{
					{UserID: userA, AmountCents: 50000, VerifiedAt: &now}, // verified: skip
					{UserID: userB, AmountCents: 50000},                   // reported only: still remind
				}, nil
			},
		},
		mail,
	)

	got, err := svc.SendReminders(context.Background(), adminID, tripID, domain.FilterNeedsDeposit, domain.RemindDeposit)

	require.NoError(t, err)
	assert.Equal(t, 1, got.Sent)
	assert.Equal(t, []string{"b@example.com"}, sentTo)
}

func TestInviteService_SendReminders_PartialFailure(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	userA, userB := uuid.New(), uuid.New()

	mail := &mockMailer{
		configured: true,
		sendRSVPReminder: func(to, _, _ string) (bool, error) {
			if to == "a@example.com" {
				return false, errors.New("smtp: mailbox unavailable")
			}
			return false, nil
		},
	}

	svc := newInviteService(
		ownedTripRepo(tripID, adminID),
		&mockMembershipRepo{
			listActiveByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Membership, error) {
				return reminderMembers(userA, userB), nil
			},
		},
		&mockRSVPRepo{}, &mockPaymentRepo{}, mail,
	)

	got, err := svc.SendReminders(context.Background(), adminID, tripID, domain.FilterAll, domain.RemindRSVP)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Sent)
	assert.Equal(t, 1, got.Failed)
}

func TestInviteService_SendReminders_UnknownType(t *testing.T) {
	adminID, tripID := uuid.New(), uuid.New()
	svc := newInviteService(ownedTripRepo(tripID, adminID), &mockMembershipRepo{},
		&mockRSVPRepo{}, &mockPaymentRepo{}, &mockMailer{})

	_, err := svc.SendReminders(context.Background(), adminID, tripID, domain.FilterAll, "carrier-pigeon")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInviteService_SendReminders_NotOrganizer(t *testing.T) {
	tripID := uuid.New()
	svc := newInviteService(ownedTripRepo(tripID, uuid.New()), &mockMembershipRepo{},
		&mockRSVPRepo{}, &mockPaymentRepo{}, &mockMailer{})

	_, err := svc.SendReminders(context.Background(), uuid.New(), tripID, domain.FilterAll, domain.RemindRSVP)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
