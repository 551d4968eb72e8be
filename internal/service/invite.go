package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/mailer"
	"github.com/pkordes/planit/backend/internal/repo"
)

// InviteService orchestrates invite and reminder delivery for a trip. It
// records memberships through the repo and dispatches email through the
// mailer, tallying per-recipient outcomes instead of failing the batch.
type InviteService struct {
	trips       repo.TripRepo
	memberships repo.MembershipRepo
	rsvps       repo.RSVPRepo
	payments    repo.PaymentRepo
	mail        mailer.Mailer
	appURL      string
	log         *slog.Logger
}

// NewInviteService constructs an InviteService. appURL is the externally
// reachable base URL used to build invite and trip links.
func NewInviteService(
	trips repo.TripRepo,
	memberships repo.MembershipRepo,
	rsvps repo.RSVPRepo,
	payments repo.PaymentRepo,
	mail mailer.Mailer,
	appURL string,
	log *slog.Logger,
) *InviteService {
	return &InviteService{
		trips:       trips,
		memberships: memberships,
		rsvps:       rsvps,
		payments:    payments,
		mail:        mail,
		appURL:      appURL,
		log:         log,
	}
}

// SendInvites records an invite for each address and emails the invite link.
// Addresses are case-folded and de-duplicated first; a batch with no valid
// address is domain.ErrValidation. One recipient failing — either the ledger
// write or the email dispatch — counts toward failed and does not stop the
// rest. When no mail transport is configured the ledger is still written and
// sends are counted as sent, with EmailConfigured false so the caller can
// tell the guests were not actually emailed.
func (s *InviteService) SendInvites(ctx context.Context, adminID, tripID uuid.UUID, emails []string) (domain.InviteResult, error) {
	trip, err := ownedTrip(ctx, s.trips, tripID, adminID)
	if err != nil {
		return domain.InviteResult{}, fmt.Errorf("service.InviteService.SendInvites: %w", err)
	}

	seen := make(map[string]bool)
	var recipients []string
	for _, raw := range emails {
		email := foldEmail(raw)
		if !validEmail(email) || seen[email] {
			continue
		}
		seen[email] = true
		recipients = append(recipients, email)
	}
	if len(recipients) == 0 {
		return domain.InviteResult{}, fmt.Errorf("%w: at least one valid email address is required", domain.ErrValidation)
	}

	result := domain.InviteResult{EmailConfigured: s.mail.Configured()}
	for _, email := range recipients {
		token, err := newInviteToken()
		if err != nil {
			return domain.InviteResult{}, fmt.Errorf("service.InviteService.SendInvites: %w", err)
		}
		m, err := s.memberships.UpsertInvite(ctx, tripID, email, token)
		if err != nil {
			result.Failed++
			s.log.ErrorContext(ctx, "invite upsert failed", "trip_id", tripID, "email", email, "error", err)
			continue
		}
		inviteURL := s.appURL + "/invite/" + m.InviteToken
		if _, err := s.mail.SendInvite(email, trip.Title, inviteURL); err != nil {
			result.Failed++
			s.log.ErrorContext(ctx, "invite email failed", "trip_id", tripID, "email", email, "error", err)
			continue
		}
		result.Sent++
	}
	return result, nil
}

// SendReminders emails a reminder to the trip's invited and accepted guests.
// The needs_rsvp and needs_deposit filters only ever match guests who have
// claimed their invite: an unbound membership has no account to have RSVPed
// or paid from, so it is excluded rather than nagged about something it
// cannot do yet. Per-recipient dispatch failures are tallied, not fatal.
func (s *InviteService) SendReminders(ctx context.Context, adminID, tripID uuid.UUID, filter domain.ReminderFilter, rtype domain.ReminderType) (domain.ReminderResult, error) {
	trip, err := ownedTrip(ctx, s.trips, tripID, adminID)
	if err != nil {
		return domain.ReminderResult{}, fmt.Errorf("service.InviteService.SendReminders: %w", err)
	}
	if rtype != domain.RemindRSVP && rtype != domain.RemindDeposit {
		return domain.ReminderResult{}, fmt.Errorf("%w: unknown reminder type %q", domain.ErrValidation, rtype)
	}

	members, err := s.memberships.ListActiveByTrip(ctx, tripID)
	if err != nil {
		return domain.ReminderResult{}, fmt.Errorf("service.InviteService.SendReminders: %w", err)
	}

	switch filter {
	case domain.FilterNeedsRSVP:
		responded, err := s.respondedUserIDs(ctx, tripID)
		if err != nil {
			return domain.ReminderResult{}, fmt.Errorf("service.InviteService.SendReminders: %w", err)
		}
		members = keepBoundWithout(members, responded)
	case domain.FilterNeedsDeposit:
		verified, err := s.verifiedUserIDs(ctx, tripID)
		if err != nil {
			return domain.ReminderResult{}, fmt.Errorf("service.InviteService.SendReminders: %w", err)
		}
		members = keepBoundWithout(members, verified)
	}

	tripURL := s.appURL + "/trips/" + trip.Slug
	dueDateText := "soon"
	if trip.DepositDueDate != nil {
		dueDateText = trip.DepositDueDate.Format("January 2, 2006")
	}

	var result domain.ReminderResult
	for _, m := range members {
		var err error
		switch rtype {
		case domain.RemindDeposit:
			_, err = s.mail.SendDepositReminder(m.InvitedEmail, trip.Title, tripURL, dueDateText)
		default:
			_, err = s.mail.SendRSVPReminder(m.InvitedEmail, trip.Title, tripURL)
		}
		if err != nil {
			result.Failed++
			s.log.ErrorContext(ctx, "reminder email failed", "trip_id", tripID, "email", m.InvitedEmail, "error", err)
			continue
		}
		result.Sent++
	}
	return result, nil
}

// respondedUserIDs returns the set of users with any RSVP on the trip,
// whatever their answer.
func (s *InviteService) respondedUserIDs(ctx context.Context, tripID uuid.UUID) (map[uuid.UUID]bool, error) {
	rsvps, err := s.rsvps.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool, len(rsvps))
	for _, r := range rsvps {
		ids[r.UserID] = true
	}
	return ids, nil
}

// verifiedUserIDs returns the set of users whose deposit the organizer has
// verified. A reported-but-unverified deposit still gets the reminder.
func (s *InviteService) verifiedUserIDs(ctx context.Context, tripID uuid.UUID) (map[uuid.UUID]bool, error) {
	payments, err := s.payments.ListByTripAndType(ctx, tripID, domain.PaymentTypeDeposit)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool)
	for _, p := range payments {
		if p.Verified() {
			ids[p.UserID] = true
		}
	}
	return ids, nil
}

// keepBoundWithout keeps memberships bound to a user not present in exclude.
func keepBoundWithout(members []domain.Membership, exclude map[uuid.UUID]bool) []domain.Membership {
	var kept []domain.Membership
	for _, m := range members {
		if m.UserID != nil && !exclude[*m.UserID] {
			kept = append(kept, m)
		}
	}
	return kept
}
