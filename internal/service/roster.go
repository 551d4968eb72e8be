package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/repo"
)

// RosterService assembles the organizer dashboard: every membership joined
// with its RSVP answer and deposit state as one flat row per guest.
type RosterService struct {
	trips       repo.TripRepo
	memberships repo.MembershipRepo
	rsvps       repo.RSVPRepo
	payments    repo.PaymentRepo
	users       repo.UserRepo
}

// NewRosterService constructs a RosterService backed by the provided repos.
func NewRosterService(
	trips repo.TripRepo,
	memberships repo.MembershipRepo,
	rsvps repo.RSVPRepo,
	payments repo.PaymentRepo,
	users repo.UserRepo,
) *RosterService {
	return &RosterService{
		trips:       trips,
		memberships: memberships,
		rsvps:       rsvps,
		payments:    payments,
		users:       users,
	}
}

// Build returns one row per membership on the trip, newest invite first.
// Payment state resolves verified over reported over not_reported; guests
// who have not claimed their invite show not_reported with no RSVP, since
// both records key on a bound account. Only the organizer may build the
// roster; anyone else gets domain.ErrNotFound. An empty roster is a valid,
// empty slice.
func (s *RosterService) Build(ctx context.Context, adminID, tripID uuid.UUID) ([]domain.RosterRow, error) {
	if _, err := ownedTrip(ctx, s.trips, tripID, adminID); err != nil {
		return nil, fmt.Errorf("service.RosterService.Build: %w", err)
	}

	members, err := s.memberships.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.Build: %w", err)
	}

	rsvps, err := s.rsvps.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.Build: %w", err)
	}
	rsvpByUser := make(map[uuid.UUID]domain.RSVP, len(rsvps))
	for _, r := range rsvps {
		rsvpByUser[r.UserID] = r
	}

	payments, err := s.payments.ListByTripAndType(ctx, tripID, domain.PaymentTypeDeposit)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.Build: %w", err)
	}
	paymentByUser := make(map[uuid.UUID]domain.Payment, len(payments))
	for _, p := range payments {
		paymentByUser[p.UserID] = p
	}

	rows := make([]domain.RosterRow, 0, len(members))
	for _, m := range members {
		row := domain.RosterRow{
			MembershipID: m.ID,
			InvitedEmail: m.InvitedEmail,
			Status:       m.Status,
			PaymentState: domain.PaymentNotReported,
		}
		if m.UserID != nil {
			email, err := s.userEmail(ctx, *m.UserID)
			if err != nil {
				return nil, fmt.Errorf("service.RosterService.Build: %w", err)
			}
			row.UserEmail = email
			if r, ok := rsvpByUser[*m.UserID]; ok {
				status := r.Status
				row.RSVPStatus = &status
			}
			if p, ok := paymentByUser[*m.UserID]; ok {
				row.PaymentState = domain.PaymentReported
				if p.Verified() {
					row.PaymentState = domain.PaymentVerified
				}
				id := p.ID
				amount := p.AmountCents
				row.PaymentID = &id
				row.AmountCents = &amount
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// userEmail resolves a bound account's address. A user row missing for a
// bound membership is a dangling reference, not a roster failure; the email
// just stays nil.
func (s *RosterService) userEmail(ctx context.Context, userID uuid.UUID) (*string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u.Email, nil
}
