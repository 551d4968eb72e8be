package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/repo"
)

// RSVPService implements a guest's own RSVP record: submit (upsert) and read.
type RSVPService struct {
	trips       repo.TripRepo
	memberships repo.MembershipRepo
	rsvps       repo.RSVPRepo
}

// NewRSVPService constructs an RSVPService backed by the provided repos.
func NewRSVPService(trips repo.TripRepo, memberships repo.MembershipRepo, rsvps repo.RSVPRepo) *RSVPService {
	return &RSVPService{trips: trips, memberships: memberships, rsvps: rsvps}
}

// Submit validates and upserts the caller's RSVP for the trip. A repeat
// submission replaces the previous answer. Only the organizer or an accepted
// member may RSVP; anyone else gets domain.ErrUnauthorized.
func (s *RSVPService) Submit(ctx context.Context, userID uuid.UUID, rsvp domain.RSVP) (domain.RSVP, error) {
	if err := s.requireParticipant(ctx, rsvp.TripID, userID); err != nil {
		return domain.RSVP{}, fmt.Errorf("service.RSVPService.Submit: %w", err)
	}
	if err := validateRSVP(rsvp); err != nil {
		return domain.RSVP{}, err
	}
	rsvp.UserID = userID
	result, err := s.rsvps.Upsert(ctx, rsvp)
	if err != nil {
		return domain.RSVP{}, fmt.Errorf("service.RSVPService.Submit: %w", err)
	}
	return result, nil
}

// Get returns the caller's own RSVP for the trip.
// Returns domain.ErrNotFound when they have not answered yet.
func (s *RSVPService) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.RSVP, error) {
	result, err := s.rsvps.Get(ctx, tripID, userID)
	if err != nil {
		return domain.RSVP{}, fmt.Errorf("service.RSVPService.Get: %w", err)
	}
	return result, nil
}

// requireParticipant verifies userID organizes the trip or holds an accepted
// membership on it.
func (s *RSVPService) requireParticipant(ctx context.Context, tripID, userID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.CreatedBy == userID {
		return nil
	}
	m, err := s.memberships.GetByTripAndUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	if m.Status != domain.MembershipAccepted {
		return domain.ErrUnauthorized
	}
	return nil
}

// validateRSVP enforces business rules on a submitted answer.
//   - Status must be yes, no, or maybe.
//   - WalkingPref, if set, must be walk, ride, or either.
//   - DepartureAt, if set alongside ArrivalAt, must not precede it.
func validateRSVP(rsvp domain.RSVP) error {
	switch rsvp.Status {
	case domain.RSVPYes, domain.RSVPNo, domain.RSVPMaybe:
	default:
		return fmt.Errorf("%w: status must be yes, no, or maybe", domain.ErrValidation)
	}
	if rsvp.WalkingPref != nil {
		switch *rsvp.WalkingPref {
		case domain.WalkingWalk, domain.WalkingRide, domain.WalkingEither:
		default:
			return fmt.Errorf("%w: walking_pref must be walk, ride, or either", domain.ErrValidation)
		}
	}
	if rsvp.ArrivalAt != nil && rsvp.DepartureAt != nil && rsvp.DepartureAt.Before(*rsvp.ArrivalAt) {
		return fmt.Errorf("%w: departure_at must not be before arrival_at", domain.ErrValidation)
	}
	return nil
}
