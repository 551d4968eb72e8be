// Package service contains the business logic for the PlanIt API.
// Services validate inputs, enforce ownership and membership rules, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/repo"
)

// TripService implements business logic for Trip operations. It holds the
// memberships repo in addition to trips because reading a trip by slug is
// allowed for accepted members as well as the organizer.
type TripService struct {
	trips       repo.TripRepo
	memberships repo.MembershipRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, memberships repo.MembershipRepo) *TripService {
	return &TripService{trips: trips, memberships: memberships}
}

// Create validates and persists a new trip owned by userID.
// Returns domain.ErrValidation if input violates business rules and
// domain.ErrConflict if the slug is already taken.
func (s *TripService) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.Slug = strings.ToLower(strings.TrimSpace(trip.Slug))
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.CreatedBy = userID
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// Update validates and persists changes to an existing trip. Only the
// organizer may update a trip; anyone else gets domain.ErrNotFound, the
// same as if the trip did not exist.
func (s *TripService) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	existing, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if existing.CreatedBy != userID {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", domain.ErrNotFound)
	}
	trip.Slug = strings.ToLower(strings.TrimSpace(trip.Slug))
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.CreatedBy = existing.CreatedBy
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// GetBySlug returns the trip with the given slug if userID is its organizer
// or an accepted member. Everyone else gets domain.ErrNotFound.
func (s *TripService) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (domain.Trip, error) {
	trip, err := s.trips.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetBySlug: %w", err)
	}
	if trip.CreatedBy == userID {
		return trip, nil
	}
	m, err := s.memberships.GetByTripAndUser(ctx, trip.ID, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetBySlug: %w", err)
	}
	if m.Status != domain.MembershipAccepted {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetBySlug: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// ListForUser returns every trip userID organizes or has accepted an invite
// to, newest start date first. Always returns a non-nil slice.
func (s *TripService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ownedTrip loads a trip and verifies adminID organizes it. A trip that
// exists but belongs to someone else reports domain.ErrNotFound so callers
// cannot probe for other organizers' trips.
func ownedTrip(ctx context.Context, trips repo.TripRepo, tripID, adminID uuid.UUID) (domain.Trip, error) {
	trip, err := trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.CreatedBy != adminID {
		return domain.Trip{}, domain.ErrNotFound
	}
	return trip, nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Title and slug are required; the slug must be URL-safe.
//   - EndDate, if set alongside StartDate, must not precede it.
//   - DepositAmountCents must not be negative.
//   - Every itinerary item must be well-formed.
//   - VenmoQRURL, if set, must parse as an absolute URL.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if trip.Slug == "" {
		return fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}
	if !validSlug(trip.Slug) {
		return fmt.Errorf("%w: slug may contain only lowercase letters, digits, and hyphens", domain.ErrValidation)
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if trip.DepositAmountCents < 0 {
		return fmt.Errorf("%w: deposit_amount_cents must not be negative", domain.ErrValidation)
	}
	for i, item := range trip.Itinerary {
		if !item.Valid() {
			return fmt.Errorf("%w: itinerary item %d is invalid", domain.ErrValidation, i)
		}
	}
	if trip.VenmoQRURL != "" {
		u, err := url.Parse(trip.VenmoQRURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%w: venmo_qr_url must be an absolute URL", domain.ErrValidation)
		}
	}
	return nil
}

func validSlug(slug string) bool {
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
