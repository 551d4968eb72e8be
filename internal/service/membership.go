package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/repo"
)

// MembershipService implements the invite ledger: issuing invites, claiming
// them, and listing a trip's guest list for its organizer.
type MembershipService struct {
	trips       repo.TripRepo
	memberships repo.MembershipRepo
}

// NewMembershipService constructs a MembershipService backed by the provided repos.
func NewMembershipService(trips repo.TripRepo, memberships repo.MembershipRepo) *MembershipService {
	return &MembershipService{trips: trips, memberships: memberships}
}

// Invite records (or re-records) an invite for email on the trip. Resending
// to an address that already holds a membership reissues its token without
// disturbing any account binding. Only the organizer may invite.
func (s *MembershipService) Invite(ctx context.Context, adminID, tripID uuid.UUID, email string) (domain.Membership, error) {
	if _, err := ownedTrip(ctx, s.trips, tripID, adminID); err != nil {
		return domain.Membership{}, fmt.Errorf("service.MembershipService.Invite: %w", err)
	}
	email = foldEmail(email)
	if !validEmail(email) {
		return domain.Membership{}, fmt.Errorf("%w: a valid email address is required", domain.ErrValidation)
	}
	token, err := newInviteToken()
	if err != nil {
		return domain.Membership{}, fmt.Errorf("service.MembershipService.Invite: %w", err)
	}
	m, err := s.memberships.UpsertInvite(ctx, tripID, email, token)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("service.MembershipService.Invite: %w", err)
	}
	return m, nil
}

// Claim redeems an invite token on behalf of user, binding the membership to
// their account. The trip the invite belongs to is returned so the caller can
// redirect to it.
//
// Returns domain.ErrNotFound for an unknown token, domain.ErrEmailMismatch
// when the signed-in account's email differs (case-insensitively) from the
// invited address, and succeeds idempotently when the same account claims an
// already-accepted invite twice.
func (s *MembershipService) Claim(ctx context.Context, token string, user domain.User) (domain.Trip, error) {
	m, err := s.memberships.GetByToken(ctx, token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.MembershipService.Claim: %w", err)
	}
	if !strings.EqualFold(m.InvitedEmail, user.Email) {
		return domain.Trip{}, fmt.Errorf("service.MembershipService.Claim: %w", domain.ErrEmailMismatch)
	}
	if m.Status == domain.MembershipAccepted && m.UserID != nil && *m.UserID == user.ID {
		// Already claimed by this account; nothing to do.
	} else {
		if _, err := s.memberships.Accept(ctx, m.ID, user.ID); err != nil {
			return domain.Trip{}, fmt.Errorf("service.MembershipService.Claim: %w", err)
		}
	}
	trip, err := s.trips.GetByID(ctx, m.TripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.MembershipService.Claim: %w", err)
	}
	return trip, nil
}

// ListByTrip returns one page of the trip's guest list, newest invite first.
// Only the organizer may list; anyone else gets domain.ErrNotFound.
func (s *MembershipService) ListByTrip(ctx context.Context, adminID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error) {
	if _, err := ownedTrip(ctx, s.trips, tripID, adminID); err != nil {
		return nil, 0, fmt.Errorf("service.MembershipService.ListByTrip: %w", err)
	}
	items, total, err := s.memberships.ListPaged(ctx, tripID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.MembershipService.ListByTrip: %w", err)
	}
	if items == nil {
		items = []domain.Membership{}
	}
	return items, total, nil
}

// newInviteToken returns 32 bytes of cryptographic randomness, hex encoded.
// Tokens do not expire; reissuing an invite replaces the old token.
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// foldEmail normalizes an address for comparison and storage.
func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail applies the same minimal shape check the invite form does.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
