package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/repo"
)

// PaymentService implements self-reported payments and organizer
// verification. No money moves here: guests report, organizers confirm.
type PaymentService struct {
	trips       repo.TripRepo
	memberships repo.MembershipRepo
	payments    repo.PaymentRepo
}

// NewPaymentService constructs a PaymentService backed by the provided repos.
func NewPaymentService(trips repo.TripRepo, memberships repo.MembershipRepo, payments repo.PaymentRepo) *PaymentService {
	return &PaymentService{trips: trips, memberships: memberships, payments: payments}
}

// Report validates and upserts the caller's payment report for the trip.
// A repeat report replaces amount, method, identifier, and memo but never
// touches an existing verification. Only the organizer or an accepted member
// may report; anyone else gets domain.ErrUnauthorized.
func (s *PaymentService) Report(ctx context.Context, userID uuid.UUID, payment domain.Payment) (domain.Payment, error) {
	if err := s.requireParticipant(ctx, payment.TripID, userID); err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Report: %w", err)
	}
	if payment.Type == "" {
		payment.Type = domain.PaymentTypeDeposit
	}
	if err := validatePayment(payment); err != nil {
		return domain.Payment{}, err
	}
	payment.UserID = userID
	result, err := s.payments.Upsert(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Report: %w", err)
	}
	return result, nil
}

// Get returns the caller's own payment record of the given type for the trip.
// Returns domain.ErrNotFound when nothing has been reported yet.
func (s *PaymentService) Get(ctx context.Context, userID, tripID uuid.UUID, paymentType string) (domain.Payment, error) {
	if paymentType == "" {
		paymentType = domain.PaymentTypeDeposit
	}
	result, err := s.payments.Get(ctx, tripID, userID, paymentType)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Get: %w", err)
	}
	return result, nil
}

// Verify marks a payment as confirmed by the trip's organizer. Verification
// is monotonic: verifying an already-verified payment keeps the original
// timestamp and verifier. Returns domain.ErrUnauthorized when adminID does
// not organize the payment's trip.
func (s *PaymentService) Verify(ctx context.Context, adminID, paymentID uuid.UUID) (domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, payment.TripID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}
	if trip.CreatedBy != adminID {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Verify: %w", domain.ErrUnauthorized)
	}
	result, err := s.payments.Verify(ctx, paymentID, adminID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}
	return result, nil
}

// requireParticipant verifies userID organizes the trip or holds an accepted
// membership on it.
func (s *PaymentService) requireParticipant(ctx context.Context, tripID, userID uuid.UUID) error {
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

// validatePayment enforces business rules on a reported payment.
//   - AmountCents must be positive; amounts are whole cents, never floats.
//   - Method must be venmo, zelle, cashapp, or other.
func validatePayment(payment domain.Payment) error {
	if payment.AmountCents <= 0 {
		return fmt.Errorf("%w: amount_cents must be positive", domain.ErrValidation)
	}
	switch payment.Method {
	case domain.PayVenmo, domain.PayZelle, domain.PayCashApp, domain.PayOther:
	default:
		return fmt.Errorf("%w: method must be venmo, zelle, cashapp, or other", domain.ErrValidation)
	}
	return nil
}
