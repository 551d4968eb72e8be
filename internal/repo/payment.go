package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planit/backend/internal/domain"
)

// PaymentRepo defines the persistence operations for Payments.
// One row exists per (trip, user, type); Upsert replaces the self-reported
// fields of an existing row. Verification fields are only ever written by
// Verify, which is monotonic.
type PaymentRepo interface {
	// Upsert inserts or replaces the payment for (TripID, UserID, Type) and
	// returns the persisted record. A re-report never clears verified_at.
	Upsert(ctx context.Context, payment domain.Payment) (domain.Payment, error)

	// Get retrieves the payment for (tripID, userID, paymentType).
	// Returns domain.ErrNotFound when nothing has been reported yet.
	Get(ctx context.Context, tripID, userID uuid.UUID, paymentType string) (domain.Payment, error)

	// GetByID retrieves a payment by primary key.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)

	// Verify stamps verified_at and verified_by on the payment. The stamps
	// are set at most once: a second call succeeds but keeps the original
	// timestamp and verifier. Returns domain.ErrNotFound if the row is gone.
	Verify(ctx context.Context, id, verifierID uuid.UUID) (domain.Payment, error)

	// ListByTripAndType returns all payments of one type for a trip.
	ListByTripAndType(ctx context.Context, tripID uuid.UUID, paymentType string) ([]domain.Payment, error)
}

// pgPaymentRepo is the Postgres implementation of PaymentRepo.
type pgPaymentRepo struct {
	db db
}

// NewPaymentRepo constructs a PaymentRepo backed by the provided db connection.
func NewPaymentRepo(db db) PaymentRepo {
	return &pgPaymentRepo{db: db}
}

const paymentColumns = `id, trip_id, user_id, type, amount_cents, method, identifier, memo,
	verified_at, verified_by, created_at, updated_at`

// Upsert replaces the self-reported fields on conflict. verified_at and
// verified_by are deliberately absent from the DO UPDATE branch — correcting
// a typo in the reported amount does not silently undo verification.
func (r *pgPaymentRepo) Upsert(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	const q = `
		INSERT INTO payments (trip_id, user_id, type, amount_cents, method, identifier, memo)
		VALUES (@trip_id, @user_id, @type, @amount_cents, @method, @identifier, @memo)
		ON CONFLICT (trip_id, user_id, type) DO UPDATE
		SET amount_cents = EXCLUDED.amount_cents,
		    method       = EXCLUDED.method,
		    identifier   = EXCLUDED.identifier,
		    memo         = EXCLUDED.memo,
		    updated_at   = now()
		RETURNING ` + paymentColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":      payment.TripID,
		"user_id":      payment.UserID,
		"type":         payment.Type,
		"amount_cents": payment.AmountCents,
		"method":       payment.Method,
		"identifier":   payment.Identifier,
		"memo":         payment.Memo,
	})
	result, err := scanPayment(row)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Upsert: %w", err)
	}
	return result, nil
}

// Get retrieves the payment for a (trip, user, type) triple.
func (r *pgPaymentRepo) Get(ctx context.Context, tripID, userID uuid.UUID, paymentType string) (domain.Payment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE trip_id = @trip_id AND user_id = @user_id AND type = @type`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "type": paymentType})
	result, err := scanPayment(row)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Get: %w", err)
	}
	return result, nil
}

// GetByID retrieves a payment by primary key.
func (r *pgPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPayment(row)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByID: %w", err)
	}
	return result, nil
}

// Verify sets the verification stamps at most once. COALESCE keeps the
// original verified_at/verified_by when the payment is already verified, so
// repeat calls are harmless and never un-verify.
func (r *pgPaymentRepo) Verify(ctx context.Context, id, verifierID uuid.UUID) (domain.Payment, error) {
	const q = `
		UPDATE payments
		SET verified_at = COALESCE(verified_at, now()),
		    verified_by = COALESCE(verified_by, @verified_by),
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + paymentColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "verified_by": verifierID})
	result, err := scanPayment(row)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Verify: %w", err)
	}
	return result, nil
}

// ListByTripAndType returns all payments of the given type for a trip.
func (r *pgPaymentRepo) ListByTripAndType(ctx context.Context, tripID uuid.UUID, paymentType string) ([]domain.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE trip_id = @trip_id AND type = @type`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "type": paymentType})
	if err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByTripAndType: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PaymentRepo.ListByTripAndType: scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByTripAndType: rows: %w", err)
	}

	return payments, nil
}

// scanPayment maps a single database row into a domain.Payment.
func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p          domain.Payment
		id         pgtype.UUID
		tripID     pgtype.UUID
		userID     pgtype.UUID
		verifiedAt pgtype.Timestamptz
		verifiedBy pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &userID, &p.Type, &p.AmountCents, &p.Method, &p.Identifier, &p.Memo,
		&verifiedAt, &verifiedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	if verifiedAt.Valid {
		at := verifiedAt.Time
		p.VerifiedAt = &at
	}
	if verifiedBy.Valid {
		by := uuid.UUID(verifiedBy.Bytes)
		p.VerifiedBy = &by
	}

	return p, nil
}
