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

// MembershipRepo defines the persistence operations for Memberships.
// The (trip_id, invited_email) pair is unique; resending an invite reissues
// the token on the existing row rather than creating a duplicate.
type MembershipRepo interface {
	// UpsertInvite inserts a membership with status "invited", or — when one
	// already exists for (tripID, email) — replaces its invite token and
	// resets its status to "invited". Returns the persisted record either way.
	// Email must already be case-folded by the caller.
	UpsertInvite(ctx context.Context, tripID uuid.UUID, email, token string) (domain.Membership, error)

	// GetByToken retrieves a membership by its invite token.
	// Returns domain.ErrNotFound if no membership carries that token.
	GetByToken(ctx context.Context, token string) (domain.Membership, error)

	// Accept binds the membership to a user, sets status "accepted", and
	// stamps accepted_at. Returns domain.ErrNotFound if the row is gone.
	Accept(ctx context.Context, id, userID uuid.UUID) (domain.Membership, error)

	// GetByTripAndUser retrieves the membership binding userID to tripID.
	// Returns domain.ErrNotFound if the user holds no membership on the trip.
	GetByTripAndUser(ctx context.Context, tripID, userID uuid.UUID) (domain.Membership, error)

	// ListByTrip returns all memberships for a trip ordered by invited_at
	// descending.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error)

	// ListPaged returns one page of a trip's memberships (invited_at
	// descending) and the total count.
	ListPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error)

	// ListActiveByTrip returns memberships with status invited or accepted —
	// the reminder audience before filtering.
	ListActiveByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error)
}

// pgMembershipRepo is the Postgres implementation of MembershipRepo.
type pgMembershipRepo struct {
	db db
}

// NewMembershipRepo constructs a MembershipRepo backed by the provided db connection.
func NewMembershipRepo(db db) MembershipRepo {
	return &pgMembershipRepo{db: db}
}

const membershipColumns = `id, trip_id, invited_email, user_id, status, invite_token, invited_at, accepted_at`

// UpsertInvite reissues the token on conflict instead of failing.
// The DO UPDATE branch deliberately leaves user_id and accepted_at alone:
// resending an invite to an already-accepted guest refreshes their link
// without unbinding their account.
func (r *pgMembershipRepo) UpsertInvite(ctx context.Context, tripID uuid.UUID, email, token string) (domain.Membership, error) {
	const q = `
		INSERT INTO memberships (trip_id, invited_email, status, invite_token)
		VALUES (@trip_id, @invited_email, 'invited', @invite_token)
		ON CONFLICT (trip_id, invited_email) DO UPDATE
		SET invite_token = EXCLUDED.invite_token,
		    status       = 'invited'
		RETURNING ` + membershipColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":       tripID,
		"invited_email": email,
		"invite_token":  token,
	})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.UpsertInvite: %w", err)
	}
	return result, nil
}

// GetByToken retrieves a membership by invite token.
func (r *pgMembershipRepo) GetByToken(ctx context.Context, token string) (domain.Membership, error) {
	const q = `SELECT ` + membershipColumns + ` FROM memberships WHERE invite_token = @invite_token`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"invite_token": token})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.GetByToken: %w", err)
	}
	return result, nil
}

// Accept binds a user to the membership and marks it accepted.
func (r *pgMembershipRepo) Accept(ctx context.Context, id, userID uuid.UUID) (domain.Membership, error) {
	const q = `
		UPDATE memberships
		SET user_id     = @user_id,
		    status      = 'accepted',
		    accepted_at = now()
		WHERE id = @id
		RETURNING ` + membershipColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.Accept: %w", err)
	}
	return result, nil
}

// GetByTripAndUser retrieves the membership binding a user to a trip.
func (r *pgMembershipRepo) GetByTripAndUser(ctx context.Context, tripID, userID uuid.UUID) (domain.Membership, error) {
	const q = `SELECT ` + membershipColumns + ` FROM memberships WHERE trip_id = @trip_id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.GetByTripAndUser: %w", err)
	}
	return result, nil
}

// ListByTrip returns all memberships for a trip, most recently invited first.
func (r *pgMembershipRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error) {
	const q = `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE trip_id = @trip_id
		ORDER BY invited_at DESC`

	return r.queryMemberships(ctx, "ListByTrip", q, pgx.NamedArgs{"trip_id": tripID})
}

// ListPaged returns one page of memberships and the total count for the trip.
func (r *pgMembershipRepo) ListPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Membership, int64, error) {
	const countQ = `SELECT COUNT(*) FROM memberships WHERE trip_id = @trip_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"trip_id": tripID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.MembershipRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE trip_id = @trip_id
		ORDER BY invited_at DESC
		LIMIT @limit OFFSET @offset`

	items, err := r.queryMemberships(ctx, "ListPaged", q, pgx.NamedArgs{
		"trip_id": tripID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListActiveByTrip returns memberships with status invited or accepted.
func (r *pgMembershipRepo) ListActiveByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Membership, error) {
	const q = `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE trip_id = @trip_id AND status IN ('invited', 'accepted')
		ORDER BY invited_at DESC`

	return r.queryMemberships(ctx, "ListActiveByTrip", q, pgx.NamedArgs{"trip_id": tripID})
}

func (r *pgMembershipRepo) queryMemberships(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Membership, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.MembershipRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MembershipRepo.%s: scan: %w", op, err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MembershipRepo.%s: rows: %w", op, err)
	}

	return memberships, nil
}

// scanMembership maps a single database row into a domain.Membership.
func scanMembership(s scanner) (domain.Membership, error) {
	var (
		m          domain.Membership
		id         pgtype.UUID
		tripID     pgtype.UUID
		userID     pgtype.UUID
		acceptedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &tripID, &m.InvitedEmail, &userID, &m.Status, &m.InviteToken, &m.InvitedAt, &acceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Membership{}, domain.ErrNotFound
		}
		return domain.Membership{}, err
	}

	m.ID = uuid.UUID(id.Bytes)
	m.TripID = uuid.UUID(tripID.Bytes)
	if userID.Valid {
		uid := uuid.UUID(userID.Bytes)
		m.UserID = &uid
	}
	if acceptedAt.Valid {
		at := acceptedAt.Time
		m.AcceptedAt = &at
	}

	return m, nil
}
