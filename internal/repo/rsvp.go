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

// RSVPRepo defines the persistence operations for RSVPs.
// Exactly one RSVP exists per (trip, user); Upsert replaces the mutable
// fields of an existing row instead of creating a duplicate.
type RSVPRepo interface {
	// Upsert inserts or replaces the RSVP for (rsvp.TripID, rsvp.UserID)
	// and returns the persisted record.
	Upsert(ctx context.Context, rsvp domain.RSVP) (domain.RSVP, error)

	// Get retrieves the RSVP for (tripID, userID).
	// Returns domain.ErrNotFound when the guest has not answered yet.
	Get(ctx context.Context, tripID, userID uuid.UUID) (domain.RSVP, error)

	// ListByTrip returns all RSVPs for a trip.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RSVP, error)
}

// pgRSVPRepo is the Postgres implementation of RSVPRepo.
type pgRSVPRepo struct {
	db db
}

// NewRSVPRepo constructs an RSVPRepo backed by the provided db connection.
func NewRSVPRepo(db db) RSVPRepo {
	return &pgRSVPRepo{db: db}
}

const rsvpColumns = `id, trip_id, user_id, status, arrival_at, departure_at, walking_pref, notes, created_at, updated_at`

// Upsert relies on the (trip_id, user_id) unique constraint: a second submit
// replaces the previous answer, so the latest write always wins.
func (r *pgRSVPRepo) Upsert(ctx context.Context, rsvp domain.RSVP) (domain.RSVP, error) {
	const q = `
		INSERT INTO rsvps (trip_id, user_id, status, arrival_at, departure_at, walking_pref, notes)
		VALUES (@trip_id, @user_id, @status, @arrival_at, @departure_at, @walking_pref, @notes)
		ON CONFLICT (trip_id, user_id) DO UPDATE
		SET status       = EXCLUDED.status,
		    arrival_at   = EXCLUDED.arrival_at,
		    departure_at = EXCLUDED.departure_at,
		    walking_pref = EXCLUDED.walking_pref,
		    notes        = EXCLUDED.notes,
		    updated_at   = now()
		RETURNING ` + rsvpColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":      rsvp.TripID,
		"user_id":      rsvp.UserID,
		"status":       rsvp.Status,
		"arrival_at":   rsvp.ArrivalAt,
		"departure_at": rsvp.DepartureAt,
		"walking_pref": rsvp.WalkingPref, // nil becomes NULL
		"notes":        rsvp.Notes,
	})
	result, err := scanRSVP(row)
	if err != nil {
		return domain.RSVP{}, fmt.Errorf("repo.RSVPRepo.Upsert: %w", err)
	}
	return result, nil
}

// Get retrieves the RSVP for a (trip, user) pair.
func (r *pgRSVPRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.RSVP, error) {
	const q = `SELECT ` + rsvpColumns + ` FROM rsvps WHERE trip_id = @trip_id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	result, err := scanRSVP(row)
	if err != nil {
		return domain.RSVP{}, fmt.Errorf("repo.RSVPRepo.Get: %w", err)
	}
	return result, nil
}

// ListByTrip returns all RSVPs for a trip.
func (r *pgRSVPRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RSVP, error) {
	const q = `SELECT ` + rsvpColumns + ` FROM rsvps WHERE trip_id = @trip_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.RSVPRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var rsvps []domain.RSVP
	for rows.Next() {
		rv, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RSVPRepo.ListByTrip: scan: %w", err)
		}
		rsvps = append(rsvps, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RSVPRepo.ListByTrip: rows: %w", err)
	}

	return rsvps, nil
}

// scanRSVP maps a single database row into a domain.RSVP.
func scanRSVP(s scanner) (domain.RSVP, error) {
	var (
		rv          domain.RSVP
		id          pgtype.UUID
		tripID      pgtype.UUID
		userID      pgtype.UUID
		arrivalAt   pgtype.Timestamptz
		departureAt pgtype.Timestamptz
		walkingPref pgtype.Text
	)

	err := s.Scan(&id, &tripID, &userID, &rv.Status, &arrivalAt, &departureAt, &walkingPref, &rv.Notes, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RSVP{}, domain.ErrNotFound
		}
		return domain.RSVP{}, err
	}

	rv.ID = uuid.UUID(id.Bytes)
	rv.TripID = uuid.UUID(tripID.Bytes)
	rv.UserID = uuid.UUID(userID.Bytes)
	if arrivalAt.Valid {
		at := arrivalAt.Time
		rv.ArrivalAt = &at
	}
	if departureAt.Valid {
		at := departureAt.Time
		rv.DepartureAt = &at
	}
	if walkingPref.Valid {
		wp := domain.WalkingPref(walkingPref.String)
		rv.WalkingPref = &wp
	}

	return rv, nil
}
