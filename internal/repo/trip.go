// Package repo contains all database access logic for the PlanIt API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planit/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). Upserts handle their conflicts in SQL; this is
// for writes where a constraint violation is a real business outcome, like a
// duplicate trip slug.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrConflict if the slug is already taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetBySlug retrieves a single trip by its unique slug.
	// Returns domain.ErrNotFound if no trip with that slug exists.
	GetBySlug(ctx context.Context, slug string) (domain.Trip, error)

	// ListForUser returns all trips the user created or holds an accepted
	// membership in, ordered by start_date descending (nulls last).
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID
	// exists, domain.ErrConflict if the new slug collides with another trip.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, slug, title, location_name, start_date, end_date, overview,
	itinerary, deposit_amount_cents, deposit_due_date, venmo_handle, venmo_qr_url,
	zelle_recipient, required_memo_template, created_by, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (slug, title, location_name, start_date, end_date, overview,
			itinerary, deposit_amount_cents, deposit_due_date, venmo_handle, venmo_qr_url,
			zelle_recipient, required_memo_template, created_by)
		VALUES (@slug, @title, @location_name, @start_date, @end_date, @overview,
			@itinerary, @deposit_amount_cents, @deposit_due_date, @venmo_handle, @venmo_qr_url,
			@zelle_recipient, @required_memo_template, @created_by)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetBySlug retrieves a trip by its unique slug.
func (r *pgTripRepo) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// ListForUser returns trips where the user is the creator or an accepted member.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips t
		WHERE t.created_by = @user_id
		   OR EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.trip_id = t.id AND m.user_id = @user_id AND m.status = 'accepted')
		ORDER BY t.start_date DESC NULLS LAST, t.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}

	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET slug                   = @slug,
		    title                  = @title,
		    location_name          = @location_name,
		    start_date             = @start_date,
		    end_date               = @end_date,
		    overview               = @overview,
		    itinerary              = @itinerary,
		    deposit_amount_cents   = @deposit_amount_cents,
		    deposit_due_date       = @deposit_due_date,
		    venmo_handle           = @venmo_handle,
		    venmo_qr_url           = @venmo_qr_url,
		    zelle_recipient        = @zelle_recipient,
		    required_memo_template = @required_memo_template,
		    updated_at             = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// tripArgs maps the mutable trip fields to named SQL arguments.
// The itinerary slice is encoded into the jsonb column by pgx; a nil slice is
// normalized to empty so the column never stores SQL NULL.
func tripArgs(trip domain.Trip) pgx.NamedArgs {
	itinerary := trip.Itinerary
	if itinerary == nil {
		itinerary = []domain.ItineraryItem{}
	}
	return pgx.NamedArgs{
		"slug":                   trip.Slug,
		"title":                  trip.Title,
		"location_name":          trip.Location,
		"start_date":             trip.StartDate, // nil becomes NULL
		"end_date":               trip.EndDate,
		"overview":               trip.Overview,
		"itinerary":              itinerary,
		"deposit_amount_cents":   trip.DepositAmountCents,
		"deposit_due_date":       trip.DepositDueDate,
		"venmo_handle":           trip.VenmoHandle,
		"venmo_qr_url":           trip.VenmoQRURL,
		"zelle_recipient":        trip.ZelleRecipient,
		"required_memo_template": trip.MemoTemplate,
		"created_by":             trip.CreatedBy,
	}
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, nullable date, and jsonb itinerary conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		createdBy pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		dueDate   pgtype.Date
	)

	err := s.Scan(&id, &t.Slug, &t.Title, &t.Location, &startDate, &endDate, &t.Overview,
		&t.Itinerary, &t.DepositAmountCents, &dueDate, &t.VenmoHandle, &t.VenmoQRURL,
		&t.ZelleRecipient, &t.MemoTemplate, &createdBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.CreatedBy = uuid.UUID(createdBy.Bytes)
	if startDate.Valid {
		sd := startDate.Time
		t.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}
	if dueDate.Valid {
		dd := dueDate.Time
		t.DepositDueDate = &dd
	}

	return t, nil
}
