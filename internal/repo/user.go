package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planit/backend/internal/domain"
)

// UserRepo defines the persistence operations for Users.
// Accounts are auto-provisioned by the passwordless sign-in flow, so the only
// write is an idempotent upsert keyed on the case-folded email.
type UserRepo interface {
	// UpsertByEmail provisions an account for the email, or returns the
	// existing one. Email must already be case-folded by the caller.
	UpsertByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByID retrieves a user by primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail retrieves a user by case-folded email.
	// Returns domain.ErrNotFound if no account exists for that email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// AuthCodeRepo stores the one-time sign-in codes issued by the handshake.
// Codes are single-use: Consume marks a row spent atomically, so a replayed
// code fails even when two requests race.
type AuthCodeRepo interface {
	// Create stores a fresh code of the given kind for the email.
	Create(ctx context.Context, email, code string, kind domain.AuthCodeKind, expiresAt time.Time) error

	// Consume atomically spends an unexpired, unused code matching
	// (email, code, kind). Returns domain.ErrNotFound when no such code
	// exists — wrong code, wrong kind, expired, or already used all look
	// the same to the caller.
	Consume(ctx context.Context, email, code string, kind domain.AuthCodeKind) error
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

// UpsertByEmail inserts the account or returns the existing row on conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when the
// conflict handler skips the insert — without it, RETURNING returns nothing
// on DO NOTHING conflicts.
func (r *pgUserRepo) UpsertByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		INSERT INTO users (email)
		VALUES (@email)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.UpsertByEmail: %w", err)
	}
	return result, nil
}

// GetByID retrieves a user by primary key.
func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT id, email, created_at FROM users WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByEmail retrieves a user by case-folded email.
func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT id, email, created_at FROM users WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}

// pgAuthCodeRepo is the Postgres implementation of AuthCodeRepo.
type pgAuthCodeRepo struct {
	db db
}

// NewAuthCodeRepo constructs an AuthCodeRepo backed by the provided db connection.
func NewAuthCodeRepo(db db) AuthCodeRepo {
	return &pgAuthCodeRepo{db: db}
}

// Create stores a fresh one-time code.
func (r *pgAuthCodeRepo) Create(ctx context.Context, email, code string, kind domain.AuthCodeKind, expiresAt time.Time) error {
	const q = `
		INSERT INTO auth_codes (email, code, kind, expires_at)
		VALUES (@email, @code, @kind, @expires_at)`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"email":      email,
		"code":       code,
		"kind":       kind,
		"expires_at": expiresAt,
	}); err != nil {
		return fmt.Errorf("repo.AuthCodeRepo.Create: %w", err)
	}
	return nil
}

// Consume marks a matching live code as spent. The WHERE clause is the whole
// verification: zero rows updated means the code is not valid for this email
// and kind right now, for whatever reason.
func (r *pgAuthCodeRepo) Consume(ctx context.Context, email, code string, kind domain.AuthCodeKind) error {
	const q = `
		UPDATE auth_codes
		SET consumed_at = now()
		WHERE email = @email
		  AND code = @code
		  AND kind = @kind
		  AND consumed_at IS NULL
		  AND expires_at > now()`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"email": email, "code": code, "kind": kind})
	if err != nil {
		return fmt.Errorf("repo.AuthCodeRepo.Consume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AuthCodeRepo.Consume: %w", domain.ErrNotFound)
	}
	return nil
}
