package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — or exists but is not owned by the caller.
// Ownership failures are deliberately reported as not-found so that probing
// another organizer's trip IDs leaks nothing about what exists.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, negative amount).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when an authenticated caller is not permitted
// to perform the operation (e.g. verifying a payment on someone else's trip).
// Handlers should map this to HTTP 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrEmailMismatch is returned by the invite claim flow when the claiming
// account's email does not match the invited email. The membership is never
// silently reassigned. Handlers should map this to HTTP 403 with an
// explanatory body so the guest knows the invite belongs to another address.
var ErrEmailMismatch = errors.New("email mismatch")

// ErrConflict is returned when the database rejects a write due to a
// uniqueness or foreign-key constraint (e.g. duplicate trip slug).
// Constraint violations are expected outcomes, not crashes.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
