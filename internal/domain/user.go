package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account provisioned by the passwordless sign-in flow.
// There is no password — possession of the emailed one-time code is the
// only credential. Email is stored case-folded.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthCodeKind distinguishes the two one-time code channels. The emailed
// 6-digit passcode and the magic-link token are verified through the same
// path; verification tries "email" first and falls back to "magiclink".
type AuthCodeKind string

const (
	CodeEmail     AuthCodeKind = "email"
	CodeMagicLink AuthCodeKind = "magiclink"
)

// Session is an established sign-in: a signed token plus its expiry.
// The handler layer propagates Token to the client as a cookie with
// Path=/, SameSite=Lax, HttpOnly, and Secure when served over TLS.
type Session struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
