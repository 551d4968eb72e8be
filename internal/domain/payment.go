package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is the third-party handle the guest says they paid through.
type PaymentMethod string

const (
	PayVenmo   PaymentMethod = "venmo"
	PayZelle   PaymentMethod = "zelle"
	PayCashApp PaymentMethod = "cashapp"
	PayOther   PaymentMethod = "other"
)

// PaymentTypeDeposit is the only payment type the current product uses.
// The type column exists so later payment kinds (e.g. "final") slot in
// without a schema change.
const PaymentTypeDeposit = "deposit"

// Payment is one self-reported payment per (trip, account, type).
// No money moves through this system: the guest reports that they paid via
// Venmo/Zelle, and the organizer verifies it by hand. Verification is a
// one-way transition — VerifiedAt is never cleared once set.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	TripID      uuid.UUID     `json:"trip_id"`
	UserID      uuid.UUID     `json:"user_id"`
	Type        string        `json:"type"`
	AmountCents int64         `json:"amount_cents"`
	Method      PaymentMethod `json:"method"`
	Identifier  string        `json:"identifier,omitempty"` // e.g. Venmo transaction note
	Memo        string        `json:"memo,omitempty"`
	VerifiedAt  *time.Time    `json:"verified_at,omitempty"`
	VerifiedBy  *uuid.UUID    `json:"verified_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Verified reports whether the organizer has confirmed this payment.
func (p Payment) Verified() bool { return p.VerifiedAt != nil }
