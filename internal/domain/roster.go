package domain

import "github.com/google/uuid"

// PaymentRollup is the resolved payment state shown on the roster.
// Precedence: verified > reported > not_reported.
type PaymentRollup string

const (
	PaymentNotReported PaymentRollup = "not_reported"
	PaymentReported    PaymentRollup = "reported"
	PaymentVerified    PaymentRollup = "verified"
)

// RosterRow is one guest's line on the organizer dashboard: membership, RSVP,
// and payment state joined into a flat, denormalized view. Nil fields mean
// the guest simply has no record yet — an empty roster is not an error.
type RosterRow struct {
	MembershipID uuid.UUID        `json:"id"`
	InvitedEmail string           `json:"invited_email"`
	UserEmail    *string          `json:"user_email"` // nil until the invite is claimed
	Status       MembershipStatus `json:"status"`
	RSVPStatus   *RSVPStatus      `json:"rsvp_status"`
	PaymentState PaymentRollup    `json:"payment_status"`
	PaymentID    *uuid.UUID       `json:"payment_id"`
	AmountCents  *int64           `json:"payment_amount"`
}
