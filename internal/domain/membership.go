package domain

import (
	"time"

	"github.com/google/uuid"
)

// MembershipStatus is the lifecycle state of an invitation.
type MembershipStatus string

const (
	// MembershipInvited means the invite was sent but not yet claimed.
	MembershipInvited MembershipStatus = "invited"
	// MembershipAccepted means a signed-in account claimed the invite.
	MembershipAccepted MembershipStatus = "accepted"
	// MembershipDeclined is reachable out of band; the claim flow never
	// transitions into it.
	MembershipDeclined MembershipStatus = "declined"
)

// Membership is the invitation/acceptance relationship between an email
// address and a trip. At most one membership exists per (trip, invited email).
//
// InviteToken is a single-use opaque credential; it is reissued, never reused,
// whenever the invite is resent. UserID is nil until the invite is claimed.
type Membership struct {
	ID           uuid.UUID        `json:"id"`
	TripID       uuid.UUID        `json:"trip_id"`
	InvitedEmail string           `json:"invited_email"` // always case-folded
	UserID       *uuid.UUID       `json:"user_id,omitempty"`
	Status       MembershipStatus `json:"status"`
	InviteToken  string           `json:"invite_token"`
	InvitedAt    time.Time        `json:"invited_at"`
	AcceptedAt   *time.Time       `json:"accepted_at,omitempty"`
}

// InviteResult tallies one invite batch. A recipient whose notification could
// not be delivered still has a membership row; only dispatch errors count as
// failed. EmailConfigured tells the organizer whether the links must be
// shared manually.
type InviteResult struct {
	Sent            int  `json:"sent"`
	Failed          int  `json:"failed"`
	EmailConfigured bool `json:"email_configured"`
}

// ReminderResult tallies one reminder batch.
type ReminderResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ReminderFilter narrows a reminder batch's audience.
// Unrecognized values fall back to "everyone invited or accepted".
type ReminderFilter string

const (
	// FilterAll addresses everyone invited or accepted.
	FilterAll ReminderFilter = "all"
	// FilterNeedsRSVP excludes members with any RSVP row for the trip,
	// regardless of its status — a "no" still counts as answered.
	FilterNeedsRSVP ReminderFilter = "needs_rsvp"
	// FilterNeedsDeposit excludes members whose deposit payment has been
	// verified by the organizer. A self-report alone does not exclude.
	FilterNeedsDeposit ReminderFilter = "needs_deposit"
)

// ReminderType selects the reminder content to send.
type ReminderType string

const (
	RemindRSVP    ReminderType = "rsvp"
	RemindDeposit ReminderType = "deposit"
)
