package domain

import (
	"time"

	"github.com/google/uuid"
)

// RSVPStatus is a guest's attendance decision.
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// WalkingPref is a guest's preference for walking or riding the course.
type WalkingPref string

const (
	WalkingWalk   WalkingPref = "walk"
	WalkingRide   WalkingPref = "ride"
	WalkingEither WalkingPref = "either"
)

// RSVP is one attendance decision per (trip, account).
// Repeated submissions replace the previous answer — the composite key is
// enforced by upsert-on-conflict semantics, never by rejecting the write.
type RSVP struct {
	ID          uuid.UUID    `json:"id"`
	TripID      uuid.UUID    `json:"trip_id"`
	UserID      uuid.UUID    `json:"user_id"`
	Status      RSVPStatus   `json:"status"`
	ArrivalAt   *time.Time   `json:"arrival_at,omitempty"`
	DepartureAt *time.Time   `json:"departure_at,omitempty"`
	WalkingPref *WalkingPref `json:"walking_pref,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
