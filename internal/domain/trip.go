// Package domain contains the core data types for the PlanIt API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a group trip an organizer creates and invites guests to.
// A trip is the top-level aggregate; memberships, RSVPs, and payments all
// belong to a trip and have no lifecycle outside it.
//
// Money is always integer cents — never floating point.
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"` // globally unique, URL-safe
	Title     string     `json:"title"`
	Location  string     `json:"location_name,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Overview  string     `json:"overview,omitempty"`

	// Itinerary holds the ordered day-by-day schedule and any games,
	// as an explicit tagged sequence rather than a shape-sniffed blob.
	Itinerary []ItineraryItem `json:"itinerary,omitempty"`

	DepositAmountCents int64      `json:"deposit_amount_cents"`
	DepositDueDate     *time.Time `json:"deposit_due_date,omitempty"`

	// Payment handles are display-only; no money moves through this system.
	VenmoHandle    string `json:"venmo_handle,omitempty"`
	VenmoQRURL     string `json:"venmo_qr_url,omitempty"`
	ZelleRecipient string `json:"zelle_recipient,omitempty"`
	MemoTemplate   string `json:"required_memo_template,omitempty"`

	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
