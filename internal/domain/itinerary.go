package domain

// ItineraryItemKind discriminates the two shapes an itinerary entry can take.
type ItineraryItemKind string

const (
	// ItineraryDay is a scheduled day: {day, title, details}.
	ItineraryDay ItineraryItemKind = "day"
	// ItineraryGame is a side game with an optional prize fund.
	ItineraryGame ItineraryItemKind = "game"
)

// ItineraryItem is one entry in a trip's ordered itinerary.
// Kind selects which fields are meaningful: "day" items use Day/Title/Details,
// "game" items use Title/PrizeFundCents. The whole slice is persisted as a
// single JSONB column on the trip — items are embedded data, not entities.
type ItineraryItem struct {
	Kind           ItineraryItemKind `json:"kind"`
	Day            string            `json:"day,omitempty"`
	Title          string            `json:"title"`
	Details        string            `json:"details,omitempty"`
	PrizeFundCents int64             `json:"prize_fund_cents,omitempty"`
}

// Valid reports whether the item is well-formed for its kind.
func (i ItineraryItem) Valid() bool {
	switch i.Kind {
	case ItineraryDay:
		return i.Title != "" && i.Day != ""
	case ItineraryGame:
		return i.Title != "" && i.PrizeFundCents >= 0
	default:
		return false
	}
}
