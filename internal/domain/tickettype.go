package domain

// TicketType is a priced binding of one zone to one concert. The kind must
// match the zone's kind. Sold is only meaningful for general admission and
// never decreases.
type TicketType struct {
	ID         string
	ConcertID  string
	ZoneID     string
	Kind       ZoneKind
	Slug       string
	PriceCents int64
	Sold       int
}

// Availability is the derived sales state of a ticket type. It is computed
// at read time from ground truth (seat counts or the sold counter) and is
// never stored.
type Availability struct {
	Remaining int
	SoldOut   bool
}

// NewAvailability derives availability from a zone's total inventory and the
// number of units already taken.
func NewAvailability(total, taken int) Availability {
	remaining := total - taken
	return Availability{Remaining: remaining, SoldOut: remaining <= 0}
}
