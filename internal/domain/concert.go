package domain

import "time"

// Concert is a scheduled event at a venue, owning its ticket types.
type Concert struct {
	ID          string
	VenueID     string
	Title       string
	Artist      string
	Slug        string
	Genre       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
}

// SoldSeat records one seat committed to one concert. The (concert, seat)
// pair is unique and is the ground truth for assigned-seat availability.
type SoldSeat struct {
	ConcertID string
	SeatID    string
	CreatedAt time.Time
}
