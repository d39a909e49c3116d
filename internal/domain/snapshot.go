package domain

import "time"

// Snapshot is the denormalized full state handed to the downstream notifier
// after each committed mutation. It is a reporting payload, not a source of
// truth: availability figures are derived at assembly time.
type Snapshot struct {
	TakenAt  time.Time         `json:"taken_at"`
	Venues   []VenueSnapshot   `json:"venues"`
	Concerts []ConcertSnapshot `json:"concerts"`
}

type VenueSnapshot struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Capacity int            `json:"capacity"`
	Mode     AdmissionMode  `json:"admission_mode"`
	Zones    []ZoneSnapshot `json:"zones"`
}

type ZoneSnapshot struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Kind       ZoneKind `json:"kind"`
	TotalSeats int      `json:"total_seats"`
}

type ConcertSnapshot struct {
	ID          string               `json:"id"`
	VenueID     string               `json:"venue_id"`
	Title       string               `json:"title"`
	Artist      string               `json:"artist"`
	Slug        string               `json:"slug"`
	StartsAt    time.Time            `json:"starts_at"`
	EndsAt      time.Time            `json:"ends_at"`
	SoldOut     bool                 `json:"sold_out"`
	TicketTypes []TicketTypeSnapshot `json:"ticket_types"`
}

type TicketTypeSnapshot struct {
	ID         string   `json:"id"`
	ZoneID     string   `json:"zone_id"`
	Kind       ZoneKind `json:"kind"`
	Slug       string   `json:"slug"`
	PriceCents int64    `json:"price_cents"`
	Remaining  int      `json:"remaining"`
	SoldOut    bool     `json:"is_sold_out"`
}
