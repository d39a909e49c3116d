package domain

// ZoneKind discriminates the two zone shapes.
type ZoneKind string

const (
	ZoneAssigned ZoneKind = "assigned"
	ZoneGeneral  ZoneKind = "general"
)

// SeatRange defines the seat grid of an assigned zone: rows are single
// uppercase letters, seat numbers positive integers, both ends inclusive.
type SeatRange struct {
	RowStart  string
	RowEnd    string
	SeatStart int
	SeatEnd   int
}

func (r SeatRange) Validate() error {
	if !validRow(r.RowStart) || !validRow(r.RowEnd) {
		return ErrInvalidSeatRange
	}
	if r.RowEnd[0] < r.RowStart[0] {
		return ErrInvalidSeatRange
	}
	if r.SeatStart < 1 || r.SeatEnd < r.SeatStart {
		return ErrInvalidSeatRange
	}
	return nil
}

func (r SeatRange) rows() int {
	return int(r.RowEnd[0]-r.RowStart[0]) + 1
}

func (r SeatRange) seatsPerRow() int {
	return r.SeatEnd - r.SeatStart + 1
}

// TotalSeats is the grid size, rows times seats per row.
func (r SeatRange) TotalSeats() int {
	return r.rows() * r.seatsPerRow()
}

// Expand produces the full seat cross product of the range. Returned seats
// carry row, number and identifier; the caller assigns IDs and the zone.
func (r SeatRange) Expand() []Seat {
	seats := make([]Seat, 0, r.TotalSeats())
	for row := r.RowStart[0]; row <= r.RowEnd[0]; row++ {
		for number := r.SeatStart; number <= r.SeatEnd; number++ {
			seats = append(seats, Seat{
				Row:        string(row),
				Number:     number,
				Identifier: SeatIdentifier(string(row), number),
			})
		}
	}
	return seats
}

func validRow(row string) bool {
	return len(row) == 1 && row[0] >= 'A' && row[0] <= 'Z'
}

// Zone is one purchasable inventory unit within a venue. Exactly one of
// Seating (assigned) or Capacity (general) defines it, selected by Kind.
type Zone struct {
	ID      string
	VenueID string
	Name    string
	Slug    string
	Kind    ZoneKind
	Seating *SeatRange
	// Capacity is the general-admission pool size. It is authoritative:
	// ticket types never carry their own capacity.
	Capacity int
}

// Validate checks shape exclusivity: an assigned zone carries a valid seat
// range and no capacity, a general zone the reverse.
func (z Zone) Validate() error {
	switch z.Kind {
	case ZoneAssigned:
		if z.Seating == nil || z.Capacity != 0 {
			return ErrInvalidZoneShape
		}
		return z.Seating.Validate()
	case ZoneGeneral:
		if z.Seating != nil {
			return ErrInvalidZoneShape
		}
		if z.Capacity <= 0 {
			return ErrInvalidCapacity
		}
		return nil
	}
	return ErrInvalidZoneShape
}

// TotalSeats is the derived capacity of the zone, always recomputed from
// the defining fields.
func (z Zone) TotalSeats() int {
	if z.Kind == ZoneAssigned && z.Seating != nil {
		return z.Seating.TotalSeats()
	}
	return z.Capacity
}

// ClassifyZoneShape resolves the kind of a zone payload that may carry both
// shapes. A complete seat range wins over a stray capacity value.
func ClassifyZoneShape(seating *SeatRange, capacity int) (ZoneKind, error) {
	if seating != nil {
		return ZoneAssigned, nil
	}
	if capacity > 0 {
		return ZoneGeneral, nil
	}
	return "", ErrInvalidZoneShape
}
