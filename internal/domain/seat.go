package domain

import "strconv"

// Seat is one sellable position inside an assigned zone.
type Seat struct {
	ID         string
	ZoneID     string
	Row        string
	Number     int
	Identifier string
}

// SeatIdentifier builds the public seat label, row letter followed by the
// seat number in decimal ("A1", "B12").
func SeatIdentifier(row string, number int) string {
	return row + strconv.Itoa(number)
}
