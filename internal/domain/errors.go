package domain

import "errors"

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrZoneNotFound       = errors.New("zone not found")
	ErrConcertNotFound    = errors.New("concert not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrSeatNotFound       = errors.New("seat not found")

	ErrSeatAlreadySold        = errors.New("seat already sold")
	ErrSoldOut                = errors.New("sold out")
	ErrCapacityViolation      = errors.New("capacity below committed sales")
	ErrAdmissionModeViolation = errors.New("zone kind not allowed by venue admission mode")
	ErrZoneKindMismatch       = errors.New("ticket type kind does not match zone kind")
	ErrVenueMismatch          = errors.New("zone belongs to a different venue")
	ErrZoneHasSales           = errors.New("zone has sold seats")
	ErrZoneAlreadyExists      = errors.New("zone already exists")
	ErrConcertAlreadyExists   = errors.New("concert already exists")
	ErrTicketTypeExists       = errors.New("ticket type already exists")
	ErrLockTimeout            = errors.New("timed out waiting for inventory lock")

	ErrInvalidSeatRange     = errors.New("invalid seat range")
	ErrInvalidCapacity      = errors.New("capacity must be positive")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("price must not be negative")
	ErrInvalidAdmissionMode = errors.New("invalid admission mode")
	ErrInvalidZoneShape     = errors.New("zone must have either a seat range or a capacity")
	ErrInvalidID            = errors.New("invalid id")
	ErrVenueNameRequired    = errors.New("venue name is required")
	ErrZoneNameRequired     = errors.New("zone name is required")
	ErrConcertTitleRequired = errors.New("concert title is required")
	ErrNoSeatsRequested     = errors.New("no seats requested")
	ErrDuplicateSeat        = errors.New("duplicate seat requested")
	ErrZoneKindRequired     = errors.New("zone type must be specified")
)
