package app

import (
	"context"

	"github.com/encorehall/boxoffice/internal/domain"
)

type VenueRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateVenue(ctx context.Context, venue domain.Venue) error
	GetVenue(ctx context.Context, venueID string) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	CreateZone(ctx context.Context, zone domain.Zone) error
	GetZone(ctx context.Context, venueID, zoneID string) (domain.Zone, error)
	GetZoneForUpdate(ctx context.Context, venueID, zoneID string) (domain.Zone, error)
	UpdateZone(ctx context.Context, zone domain.Zone) error
	UpdateZoneCapacity(ctx context.Context, zoneID string, capacity int) error
	ListZonesByVenue(ctx context.Context, venueID string) ([]domain.Zone, error)
	ZoneHasSales(ctx context.Context, zoneID string) (bool, error)
	DeleteSeats(ctx context.Context, zoneID string) error
	InsertSeats(ctx context.Context, zoneID string, seats []domain.Seat) error
	ListSeats(ctx context.Context, zoneID string) ([]domain.Seat, error)
}

// VenueService manages venues, zones and their generated seat grids.
type VenueService struct {
	repo  VenueRepository
	snaps *Snapshotter
}

func NewVenueService(repo VenueRepository, snaps *Snapshotter) *VenueService {
	return &VenueService{repo: repo, snaps: snaps}
}

type CreateVenueInput struct {
	Name     string
	Address  string
	Capacity int
	Mode     string
}

func (s *VenueService) CreateVenue(ctx context.Context, in CreateVenueInput) (domain.Venue, error) {
	if in.Name == "" {
		return domain.Venue{}, domain.ErrVenueNameRequired
	}
	mode := domain.AdmissionMode(in.Mode)
	if !mode.Valid() {
		return domain.Venue{}, domain.ErrInvalidAdmissionMode
	}

	venue := domain.Venue{
		ID:       newID(),
		Name:     in.Name,
		Address:  in.Address,
		Capacity: in.Capacity,
		Mode:     mode,
	}

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return domain.Venue{}, err
	}
	s.snaps.Publish(ctx)
	return venue, nil
}

func (s *VenueService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListVenues(ctx)
}

type CreateZoneInput struct {
	VenueID string
	Name    string
	// Kind is the explicit type discriminator. Required when the payload is
	// ambiguous in a mixed-mode venue, optional otherwise.
	Kind     string
	Seating  *domain.SeatRange
	Capacity int
}

// CreateZone validates the zone against the venue's admission mode, persists
// it, and for assigned zones generates the full seat grid in the same
// transaction.
func (s *VenueService) CreateZone(ctx context.Context, in CreateZoneInput) (domain.Zone, error) {
	if in.Name == "" {
		return domain.Zone{}, domain.ErrZoneNameRequired
	}

	venue, err := s.repo.GetVenue(ctx, in.VenueID)
	if err != nil {
		return domain.Zone{}, err
	}

	kind, err := resolveZoneKind(in.Kind, in.Seating, in.Capacity, venue.Mode)
	if err != nil {
		return domain.Zone{}, err
	}

	zone := domain.Zone{
		ID:      newID(),
		VenueID: venue.ID,
		Name:    in.Name,
		Slug:    slugify(in.Name),
		Kind:    kind,
	}
	switch kind {
	case domain.ZoneAssigned:
		zone.Seating = in.Seating
	case domain.ZoneGeneral:
		zone.Capacity = in.Capacity
	}
	if err := zone.Validate(); err != nil {
		return domain.Zone{}, err
	}

	// Admission mode is checked before anything is written.
	if !venue.Mode.Allows(kind) {
		return domain.Zone{}, domain.ErrAdmissionModeViolation
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateZone(txCtx, zone); err != nil {
			return err
		}
		if zone.Kind == domain.ZoneAssigned {
			return s.repo.InsertSeats(txCtx, zone.ID, generateSeats(zone))
		}
		return nil
	})
	if err != nil {
		return domain.Zone{}, err
	}

	s.snaps.Publish(ctx)
	return zone, nil
}

type UpdateZoneInput struct {
	VenueID  string
	ZoneID   string
	Name     string
	Seating  *domain.SeatRange
	Capacity int
}

// UpdateZone edits a zone's structure. Changing an assigned zone's seat
// range destroys and regenerates its grid, which is refused while any seat
// has a sale on record. Shrinking a general zone below committed sales fails
// with a capacity violation. The zone row stays locked for the whole
// transaction so in-flight reservations cannot observe a half-replaced grid.
func (s *VenueService) UpdateZone(ctx context.Context, in UpdateZoneInput) (domain.Zone, error) {
	var updated domain.Zone

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		zone, err := s.repo.GetZoneForUpdate(txCtx, in.VenueID, in.ZoneID)
		if err != nil {
			return err
		}

		if in.Name != "" {
			zone.Name = in.Name
		}

		switch zone.Kind {
		case domain.ZoneAssigned:
			if in.Capacity > 0 {
				return domain.ErrInvalidZoneShape
			}
			if in.Seating != nil && *in.Seating != *zone.Seating {
				if err := in.Seating.Validate(); err != nil {
					return err
				}
				hasSales, err := s.repo.ZoneHasSales(txCtx, zone.ID)
				if err != nil {
					return err
				}
				if hasSales {
					return domain.ErrZoneHasSales
				}
				zone.Seating = in.Seating
				if err := s.repo.DeleteSeats(txCtx, zone.ID); err != nil {
					return err
				}
				if err := s.repo.UpdateZone(txCtx, zone); err != nil {
					return err
				}
				updated = zone
				return s.repo.InsertSeats(txCtx, zone.ID, generateSeats(zone))
			}
		case domain.ZoneGeneral:
			if in.Seating != nil {
				return domain.ErrInvalidZoneShape
			}
			if in.Capacity != 0 && in.Capacity != zone.Capacity {
				if in.Capacity < 0 {
					return domain.ErrInvalidCapacity
				}
				// The conditional update enforces the sales floor; the row
				// write below then persists the rest of the edit.
				if err := s.repo.UpdateZoneCapacity(txCtx, zone.ID, in.Capacity); err != nil {
					return err
				}
				zone.Capacity = in.Capacity
			}
		}

		if err := s.repo.UpdateZone(txCtx, zone); err != nil {
			return err
		}
		updated = zone
		return nil
	})
	if err != nil {
		return domain.Zone{}, err
	}

	s.snaps.Publish(ctx)
	return updated, nil
}

func (s *VenueService) ListZones(ctx context.Context, venueID string) ([]domain.Zone, error) {
	if venueID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListZonesByVenue(ctx, venueID)
}

func (s *VenueService) ListSeats(ctx context.Context, venueID, zoneID string) ([]domain.Seat, error) {
	zone, err := s.repo.GetZone(ctx, venueID, zoneID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSeats(ctx, zone.ID)
}

// resolveZoneKind applies the explicit discriminator when present, otherwise
// classifies by shape. A mixed-mode venue with both shapes in the payload
// must say which one it means.
func resolveZoneKind(explicit string, seating *domain.SeatRange, capacity int, mode domain.AdmissionMode) (domain.ZoneKind, error) {
	if explicit != "" {
		kind := domain.ZoneKind(explicit)
		if kind != domain.ZoneAssigned && kind != domain.ZoneGeneral {
			return "", domain.ErrInvalidZoneShape
		}
		return kind, nil
	}
	if mode == domain.AdmissionMixed && seating != nil && capacity > 0 {
		return "", domain.ErrZoneKindRequired
	}
	return domain.ClassifyZoneShape(seating, capacity)
}

func generateSeats(zone domain.Zone) []domain.Seat {
	seats := zone.Seating.Expand()
	for i := range seats {
		seats[i].ID = newID()
		seats[i].ZoneID = zone.ID
	}
	return seats
}
