package app

import (
	"context"
	"testing"

	"github.com/encorehall/boxoffice/internal/domain"
)

func TestVenueService_CreateZone(t *testing.T) {
	t.Parallel()

	makeSvc := func(mode domain.AdmissionMode) (*VenueService, *fakeVenueRepo) {
		repo := newFakeVenueRepo()
		repo.venues["venue-1"] = domain.Venue{ID: "venue-1", Name: "The Hall", Mode: mode}
		return NewVenueService(repo, nil), repo
	}

	t.Run("assigned zone generates the seat grid", func(t *testing.T) {
		svc, repo := makeSvc(domain.AdmissionAssigned)

		zone, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID: "venue-1",
			Name:    "Front Zone",
			Seating: &domain.SeatRange{RowStart: "A", RowEnd: "B", SeatStart: 1, SeatEnd: 2},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if zone.Kind != domain.ZoneAssigned {
			t.Fatalf("expected assigned zone, got %s", zone.Kind)
		}
		if zone.Slug != "front-zone" {
			t.Fatalf("expected slug front-zone, got %s", zone.Slug)
		}
		if zone.TotalSeats() != 4 {
			t.Fatalf("expected 4 total seats, got %d", zone.TotalSeats())
		}

		seats := repo.seats[zone.ID]
		if len(seats) != 4 {
			t.Fatalf("expected 4 seats generated, got %d", len(seats))
		}
		want := map[string]bool{"A1": true, "A2": true, "B1": true, "B2": true}
		for _, s := range seats {
			if !want[s.Identifier] {
				t.Fatalf("unexpected seat %s", s.Identifier)
			}
		}
	})

	t.Run("general zone carries capacity only", func(t *testing.T) {
		svc, repo := makeSvc(domain.AdmissionGeneral)

		zone, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID:  "venue-1",
			Name:     "Floor",
			Capacity: 250,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if zone.Kind != domain.ZoneGeneral || zone.TotalSeats() != 250 {
			t.Fatalf("unexpected zone: %+v", zone)
		}
		if len(repo.seats[zone.ID]) != 0 {
			t.Fatalf("general zone must not generate seats")
		}
	})

	t.Run("assigned-only venue rejects a general zone", func(t *testing.T) {
		svc, repo := makeSvc(domain.AdmissionAssigned)

		_, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID:  "venue-1",
			Name:     "Floor",
			Kind:     "general",
			Capacity: 100,
		})
		if err != domain.ErrAdmissionModeViolation {
			t.Fatalf("expected ErrAdmissionModeViolation, got %v", err)
		}
		if len(repo.zones) != 0 {
			t.Fatalf("expected no zone persisted, got %d", len(repo.zones))
		}
	})

	t.Run("general-only venue rejects an assigned zone", func(t *testing.T) {
		svc, _ := makeSvc(domain.AdmissionGeneral)

		_, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID: "venue-1",
			Name:    "Front",
			Seating: &domain.SeatRange{RowStart: "A", RowEnd: "B", SeatStart: 1, SeatEnd: 2},
		})
		if err != domain.ErrAdmissionModeViolation {
			t.Fatalf("expected ErrAdmissionModeViolation, got %v", err)
		}
	})

	t.Run("mixed venue with ambiguous shape requires an explicit type", func(t *testing.T) {
		svc, _ := makeSvc(domain.AdmissionMixed)

		_, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID:  "venue-1",
			Name:     "Hybrid",
			Seating:  &domain.SeatRange{RowStart: "A", RowEnd: "B", SeatStart: 1, SeatEnd: 2},
			Capacity: 100,
		})
		if err != domain.ErrZoneKindRequired {
			t.Fatalf("expected ErrZoneKindRequired, got %v", err)
		}
	})

	t.Run("complete seat range wins over a stray capacity", func(t *testing.T) {
		svc, _ := makeSvc(domain.AdmissionAssigned)

		zone, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID:  "venue-1",
			Name:     "Front",
			Seating:  &domain.SeatRange{RowStart: "A", RowEnd: "A", SeatStart: 1, SeatEnd: 5},
			Capacity: 999,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if zone.Kind != domain.ZoneAssigned || zone.Capacity != 0 {
			t.Fatalf("expected assigned zone with no capacity, got %+v", zone)
		}
	})

	t.Run("invalid range is rejected", func(t *testing.T) {
		svc, _ := makeSvc(domain.AdmissionAssigned)

		_, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID: "venue-1",
			Name:    "Front",
			Seating: &domain.SeatRange{RowStart: "D", RowEnd: "A", SeatStart: 1, SeatEnd: 5},
		})
		if err != domain.ErrInvalidSeatRange {
			t.Fatalf("expected ErrInvalidSeatRange, got %v", err)
		}
	})
}

func TestVenueService_UpdateZone(t *testing.T) {
	t.Parallel()

	makeAssigned := func() (*VenueService, *fakeVenueRepo, domain.Zone) {
		repo := newFakeVenueRepo()
		repo.venues["venue-1"] = domain.Venue{ID: "venue-1", Mode: domain.AdmissionAssigned}
		svc := NewVenueService(repo, nil)
		zone, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID: "venue-1",
			Name:    "Front",
			Seating: &domain.SeatRange{RowStart: "A", RowEnd: "B", SeatStart: 1, SeatEnd: 2},
		})
		if err != nil {
			t.Fatalf("create zone: %v", err)
		}
		return svc, repo, zone
	}

	t.Run("range change regenerates the grid", func(t *testing.T) {
		svc, repo, zone := makeAssigned()

		updated, err := svc.UpdateZone(context.Background(), UpdateZoneInput{
			VenueID: "venue-1",
			ZoneID:  zone.ID,
			Seating: &domain.SeatRange{RowStart: "A", RowEnd: "C", SeatStart: 1, SeatEnd: 10},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.TotalSeats() != 30 {
			t.Fatalf("expected 30 total seats, got %d", updated.TotalSeats())
		}
		if len(repo.seats[zone.ID]) != 30 {
			t.Fatalf("expected 30 seats regenerated, got %d", len(repo.seats[zone.ID]))
		}
	})

	t.Run("regeneration is blocked while seats have sales", func(t *testing.T) {
		svc, repo, zone := makeAssigned()
		repo.salesByZone[zone.ID] = true

		_, err := svc.UpdateZone(context.Background(), UpdateZoneInput{
			VenueID: "venue-1",
			ZoneID:  zone.ID,
			Seating: &domain.SeatRange{RowStart: "A", RowEnd: "C", SeatStart: 1, SeatEnd: 10},
		})
		if err != domain.ErrZoneHasSales {
			t.Fatalf("expected ErrZoneHasSales, got %v", err)
		}
		if len(repo.seats[zone.ID]) != 4 {
			t.Fatalf("expected grid untouched at 4 seats, got %d", len(repo.seats[zone.ID]))
		}
	})

	t.Run("capacity on an assigned zone is rejected", func(t *testing.T) {
		svc, _, zone := makeAssigned()

		_, err := svc.UpdateZone(context.Background(), UpdateZoneInput{
			VenueID:  "venue-1",
			ZoneID:   zone.ID,
			Capacity: 100,
		})
		if err != domain.ErrInvalidZoneShape {
			t.Fatalf("expected ErrInvalidZoneShape, got %v", err)
		}
	})

	makeGeneral := func(capacity, maxSold int) (*VenueService, *fakeVenueRepo, domain.Zone) {
		repo := newFakeVenueRepo()
		repo.venues["venue-1"] = domain.Venue{ID: "venue-1", Mode: domain.AdmissionGeneral}
		svc := NewVenueService(repo, nil)
		zone, err := svc.CreateZone(context.Background(), CreateZoneInput{
			VenueID:  "venue-1",
			Name:     "Floor",
			Capacity: capacity,
		})
		if err != nil {
			t.Fatalf("create zone: %v", err)
		}
		repo.maxSoldByZone[zone.ID] = maxSold
		return svc, repo, zone
	}

	t.Run("capacity cannot drop below committed sales", func(t *testing.T) {
		svc, _, zone := makeGeneral(100, 40)

		_, err := svc.UpdateZone(context.Background(), UpdateZoneInput{
			VenueID:  "venue-1",
			ZoneID:   zone.ID,
			Capacity: 39,
		})
		if err != domain.ErrCapacityViolation {
			t.Fatalf("expected ErrCapacityViolation, got %v", err)
		}
	})

	t.Run("capacity may drop to exactly the committed sales", func(t *testing.T) {
		svc, repo, zone := makeGeneral(100, 40)

		updated, err := svc.UpdateZone(context.Background(), UpdateZoneInput{
			VenueID:  "venue-1",
			ZoneID:   zone.ID,
			Capacity: 40,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.Capacity != 40 || repo.zones[zone.ID].Capacity != 40 {
			t.Fatalf("expected capacity 40, got %+v", updated)
		}
	})

	t.Run("rename and capacity change in one edit persists both", func(t *testing.T) {
		svc, repo, zone := makeGeneral(100, 10)

		updated, err := svc.UpdateZone(context.Background(), UpdateZoneInput{
			VenueID:  "venue-1",
			ZoneID:   zone.ID,
			Name:     "Pit",
			Capacity: 50,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.Name != "Pit" || updated.Capacity != 50 {
			t.Fatalf("unexpected zone returned: %+v", updated)
		}
		stored := repo.zones[zone.ID]
		if stored.Name != "Pit" || stored.Capacity != 50 {
			t.Fatalf("unexpected zone persisted: %+v", stored)
		}
	})
}

type fakeVenueRepo struct {
	venues        map[string]domain.Venue
	zones         map[string]domain.Zone
	seats         map[string][]domain.Seat
	salesByZone   map[string]bool
	maxSoldByZone map[string]int
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{
		venues:        make(map[string]domain.Venue),
		zones:         make(map[string]domain.Zone),
		seats:         make(map[string][]domain.Seat),
		salesByZone:   make(map[string]bool),
		maxSoldByZone: make(map[string]int),
	}
}

func (f *fakeVenueRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeVenueRepo) CreateVenue(_ context.Context, venue domain.Venue) error {
	f.venues[venue.ID] = venue
	return nil
}

func (f *fakeVenueRepo) GetVenue(_ context.Context, venueID string) (domain.Venue, error) {
	v, ok := f.venues[venueID]
	if !ok {
		return domain.Venue{}, domain.ErrVenueNotFound
	}
	return v, nil
}

func (f *fakeVenueRepo) ListVenues(_ context.Context) ([]domain.Venue, error) {
	var out []domain.Venue
	for _, v := range f.venues {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVenueRepo) CreateZone(_ context.Context, zone domain.Zone) error {
	f.zones[zone.ID] = zone
	return nil
}

func (f *fakeVenueRepo) GetZone(_ context.Context, venueID, zoneID string) (domain.Zone, error) {
	zone, ok := f.zones[zoneID]
	if !ok || zone.VenueID != venueID {
		return domain.Zone{}, domain.ErrZoneNotFound
	}
	return zone, nil
}

func (f *fakeVenueRepo) GetZoneForUpdate(ctx context.Context, venueID, zoneID string) (domain.Zone, error) {
	return f.GetZone(ctx, venueID, zoneID)
}

func (f *fakeVenueRepo) UpdateZone(_ context.Context, zone domain.Zone) error {
	if _, ok := f.zones[zone.ID]; !ok {
		return domain.ErrZoneNotFound
	}
	f.zones[zone.ID] = zone
	return nil
}

func (f *fakeVenueRepo) UpdateZoneCapacity(_ context.Context, zoneID string, capacity int) error {
	zone, ok := f.zones[zoneID]
	if !ok || zone.Kind != domain.ZoneGeneral {
		return domain.ErrZoneNotFound
	}
	if capacity < f.maxSoldByZone[zoneID] {
		return domain.ErrCapacityViolation
	}
	zone.Capacity = capacity
	f.zones[zoneID] = zone
	return nil
}

func (f *fakeVenueRepo) ListZonesByVenue(_ context.Context, venueID string) ([]domain.Zone, error) {
	if _, ok := f.venues[venueID]; !ok {
		return nil, domain.ErrVenueNotFound
	}
	var out []domain.Zone
	for _, z := range f.zones {
		if z.VenueID == venueID {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeVenueRepo) ZoneHasSales(_ context.Context, zoneID string) (bool, error) {
	return f.salesByZone[zoneID], nil
}

func (f *fakeVenueRepo) DeleteSeats(_ context.Context, zoneID string) error {
	delete(f.seats, zoneID)
	return nil
}

func (f *fakeVenueRepo) InsertSeats(_ context.Context, zoneID string, seats []domain.Seat) error {
	f.seats[zoneID] = append(f.seats[zoneID], seats...)
	return nil
}

func (f *fakeVenueRepo) ListSeats(_ context.Context, zoneID string) ([]domain.Seat, error) {
	return f.seats[zoneID], nil
}
