package postgres

import (
	"context"
	"fmt"

	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository assembles the denormalized full-state payload for the
// downstream notifier. Read-only; runs outside any mutation transaction.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot

	venues, zonesByVenue, zoneByID, err := r.loadVenues(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	for _, v := range venues {
		snap.Venues = append(snap.Venues, domain.VenueSnapshot{
			ID:       v.ID,
			Name:     v.Name,
			Address:  v.Address,
			Capacity: v.Capacity,
			Mode:     v.Mode,
			Zones:    zonesByVenue[v.ID],
		})
	}

	concerts, err := r.loadConcerts(ctx, zoneByID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Concerts = concerts

	return snap, nil
}

func (r *SnapshotRepository) loadVenues(ctx context.Context) ([]domain.Venue, map[string][]domain.ZoneSnapshot, map[string]domain.Zone, error) {
	const venueQuery = `
SELECT id, name, address, capacity, admission_mode
FROM venues
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, venueQuery)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("snapshot venues: %w", err)
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.Mode); err != nil {
			return nil, nil, nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if rows.Err() != nil {
		return nil, nil, nil, fmt.Errorf("iterate venues: %w", rows.Err())
	}

	const zoneQuery = `
SELECT id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity
FROM zones
ORDER BY created_at ASC`

	zoneRows, err := r.pool.Query(ctx, zoneQuery)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("snapshot zones: %w", err)
	}
	defer zoneRows.Close()

	zonesByVenue := make(map[string][]domain.ZoneSnapshot)
	zoneByID := make(map[string]domain.Zone)
	for zoneRows.Next() {
		zone, err := scanZone(zoneRows)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("scan zone: %w", err)
		}
		zoneByID[zone.ID] = zone
		zonesByVenue[zone.VenueID] = append(zonesByVenue[zone.VenueID], domain.ZoneSnapshot{
			ID:         zone.ID,
			Name:       zone.Name,
			Slug:       zone.Slug,
			Kind:       zone.Kind,
			TotalSeats: zone.TotalSeats(),
		})
	}
	if zoneRows.Err() != nil {
		return nil, nil, nil, fmt.Errorf("iterate zones: %w", zoneRows.Err())
	}

	return venues, zonesByVenue, zoneByID, nil
}

func (r *SnapshotRepository) loadConcerts(ctx context.Context, zoneByID map[string]domain.Zone) ([]domain.ConcertSnapshot, error) {
	const concertQuery = `
SELECT id, venue_id, title, artist, slug, starts_at, ends_at
FROM concerts
ORDER BY starts_at ASC`

	rows, err := r.pool.Query(ctx, concertQuery)
	if err != nil {
		return nil, fmt.Errorf("snapshot concerts: %w", err)
	}
	defer rows.Close()

	var concerts []domain.ConcertSnapshot
	for rows.Next() {
		var c domain.ConcertSnapshot
		if err := rows.Scan(&c.ID, &c.VenueID, &c.Title, &c.Artist, &c.Slug, &c.StartsAt, &c.EndsAt); err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		concerts = append(concerts, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate concerts: %w", rows.Err())
	}

	const ttQuery = `
SELECT tt.id, tt.concert_id, tt.zone_id, tt.kind, tt.slug, tt.price_cents, tt.sold,
       (SELECT COUNT(*) FROM sold_seats ss JOIN seats s ON s.id = ss.seat_id
        WHERE ss.concert_id = tt.concert_id AND s.zone_id = tt.zone_id) AS seats_taken
FROM ticket_types tt
ORDER BY tt.created_at ASC`

	ttRows, err := r.pool.Query(ctx, ttQuery)
	if err != nil {
		return nil, fmt.Errorf("snapshot ticket types: %w", err)
	}
	defer ttRows.Close()

	ttByConcert := make(map[string][]domain.TicketTypeSnapshot)
	for ttRows.Next() {
		var tt domain.TicketType
		var seatsTaken int
		if err := ttRows.Scan(&tt.ID, &tt.ConcertID, &tt.ZoneID, &tt.Kind, &tt.Slug, &tt.PriceCents, &tt.Sold, &seatsTaken); err != nil {
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}

		zone := zoneByID[tt.ZoneID]
		taken := seatsTaken
		if tt.Kind == domain.ZoneGeneral {
			taken = tt.Sold
		}
		avail := domain.NewAvailability(zone.TotalSeats(), taken)

		ttByConcert[tt.ConcertID] = append(ttByConcert[tt.ConcertID], domain.TicketTypeSnapshot{
			ID:         tt.ID,
			ZoneID:     tt.ZoneID,
			Kind:       tt.Kind,
			Slug:       tt.Slug,
			PriceCents: tt.PriceCents,
			Remaining:  avail.Remaining,
			SoldOut:    avail.SoldOut,
		})
	}
	if ttRows.Err() != nil {
		return nil, fmt.Errorf("iterate ticket types: %w", ttRows.Err())
	}

	for i := range concerts {
		types := ttByConcert[concerts[i].ID]
		concerts[i].TicketTypes = types
		soldOut := len(types) > 0
		for _, tt := range types {
			if !tt.SoldOut {
				soldOut = false
				break
			}
		}
		concerts[i].SoldOut = soldOut
	}
	return concerts, nil
}
