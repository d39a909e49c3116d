package postgres

import (
	"context"
	"fmt"

	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VenueRepository persists venues, zones and their seat grids.
type VenueRepository struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

// WithTx is lock-bounded: a structural edit stuck behind in-flight
// reservations fails with a retryable error instead of waiting indefinitely.
func (r *VenueRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withLockBoundedTx(ctx, r.pool, fn)
}

func (r *VenueRepository) CreateVenue(ctx context.Context, venue domain.Venue) error {
	const stmt = `
INSERT INTO venues (id, name, address, capacity, admission_mode)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, venue.ID, venue.Name, venue.Address, venue.Capacity, venue.Mode)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	const query = `SELECT id, name, address, capacity, admission_mode FROM venues WHERE id = $1`

	var v domain.Venue
	err := r.queryRow(ctx, query, venueID).Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.Mode)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Venue{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Venue{}, domain.ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

func (r *VenueRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	const query = `
SELECT id, name, address, capacity, admission_mode
FROM venues
ORDER BY created_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Capacity, &v.Mode); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate venues: %w", rows.Err())
	}
	return venues, nil
}

func (r *VenueRepository) CreateZone(ctx context.Context, zone domain.Zone) error {
	const stmt = `
INSERT INTO zones (id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt, zoneArgs(zone)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrZoneAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrVenueNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create zone: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetZone(ctx context.Context, venueID, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity
FROM zones
WHERE id = $1 AND venue_id = $2`

	zone, err := scanZone(r.queryRow(ctx, query, zoneID, venueID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return zone, nil
}

// GetZoneForUpdate locks the zone row for the duration of the transaction so
// structural edits and reservations against its seats cannot interleave.
func (r *VenueRepository) GetZoneForUpdate(ctx context.Context, venueID, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity
FROM zones
WHERE id = $1 AND venue_id = $2
FOR UPDATE`

	zone, err := scanZone(r.queryRow(ctx, query, zoneID, venueID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if isLockNotAvailable(err) {
			return domain.Zone{}, domain.ErrLockTimeout
		}
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return zone, nil
}

func (r *VenueRepository) UpdateZone(ctx context.Context, zone domain.Zone) error {
	const stmt = `
UPDATE zones
SET name = $2, slug = $3, kind = $4, row_start = $5, row_end = $6, seat_start = $7, seat_end = $8, capacity = $9
WHERE id = $1`

	args := zoneArgs(zone)
	// Drop venue_id: the zone's venue never changes.
	tag, err := r.exec(ctx, stmt, append([]any{args[0]}, args[2:]...)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrZoneAlreadyExists
		}
		return fmt.Errorf("update zone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrZoneNotFound
	}
	return nil
}

// UpdateZoneCapacity shrinks or grows a general zone's pool. The update is
// conditional on the new capacity covering every committed sale, so a
// concurrent reservation cannot slip under a reduction.
func (r *VenueRepository) UpdateZoneCapacity(ctx context.Context, zoneID string, capacity int) error {
	const stmt = `
UPDATE zones
SET capacity = $2
WHERE id = $1
  AND kind = 'general'
  AND $2 >= COALESCE((SELECT MAX(sold) FROM ticket_types WHERE zone_id = $1), 0)`

	tag, err := r.exec(ctx, stmt, zoneID, capacity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update zone capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM zones WHERE id = $1 AND kind = 'general')`, zoneID).Scan(&exists); err != nil {
			return fmt.Errorf("check zone: %w", err)
		}
		if !exists {
			return domain.ErrZoneNotFound
		}
		return domain.ErrCapacityViolation
	}
	return nil
}

func (r *VenueRepository) ListZonesByVenue(ctx context.Context, venueID string) ([]domain.Zone, error) {
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM venues WHERE id = $1)`
	var exists bool
	if err := r.queryRow(ctx, existsQuery, venueID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("check venue: %w", err)
	}
	if !exists {
		return nil, domain.ErrVenueNotFound
	}

	const query = `
SELECT id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity
FROM zones
WHERE venue_id = $1
ORDER BY created_at ASC`

	rows, err := r.query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, zone)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate zones: %w", rows.Err())
	}
	return zones, nil
}

// ZoneHasSales reports whether any seat of the zone has a sold-seat record
// for any concert. Used to refuse destructive grid regeneration.
func (r *VenueRepository) ZoneHasSales(ctx context.Context, zoneID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM sold_seats ss
	JOIN seats s ON s.id = ss.seat_id
	WHERE s.zone_id = $1
)`

	var has bool
	if err := r.queryRow(ctx, query, zoneID).Scan(&has); err != nil {
		return false, fmt.Errorf("check zone sales: %w", err)
	}
	return has, nil
}

func (r *VenueRepository) DeleteSeats(ctx context.Context, zoneID string) error {
	if _, err := r.exec(ctx, `DELETE FROM seats WHERE zone_id = $1`, zoneID); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrZoneHasSales
		}
		return fmt.Errorf("delete seats: %w", err)
	}
	return nil
}

// InsertSeats bulk-loads a freshly generated seat grid.
func (r *VenueRepository) InsertSeats(ctx context.Context, zoneID string, seats []domain.Seat) error {
	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []any{seat.ID, zoneID, seat.Row, seat.Number, seat.Identifier})
	}

	_, err := r.copyFrom(ctx,
		pgx.Identifier{"seats"},
		[]string{"id", "zone_id", "row_label", "number", "identifier"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("insert seats: %w", err)
	}
	return nil
}

func (r *VenueRepository) ListSeats(ctx context.Context, zoneID string) ([]domain.Seat, error) {
	const query = `
SELECT id, zone_id, row_label, number, identifier
FROM seats
WHERE zone_id = $1
ORDER BY row_label ASC, number ASC`

	rows, err := r.query(ctx, query, zoneID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.ZoneID, &s.Row, &s.Number, &s.Identifier); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate seats: %w", rows.Err())
	}
	return seats, nil
}

func zoneArgs(zone domain.Zone) []any {
	var rowStart, rowEnd *string
	var seatStart, seatEnd, capacity *int
	if zone.Seating != nil {
		rowStart = &zone.Seating.RowStart
		rowEnd = &zone.Seating.RowEnd
		seatStart = &zone.Seating.SeatStart
		seatEnd = &zone.Seating.SeatEnd
	}
	if zone.Kind == domain.ZoneGeneral {
		capacity = &zone.Capacity
	}
	return []any{zone.ID, zone.VenueID, zone.Name, zone.Slug, zone.Kind, rowStart, rowEnd, seatStart, seatEnd, capacity}
}

func scanZone(row pgx.Row) (domain.Zone, error) {
	var z domain.Zone
	var rowStart, rowEnd *string
	var seatStart, seatEnd, capacity *int

	err := row.Scan(&z.ID, &z.VenueID, &z.Name, &z.Slug, &z.Kind, &rowStart, &rowEnd, &seatStart, &seatEnd, &capacity)
	if err != nil {
		return domain.Zone{}, err
	}

	if z.Kind == domain.ZoneAssigned && rowStart != nil && rowEnd != nil && seatStart != nil && seatEnd != nil {
		z.Seating = &domain.SeatRange{
			RowStart:  *rowStart,
			RowEnd:    *rowEnd,
			SeatStart: *seatStart,
			SeatEnd:   *seatEnd,
		}
	}
	if capacity != nil {
		z.Capacity = *capacity
	}
	return z, nil
}

func (r *VenueRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *VenueRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *VenueRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *VenueRepository) copyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.CopyFrom(ctx, table, columns, src)
	}
	return r.pool.CopyFrom(ctx, table, columns, src)
}
