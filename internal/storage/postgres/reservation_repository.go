package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository backs the reservation engine. All of its methods are
// meant to run inside a single lock-bounded transaction: the unique
// constraint on (concert_id, seat_id) is the final race guard, and FOR UPDATE
// on the ticket type row serializes reservations against the same offer.
type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withLockBoundedTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) GetTicketTypeForUpdate(ctx context.Context, concertID, slug string) (domain.TicketType, error) {
	const query = `
SELECT id, concert_id, zone_id, kind, slug, price_cents, sold
FROM ticket_types
WHERE concert_id = $1 AND slug = $2
FOR UPDATE`

	var tt domain.TicketType
	err := r.queryRow(ctx, query, concertID, slug).
		Scan(&tt.ID, &tt.ConcertID, &tt.ZoneID, &tt.Kind, &tt.Slug, &tt.PriceCents, &tt.Sold)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TicketType{}, domain.ErrInvalidID
		}
		if isLockNotAvailable(err) {
			return domain.TicketType{}, domain.ErrLockTimeout
		}
		if err == pgx.ErrNoRows {
			return domain.TicketType{}, domain.ErrTicketTypeNotFound
		}
		return domain.TicketType{}, fmt.Errorf("get ticket type: %w", err)
	}
	return tt, nil
}

func (r *ReservationRepository) GetZone(ctx context.Context, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity
FROM zones
WHERE id = $1`

	zone, err := scanZone(r.queryRow(ctx, query, zoneID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return zone, nil
}

// ResolveSeats maps public seat identifiers to seat rows within one zone.
// Identifiers that do not exist simply produce fewer rows; the caller
// compares counts to detect unknown seats.
func (r *ReservationRepository) ResolveSeats(ctx context.Context, zoneID string, identifiers []string) ([]domain.Seat, error) {
	const query = `
SELECT id, zone_id, row_label, number, identifier
FROM seats
WHERE zone_id = $1 AND identifier = ANY($2)`

	rows, err := r.query(ctx, query, zoneID, identifiers)
	if err != nil {
		return nil, fmt.Errorf("resolve seats: %w", err)
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

// AnySeatSold reports whether any of the given seats already has a sold-seat
// record for the concert. A pre-check only: the insert still carries the
// authoritative constraint.
func (r *ReservationRepository) AnySeatSold(ctx context.Context, concertID string, seatIDs []string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM sold_seats
	WHERE concert_id = $1 AND seat_id = ANY($2)
)`

	var sold bool
	if err := r.queryRow(ctx, query, concertID, seatIDs).Scan(&sold); err != nil {
		if isLockNotAvailable(err) {
			return false, domain.ErrLockTimeout
		}
		return false, fmt.Errorf("check sold seats: %w", err)
	}
	return sold, nil
}

// InsertSoldSeats writes one sold-seat record per seat. A unique violation
// means a concurrent transaction won the race for at least one seat; the
// whole batch fails and rolls back.
func (r *ReservationRepository) InsertSoldSeats(ctx context.Context, concertID string, seatIDs []string, at time.Time) error {
	batch := &pgx.Batch{}
	const stmt = `INSERT INTO sold_seats (concert_id, seat_id, created_at) VALUES ($1, $2, $3)`
	for _, seatID := range seatIDs {
		batch.Queue(stmt, concertID, seatID, at)
	}

	if err := r.sendBatch(ctx, batch); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSeatAlreadySold
		}
		if isLockNotAvailable(err) {
			return domain.ErrLockTimeout
		}
		return fmt.Errorf("insert sold seats: %w", err)
	}
	return nil
}

// CountSoldInZone counts the concert's sold seats within one zone.
func (r *ReservationRepository) CountSoldInZone(ctx context.Context, concertID, zoneID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM sold_seats ss
JOIN seats s ON s.id = ss.seat_id
WHERE ss.concert_id = $1 AND s.zone_id = $2`

	var count int
	if err := r.queryRow(ctx, query, concertID, zoneID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sold in zone: %w", err)
	}
	return count, nil
}

// IncrementSold is the general-admission compare-and-increment: the sold
// counter only moves when the result still fits the zone's capacity. Zero
// rows affected with the ticket type present means the pool is exhausted.
func (r *ReservationRepository) IncrementSold(ctx context.Context, ticketTypeID string, quantity int) (int, error) {
	const stmt = `
UPDATE ticket_types tt
SET sold = tt.sold + $2
FROM zones z
WHERE tt.id = $1
  AND z.id = tt.zone_id
  AND tt.sold + $2 <= z.capacity
RETURNING tt.sold`

	var sold int
	err := r.queryRow(ctx, stmt, ticketTypeID, quantity).Scan(&sold)
	if err != nil {
		if isLockNotAvailable(err) {
			return 0, domain.ErrLockTimeout
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrSoldOut
		}
		return 0, fmt.Errorf("increment sold: %w", err)
	}
	return sold, nil
}

func (r *ReservationRepository) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	var results pgx.BatchResults
	if tx := txFromContext(ctx); tx != nil {
		results = tx.SendBatch(ctx, batch)
	} else {
		results = r.pool.SendBatch(ctx, batch)
	}
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
