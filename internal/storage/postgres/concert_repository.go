package postgres

import (
	"context"
	"fmt"

	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConcertRepository persists concerts and their ticket types.
type ConcertRepository struct {
	pool *pgxpool.Pool
}

func NewConcertRepository(pool *pgxpool.Pool) *ConcertRepository {
	return &ConcertRepository{pool: pool}
}

func (r *ConcertRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ConcertRepository) CreateConcert(ctx context.Context, concert domain.Concert) error {
	const stmt = `
INSERT INTO concerts (id, venue_id, title, artist, slug, genre, description, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		concert.ID,
		concert.VenueID,
		concert.Title,
		concert.Artist,
		concert.Slug,
		concert.Genre,
		concert.Description,
		concert.StartsAt,
		concert.EndsAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrVenueNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrConcertAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create concert: %w", err)
	}
	return nil
}

func (r *ConcertRepository) GetConcert(ctx context.Context, concertID string) (domain.Concert, error) {
	const query = `
SELECT id, venue_id, title, artist, slug, genre, description, starts_at, ends_at
FROM concerts
WHERE id = $1`

	return r.getConcert(ctx, query, concertID)
}

func (r *ConcertRepository) GetConcertBySlug(ctx context.Context, slug string) (domain.Concert, error) {
	const query = `
SELECT id, venue_id, title, artist, slug, genre, description, starts_at, ends_at
FROM concerts
WHERE slug = $1`

	return r.getConcert(ctx, query, slug)
}

func (r *ConcertRepository) getConcert(ctx context.Context, query, arg string) (domain.Concert, error) {
	var c domain.Concert
	err := r.queryRow(ctx, query, arg).Scan(
		&c.ID, &c.VenueID, &c.Title, &c.Artist, &c.Slug, &c.Genre, &c.Description, &c.StartsAt, &c.EndsAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Concert{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Concert{}, domain.ErrConcertNotFound
		}
		return domain.Concert{}, fmt.Errorf("get concert: %w", err)
	}
	return c, nil
}

func (r *ConcertRepository) ListConcerts(ctx context.Context) ([]domain.Concert, error) {
	const query = `
SELECT id, venue_id, title, artist, slug, genre, description, starts_at, ends_at
FROM concerts
ORDER BY starts_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list concerts: %w", err)
	}
	defer rows.Close()

	var concerts []domain.Concert
	for rows.Next() {
		var c domain.Concert
		if err := rows.Scan(&c.ID, &c.VenueID, &c.Title, &c.Artist, &c.Slug, &c.Genre, &c.Description, &c.StartsAt, &c.EndsAt); err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		concerts = append(concerts, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate concerts: %w", rows.Err())
	}
	return concerts, nil
}

func (r *ConcertRepository) CreateTicketType(ctx context.Context, tt domain.TicketType) error {
	const stmt = `
INSERT INTO ticket_types (id, concert_id, zone_id, kind, slug, price_cents, sold)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt, tt.ID, tt.ConcertID, tt.ZoneID, tt.Kind, tt.Slug, tt.PriceCents, tt.Sold)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTicketTypeExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrConcertNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create ticket type: %w", err)
	}
	return nil
}

func (r *ConcertRepository) ListTicketTypes(ctx context.Context, concertID string) ([]domain.TicketType, error) {
	const query = `
SELECT id, concert_id, zone_id, kind, slug, price_cents, sold
FROM ticket_types
WHERE concert_id = $1
ORDER BY created_at ASC`

	rows, err := r.query(ctx, query, concertID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()

	var types []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(&tt.ID, &tt.ConcertID, &tt.ZoneID, &tt.Kind, &tt.Slug, &tt.PriceCents, &tt.Sold); err != nil {
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}
		types = append(types, tt)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate ticket types: %w", rows.Err())
	}
	return types, nil
}

func (r *ConcertRepository) GetZone(ctx context.Context, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, venue_id, name, slug, kind, row_start, row_end, seat_start, seat_end, capacity
FROM zones
WHERE id = $1`

	zone, err := scanZone(r.queryRow(ctx, query, zoneID))
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

func (r *ConcertRepository) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
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

// CountSoldSeats counts sold-seat records for a concert within one zone.
// This is the ground truth behind assigned-seat availability.
func (r *ConcertRepository) CountSoldSeats(ctx context.Context, concertID, zoneID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM sold_seats ss
JOIN seats s ON s.id = ss.seat_id
WHERE ss.concert_id = $1 AND s.zone_id = $2`

	var count int
	if err := r.queryRow(ctx, query, concertID, zoneID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sold seats: %w", err)
	}
	return count, nil
}

func (r *ConcertRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ConcertRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ConcertRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
