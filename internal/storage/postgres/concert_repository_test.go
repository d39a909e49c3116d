package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/encorehall/boxoffice/internal/testutil"
)

func TestConcertRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewConcertRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateConcert round trip and duplicate slug", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		venueID := testutil.InsertVenue(t, ctx, pool, "Encore Hall", "mixed")

		starts := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
		concert := domain.Concert{
			ID:       uuid.NewString(),
			VenueID:  venueID,
			Title:    "Summer Night",
			Artist:   "The Band",
			Slug:     "summer-night",
			StartsAt: starts,
			EndsAt:   starts.Add(3 * time.Hour),
		}
		if err := repo.CreateConcert(ctx, concert); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetConcertBySlug(ctx, "summer-night")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ID != concert.ID || got.Artist != "The Band" || !got.StartsAt.Equal(starts) {
			t.Fatalf("unexpected concert: %+v", got)
		}

		dup := concert
		dup.ID = uuid.NewString()
		if err := repo.CreateConcert(ctx, dup); err != domain.ErrConcertAlreadyExists {
			t.Fatalf("expected ErrConcertAlreadyExists, got %v", err)
		}

		if _, err := repo.GetConcertBySlug(ctx, "missing"); err != domain.ErrConcertNotFound {
			t.Fatalf("expected ErrConcertNotFound, got %v", err)
		}
	})

	t.Run("CreateConcert rejects unknown venue", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		concert := domain.Concert{
			ID:       uuid.NewString(),
			VenueID:  uuid.NewString(),
			Title:    "Orphan",
			Slug:     "orphan",
			StartsAt: time.Now().UTC(),
			EndsAt:   time.Now().UTC(),
		}
		if err := repo.CreateConcert(ctx, concert); err != domain.ErrVenueNotFound {
			t.Fatalf("expected ErrVenueNotFound, got %v", err)
		}
	})

	t.Run("CreateTicketType enforces one offer per slug", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		venueID := testutil.InsertVenue(t, ctx, pool, "Encore Hall", "mixed")
		zoneID := testutil.InsertGeneralZone(t, ctx, pool, venueID, "floor", 100)
		concertID := testutil.InsertConcert(t, ctx, pool, venueID, "Summer Night", "summer-night")

		tt := domain.TicketType{
			ID:         uuid.NewString(),
			ConcertID:  concertID,
			ZoneID:     zoneID,
			Kind:       domain.ZoneGeneral,
			Slug:       "floor",
			PriceCents: 3000,
		}
		if err := repo.CreateTicketType(ctx, tt); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		dup := tt
		dup.ID = uuid.NewString()
		if err := repo.CreateTicketType(ctx, dup); err != domain.ErrTicketTypeExists {
			t.Fatalf("expected ErrTicketTypeExists, got %v", err)
		}

		types, err := repo.ListTicketTypes(ctx, concertID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(types) != 1 || types[0].PriceCents != 3000 {
			t.Fatalf("unexpected ticket types: %+v", types)
		}
	})

	t.Run("CountSoldSeats scopes to concert and zone", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		venueID := testutil.InsertVenue(t, ctx, pool, "Encore Hall", "assigned")
		zoneID := testutil.InsertAssignedZone(t, ctx, pool, venueID, "front", 'A', 'A', 1, 4)
		otherZoneID := testutil.InsertAssignedZone(t, ctx, pool, venueID, "back", 'B', 'B', 1, 4)
		concertID := testutil.InsertConcert(t, ctx, pool, venueID, "Summer Night", "summer-night")
		otherConcertID := testutil.InsertConcert(t, ctx, pool, venueID, "Winter Night", "winter-night")

		rows, err := pool.Query(ctx, `SELECT id, zone_id FROM seats WHERE zone_id = ANY($1)`, []string{zoneID, otherZoneID})
		if err != nil {
			t.Fatalf("load seats: %v", err)
		}
		seatsByZone := make(map[string][]string)
		for rows.Next() {
			var id, zid string
			if err := rows.Scan(&id, &zid); err != nil {
				t.Fatalf("scan seat: %v", err)
			}
			seatsByZone[zid] = append(seatsByZone[zid], id)
		}
		rows.Close()

		// Two in the target concert+zone, one in another zone, one in another concert.
		for _, seatID := range seatsByZone[zoneID][:2] {
			if _, err := pool.Exec(ctx, `INSERT INTO sold_seats (concert_id, seat_id) VALUES ($1, $2)`, concertID, seatID); err != nil {
				t.Fatalf("insert sold seat: %v", err)
			}
		}
		if _, err := pool.Exec(ctx, `INSERT INTO sold_seats (concert_id, seat_id) VALUES ($1, $2)`, concertID, seatsByZone[otherZoneID][0]); err != nil {
			t.Fatalf("insert sold seat: %v", err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO sold_seats (concert_id, seat_id) VALUES ($1, $2)`, otherConcertID, seatsByZone[zoneID][2]); err != nil {
			t.Fatalf("insert sold seat: %v", err)
		}

		count, err := repo.CountSoldSeats(ctx, concertID, zoneID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if count != 2 {
			t.Fatalf("expected 2 sold seats, got %d", count)
		}
	})
}
