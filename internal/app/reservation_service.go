package app

import (
	"context"
	"time"

	"github.com/encorehall/boxoffice/internal/clock"
	"github.com/encorehall/boxoffice/internal/domain"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTicketTypeForUpdate(ctx context.Context, concertID, slug string) (domain.TicketType, error)
	GetZone(ctx context.Context, zoneID string) (domain.Zone, error)
	ResolveSeats(ctx context.Context, zoneID string, identifiers []string) ([]domain.Seat, error)
	AnySeatSold(ctx context.Context, concertID string, seatIDs []string) (bool, error)
	InsertSoldSeats(ctx context.Context, concertID string, seatIDs []string, at time.Time) error
	CountSoldInZone(ctx context.Context, concertID, zoneID string) (int, error)
	IncrementSold(ctx context.Context, ticketTypeID string, quantity int) (int, error)
}

// ReservationService is the transactional core: it allocates specific seats
// for assigned offers and consumes capacity for general admission, and under
// concurrency never sells the same inventory twice.
type ReservationService struct {
	repo  ReservationRepository
	clock clock.Clock
	snaps *Snapshotter
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, snaps *Snapshotter) *ReservationService {
	return &ReservationService{repo: repo, clock: clk, snaps: snaps}
}

type ReserveSeatsInput struct {
	ConcertID      string
	TicketTypeSlug string
	SeatIDs        []string
}

// ReservationResult reports the outcome plus the offer's fresh availability.
type ReservationResult struct {
	ReservedSeats []string
	Remaining     int
	SoldOut       bool
}

// ReserveSeats allocates the requested seats for a concert in one
// transaction. The whole batch succeeds or fails: unknown identifiers reject
// it, a seat already sold rejects it, and the (concert, seat) uniqueness
// constraint settles any insert race in favor of exactly one transaction.
func (s *ReservationService) ReserveSeats(ctx context.Context, in ReserveSeatsInput) (ReservationResult, error) {
	if len(in.SeatIDs) == 0 {
		return ReservationResult{}, domain.ErrNoSeatsRequested
	}
	seen := make(map[string]struct{}, len(in.SeatIDs))
	for _, id := range in.SeatIDs {
		if _, dup := seen[id]; dup {
			return ReservationResult{}, domain.ErrDuplicateSeat
		}
		seen[id] = struct{}{}
	}

	now := s.clock.Now()
	var result ReservationResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		tt, err := s.repo.GetTicketTypeForUpdate(txCtx, in.ConcertID, in.TicketTypeSlug)
		if err != nil {
			return err
		}
		if tt.Kind != domain.ZoneAssigned {
			return domain.ErrZoneKindMismatch
		}

		seats, err := s.repo.ResolveSeats(txCtx, tt.ZoneID, in.SeatIDs)
		if err != nil {
			return err
		}
		if len(seats) != len(in.SeatIDs) {
			return domain.ErrSeatNotFound
		}

		seatIDs := make([]string, 0, len(seats))
		identifiers := make([]string, 0, len(seats))
		for _, seat := range seats {
			seatIDs = append(seatIDs, seat.ID)
			identifiers = append(identifiers, seat.Identifier)
		}

		sold, err := s.repo.AnySeatSold(txCtx, in.ConcertID, seatIDs)
		if err != nil {
			return err
		}
		if sold {
			return domain.ErrSeatAlreadySold
		}

		if err := s.repo.InsertSoldSeats(txCtx, in.ConcertID, seatIDs, now); err != nil {
			return err
		}

		avail, err := s.zoneAvailability(txCtx, in.ConcertID, tt.ZoneID)
		if err != nil {
			return err
		}

		result = ReservationResult{
			ReservedSeats: identifiers,
			Remaining:     avail.Remaining,
			SoldOut:       avail.SoldOut,
		}
		return nil
	})
	if err != nil {
		return ReservationResult{}, err
	}

	s.snaps.Publish(ctx)
	return result, nil
}

type ReserveGeneralInput struct {
	ConcertID      string
	TicketTypeSlug string
	Quantity       int
}

// ReserveGeneral consumes general-admission capacity with a single
// conditional increment: the sold counter only advances when the result
// still fits the zone's capacity, so concurrent requests cannot oversell.
func (s *ReservationService) ReserveGeneral(ctx context.Context, in ReserveGeneralInput) (ReservationResult, error) {
	if in.Quantity <= 0 {
		return ReservationResult{}, domain.ErrInvalidQuantity
	}

	var result ReservationResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		tt, err := s.repo.GetTicketTypeForUpdate(txCtx, in.ConcertID, in.TicketTypeSlug)
		if err != nil {
			return err
		}
		if tt.Kind != domain.ZoneGeneral {
			return domain.ErrZoneKindMismatch
		}

		sold, err := s.repo.IncrementSold(txCtx, tt.ID, in.Quantity)
		if err != nil {
			return err
		}

		zone, err := s.repo.GetZone(txCtx, tt.ZoneID)
		if err != nil {
			return err
		}

		avail := domain.NewAvailability(zone.TotalSeats(), sold)
		result = ReservationResult{Remaining: avail.Remaining, SoldOut: avail.SoldOut}
		return nil
	})
	if err != nil {
		return ReservationResult{}, err
	}

	s.snaps.Publish(ctx)
	return result, nil
}

func (s *ReservationService) zoneAvailability(ctx context.Context, concertID, zoneID string) (domain.Availability, error) {
	zone, err := s.repo.GetZone(ctx, zoneID)
	if err != nil {
		return domain.Availability{}, err
	}
	taken, err := s.repo.CountSoldInZone(ctx, concertID, zoneID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.NewAvailability(zone.TotalSeats(), taken), nil
}
