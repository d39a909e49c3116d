package app

import (
	"context"
	"time"

	"github.com/encorehall/boxoffice/internal/domain"
)

type ConcertRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateConcert(ctx context.Context, concert domain.Concert) error
	GetConcert(ctx context.Context, concertID string) (domain.Concert, error)
	GetConcertBySlug(ctx context.Context, slug string) (domain.Concert, error)
	ListConcerts(ctx context.Context) ([]domain.Concert, error)
	CreateTicketType(ctx context.Context, tt domain.TicketType) error
	ListTicketTypes(ctx context.Context, concertID string) ([]domain.TicketType, error)
	GetZone(ctx context.Context, zoneID string) (domain.Zone, error)
	GetVenue(ctx context.Context, venueID string) (domain.Venue, error)
	CountSoldSeats(ctx context.Context, concertID, zoneID string) (int, error)
}

// ConcertService manages concerts and their ticket type offers.
type ConcertService struct {
	repo  ConcertRepository
	snaps *Snapshotter
}

func NewConcertService(repo ConcertRepository, snaps *Snapshotter) *ConcertService {
	return &ConcertService{repo: repo, snaps: snaps}
}

type CreateConcertInput struct {
	VenueID     string
	Title       string
	Artist      string
	Genre       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
}

func (s *ConcertService) CreateConcert(ctx context.Context, in CreateConcertInput) (domain.Concert, error) {
	if in.Title == "" {
		return domain.Concert{}, domain.ErrConcertTitleRequired
	}
	if in.VenueID == "" {
		return domain.Concert{}, domain.ErrInvalidID
	}

	if _, err := s.repo.GetVenue(ctx, in.VenueID); err != nil {
		return domain.Concert{}, err
	}

	endsAt := in.EndsAt
	if endsAt.IsZero() {
		endsAt = in.StartsAt
	}

	concert := domain.Concert{
		ID:          newID(),
		VenueID:     in.VenueID,
		Title:       in.Title,
		Artist:      in.Artist,
		Slug:        slugify(in.Title),
		Genre:       in.Genre,
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      endsAt,
	}

	if err := s.repo.CreateConcert(ctx, concert); err != nil {
		return domain.Concert{}, err
	}
	s.snaps.Publish(ctx)
	return concert, nil
}

func (s *ConcertService) ListConcerts(ctx context.Context) ([]domain.Concert, error) {
	return s.repo.ListConcerts(ctx)
}

type CreateTicketTypeInput struct {
	ConcertID  string
	ZoneID     string
	Slug       string
	PriceCents int64
}

// CreateTicketType binds a zone to a concert at a price. The zone must
// belong to the concert's venue and its kind must be allowed by the venue's
// admission mode; both are verified before anything is written.
func (s *ConcertService) CreateTicketType(ctx context.Context, in CreateTicketTypeInput) (domain.TicketType, error) {
	if in.PriceCents < 0 {
		return domain.TicketType{}, domain.ErrInvalidPrice
	}

	concert, err := s.repo.GetConcert(ctx, in.ConcertID)
	if err != nil {
		return domain.TicketType{}, err
	}
	zone, err := s.repo.GetZone(ctx, in.ZoneID)
	if err != nil {
		return domain.TicketType{}, err
	}
	if zone.VenueID != concert.VenueID {
		return domain.TicketType{}, domain.ErrVenueMismatch
	}
	venue, err := s.repo.GetVenue(ctx, concert.VenueID)
	if err != nil {
		return domain.TicketType{}, err
	}
	if !venue.Mode.Allows(zone.Kind) {
		return domain.TicketType{}, domain.ErrAdmissionModeViolation
	}

	slug := in.Slug
	if slug == "" {
		slug = zone.Slug
	}

	tt := domain.TicketType{
		ID:         newID(),
		ConcertID:  concert.ID,
		ZoneID:     zone.ID,
		Kind:       zone.Kind,
		Slug:       slug,
		PriceCents: in.PriceCents,
	}

	if err := s.repo.CreateTicketType(ctx, tt); err != nil {
		return domain.TicketType{}, err
	}
	s.snaps.Publish(ctx)
	return tt, nil
}

// TicketTypeView pairs an offer with its derived availability.
type TicketTypeView struct {
	domain.TicketType
	domain.Availability
}

// ConcertDetail is a concert with its offers and their availability.
type ConcertDetail struct {
	Concert     domain.Concert
	TicketTypes []TicketTypeView
	SoldOut     bool
}

// GetConcertBySlug loads a concert and computes availability for each of its
// ticket types from ground truth.
func (s *ConcertService) GetConcertBySlug(ctx context.Context, slug string) (ConcertDetail, error) {
	concert, err := s.repo.GetConcertBySlug(ctx, slug)
	if err != nil {
		return ConcertDetail{}, err
	}

	types, err := s.repo.ListTicketTypes(ctx, concert.ID)
	if err != nil {
		return ConcertDetail{}, err
	}

	detail := ConcertDetail{Concert: concert, SoldOut: len(types) > 0}
	for _, tt := range types {
		avail, err := s.availability(ctx, tt)
		if err != nil {
			return ConcertDetail{}, err
		}
		if !avail.SoldOut {
			detail.SoldOut = false
		}
		detail.TicketTypes = append(detail.TicketTypes, TicketTypeView{TicketType: tt, Availability: avail})
	}
	return detail, nil
}

func (s *ConcertService) availability(ctx context.Context, tt domain.TicketType) (domain.Availability, error) {
	zone, err := s.repo.GetZone(ctx, tt.ZoneID)
	if err != nil {
		return domain.Availability{}, err
	}

	taken := tt.Sold
	if tt.Kind == domain.ZoneAssigned {
		taken, err = s.repo.CountSoldSeats(ctx, tt.ConcertID, tt.ZoneID)
		if err != nil {
			return domain.Availability{}, err
		}
	}
	return domain.NewAvailability(zone.TotalSeats(), taken), nil
}
