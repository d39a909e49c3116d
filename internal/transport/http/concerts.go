package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/encorehall/boxoffice/internal/app"
	"github.com/encorehall/boxoffice/internal/domain"
)

// ConcertService is the minimal interface needed for concert endpoints.
type ConcertService interface {
	CreateConcert(ctx context.Context, in app.CreateConcertInput) (domain.Concert, error)
	ListConcerts(ctx context.Context) ([]domain.Concert, error)
	CreateTicketType(ctx context.Context, in app.CreateTicketTypeInput) (domain.TicketType, error)
	GetConcertBySlug(ctx context.Context, slug string) (app.ConcertDetail, error)
}

// ReservationService is the minimal interface needed for reservation endpoints.
type ReservationService interface {
	ReserveSeats(ctx context.Context, in app.ReserveSeatsInput) (app.ReservationResult, error)
	ReserveGeneral(ctx context.Context, in app.ReserveGeneralInput) (app.ReservationResult, error)
}

// HandleConcerts returns an HTTP handler for concert creation and listing.
func HandleConcerts(svc ConcertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			concerts, err := svc.ListConcerts(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]concertResponse, 0, len(concerts))
			for _, concert := range concerts {
				resp = append(resp, toConcertResponse(concert))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createConcertRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			var startsAt, endsAt time.Time
			if req.StartsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.StartsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
					return
				}
				startsAt = parsed
			}
			if req.EndsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.EndsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid ends_at format")
					return
				}
				endsAt = parsed
			}

			concert, err := svc.CreateConcert(r.Context(), app.CreateConcertInput{
				VenueID:     req.VenueID,
				Title:       req.Title,
				Artist:      req.Artist,
				Genre:       req.Genre,
				Description: req.Description,
				StartsAt:    startsAt,
				EndsAt:      endsAt,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toConcertResponse(concert))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleConcertResources routes the subtree under a single concert:
//
//	GET  /concerts/{slug}              concert detail with availability
//	POST /concerts/{id}/ticket-types   attach a zone as an offer
//	POST /concerts/{id}/reservations   reserve seats or capacity
func HandleConcertResources(concerts ConcertService, reservations ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, resource, ok := parseConcertPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch resource {
		case "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleConcertDetail(w, r, concerts, key)
		case "ticket-types":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleCreateTicketType(w, r, concerts, key)
		case "reservations":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleCreateReservation(w, r, reservations, key)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleConcertDetail(w http.ResponseWriter, r *http.Request, svc ConcertService, slug string) {
	detail, err := svc.GetConcertBySlug(r.Context(), slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := concertDetailResponse{
		concertResponse: toConcertResponse(detail.Concert),
		TicketTypes:     make([]ticketTypeResponse, 0, len(detail.TicketTypes)),
		IsSoldOut:       detail.SoldOut,
	}
	for _, tt := range detail.TicketTypes {
		resp.TicketTypes = append(resp.TicketTypes, ticketTypeResponse{
			ID:         tt.ID,
			ZoneID:     tt.ZoneID,
			Type:       string(tt.Kind),
			Slug:       tt.Slug,
			PriceCents: tt.PriceCents,
			Remaining:  tt.Remaining,
			IsSoldOut:  tt.SoldOut,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func handleCreateTicketType(w http.ResponseWriter, r *http.Request, svc ConcertService, concertID string) {
	var req createTicketTypeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	tt, err := svc.CreateTicketType(r.Context(), app.CreateTicketTypeInput{
		ConcertID:  concertID,
		ZoneID:     req.ZoneID,
		Slug:       req.Slug,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := ticketTypeResponse{
		ID:         tt.ID,
		ZoneID:     tt.ZoneID,
		Type:       string(tt.Kind),
		Slug:       tt.Slug,
		PriceCents: tt.PriceCents,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

func handleCreateReservation(w http.ResponseWriter, r *http.Request, svc ReservationService, concertID string) {
	var req createReservationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if len(req.SeatIDs) > 0 && req.Quantity > 0 {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "seat_ids and quantity are mutually exclusive")
		return
	}

	var (
		result app.ReservationResult
		err    error
	)
	if req.SeatIDs != nil {
		result, err = svc.ReserveSeats(r.Context(), app.ReserveSeatsInput{
			ConcertID:      concertID,
			TicketTypeSlug: req.TicketTypeSlug,
			SeatIDs:        req.SeatIDs,
		})
	} else {
		result, err = svc.ReserveGeneral(r.Context(), app.ReserveGeneralInput{
			ConcertID:      concertID,
			TicketTypeSlug: req.TicketTypeSlug,
			Quantity:       req.Quantity,
		})
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := reservationResponse{
		ReservedSeats: result.ReservedSeats,
		Remaining:     result.Remaining,
		IsSoldOut:     result.SoldOut,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

type createConcertRequest struct {
	VenueID     string `json:"venue_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Description string `json:"description,omitempty"`
	StartsAt    string `json:"starts_at,omitempty"`
	EndsAt      string `json:"ends_at,omitempty"`
}

type concertResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist,omitempty"`
	Slug        string    `json:"slug"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

func toConcertResponse(concert domain.Concert) concertResponse {
	return concertResponse{
		ID:          concert.ID,
		VenueID:     concert.VenueID,
		Title:       concert.Title,
		Artist:      concert.Artist,
		Slug:        concert.Slug,
		Genre:       concert.Genre,
		Description: concert.Description,
		StartsAt:    concert.StartsAt,
		EndsAt:      concert.EndsAt,
	}
}

type concertDetailResponse struct {
	concertResponse
	TicketTypes []ticketTypeResponse `json:"ticket_types"`
	IsSoldOut   bool                 `json:"is_sold_out"`
}

type createTicketTypeRequest struct {
	ZoneID     string `json:"zone_id"`
	Slug       string `json:"slug,omitempty"`
	PriceCents int64  `json:"price_cents"`
}

type ticketTypeResponse struct {
	ID         string `json:"id"`
	ZoneID     string `json:"zone_id"`
	Type       string `json:"type"`
	Slug       string `json:"slug"`
	PriceCents int64  `json:"price_cents"`
	Remaining  int    `json:"remaining"`
	IsSoldOut  bool   `json:"is_sold_out"`
}

type createReservationRequest struct {
	TicketTypeSlug string   `json:"ticket_type_slug"`
	SeatIDs        []string `json:"seat_ids,omitempty"`
	Quantity       int      `json:"quantity,omitempty"`
}

type reservationResponse struct {
	ReservedSeats []string `json:"reserved_seats,omitempty"`
	Remaining     int      `json:"remaining"`
	IsSoldOut     bool     `json:"is_sold_out"`
}

// parseConcertPath matches /concerts/{key} and /concerts/{key}/{resource}.
// The key is a slug for detail lookups and a concert ID for the nested
// collections.
func parseConcertPath(path string) (key, resource string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", false
	}
	if parts[0] != "concerts" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
