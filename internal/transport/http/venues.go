package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/encorehall/boxoffice/internal/app"
	"github.com/encorehall/boxoffice/internal/domain"
)

// VenueService is the minimal interface needed for venue and zone endpoints.
type VenueService interface {
	CreateVenue(ctx context.Context, in app.CreateVenueInput) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	CreateZone(ctx context.Context, in app.CreateZoneInput) (domain.Zone, error)
	UpdateZone(ctx context.Context, in app.UpdateZoneInput) (domain.Zone, error)
	ListZones(ctx context.Context, venueID string) ([]domain.Zone, error)
	ListSeats(ctx context.Context, venueID, zoneID string) ([]domain.Seat, error)
}

// HandleVenues returns an HTTP handler for venue creation and listing.
func HandleVenues(svc VenueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			venues, err := svc.ListVenues(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]venueResponse, 0, len(venues))
			for _, venue := range venues {
				resp = append(resp, toVenueResponse(venue))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createVenueRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			venue, err := svc.CreateVenue(r.Context(), app.CreateVenueInput{
				Name:     req.Name,
				Address:  req.Address,
				Capacity: req.Capacity,
				Mode:     req.AdmissionMode,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toVenueResponse(venue))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleVenueZones routes the zone subtree under a venue:
//
//	POST /venues/{id}/zones                create a zone
//	GET  /venues/{id}/zones                list zones
//	PUT  /venues/{id}/zones/{zoneID}       edit a zone's structure
//	GET  /venues/{id}/zones/{zoneID}/seats list an assigned zone's seats
func HandleVenueZones(svc VenueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venueID, zoneID, seats, ok := parseVenueZonesPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case seats:
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleListSeats(w, r, svc, venueID, zoneID)
		case zoneID != "":
			if r.Method != http.MethodPut {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleUpdateZone(w, r, svc, venueID, zoneID)
		default:
			switch r.Method {
			case http.MethodGet:
				handleListZones(w, r, svc, venueID)
			case http.MethodPost:
				handleCreateZone(w, r, svc, venueID)
			default:
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			}
		}
	}
}

func handleCreateZone(w http.ResponseWriter, r *http.Request, svc VenueService, venueID string) {
	var req zoneRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	zone, err := svc.CreateZone(r.Context(), app.CreateZoneInput{
		VenueID:  venueID,
		Name:     req.Name,
		Kind:     req.Type,
		Seating:  req.seatRange(),
		Capacity: req.Capacity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toZoneResponse(zone))
}

func handleListZones(w http.ResponseWriter, r *http.Request, svc VenueService, venueID string) {
	zones, err := svc.ListZones(r.Context(), venueID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]zoneResponse, 0, len(zones))
	for _, zone := range zones {
		resp = append(resp, toZoneResponse(zone))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func handleUpdateZone(w http.ResponseWriter, r *http.Request, svc VenueService, venueID, zoneID string) {
	var req zoneRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	zone, err := svc.UpdateZone(r.Context(), app.UpdateZoneInput{
		VenueID:  venueID,
		ZoneID:   zoneID,
		Name:     req.Name,
		Seating:  req.seatRange(),
		Capacity: req.Capacity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toZoneResponse(zone))
}

func handleListSeats(w http.ResponseWriter, r *http.Request, svc VenueService, venueID, zoneID string) {
	seats, err := svc.ListSeats(r.Context(), venueID, zoneID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]seatResponse, 0, len(seats))
	for _, seat := range seats {
		resp = append(resp, seatResponse{
			ID:         seat.ID,
			Row:        seat.Row,
			Number:     seat.Number,
			Identifier: seat.Identifier,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type createVenueRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	Capacity      int    `json:"capacity,omitempty"`
	AdmissionMode string `json:"admission_mode"`
}

type venueResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	Capacity      int    `json:"capacity,omitempty"`
	AdmissionMode string `json:"admission_mode"`
}

func toVenueResponse(venue domain.Venue) venueResponse {
	return venueResponse{
		ID:            venue.ID,
		Name:          venue.Name,
		Address:       venue.Address,
		Capacity:      venue.Capacity,
		AdmissionMode: string(venue.Mode),
	}
}

type seatRangeRequest struct {
	RowStart  string `json:"row_start"`
	RowEnd    string `json:"row_end"`
	SeatStart int    `json:"seat_start"`
	SeatEnd   int    `json:"seat_end"`
}

// zoneRequest serves both zone creation and zone edits. Seating and capacity
// are mutually exclusive shapes; type disambiguates when both appear.
type zoneRequest struct {
	Name     string            `json:"name"`
	Type     string            `json:"type,omitempty"`
	Seating  *seatRangeRequest `json:"seating,omitempty"`
	Capacity int               `json:"capacity,omitempty"`
}

func (r zoneRequest) seatRange() *domain.SeatRange {
	if r.Seating == nil {
		return nil
	}
	return &domain.SeatRange{
		RowStart:  r.Seating.RowStart,
		RowEnd:    r.Seating.RowEnd,
		SeatStart: r.Seating.SeatStart,
		SeatEnd:   r.Seating.SeatEnd,
	}
}

type seatRangeResponse struct {
	RowStart  string `json:"row_start"`
	RowEnd    string `json:"row_end"`
	SeatStart int    `json:"seat_start"`
	SeatEnd   int    `json:"seat_end"`
}

type zoneResponse struct {
	ID         string             `json:"id"`
	VenueID    string             `json:"venue_id"`
	Name       string             `json:"name"`
	Slug       string             `json:"slug"`
	Type       string             `json:"type"`
	Seating    *seatRangeResponse `json:"seating,omitempty"`
	Capacity   int                `json:"capacity,omitempty"`
	TotalSeats int                `json:"total_seats"`
}

func toZoneResponse(zone domain.Zone) zoneResponse {
	resp := zoneResponse{
		ID:         zone.ID,
		VenueID:    zone.VenueID,
		Name:       zone.Name,
		Slug:       zone.Slug,
		Type:       string(zone.Kind),
		Capacity:   zone.Capacity,
		TotalSeats: zone.TotalSeats(),
	}
	if zone.Seating != nil {
		resp.Seating = &seatRangeResponse{
			RowStart:  zone.Seating.RowStart,
			RowEnd:    zone.Seating.RowEnd,
			SeatStart: zone.Seating.SeatStart,
			SeatEnd:   zone.Seating.SeatEnd,
		}
	}
	return resp
}

type seatResponse struct {
	ID         string `json:"id"`
	Row        string `json:"row"`
	Number     int    `json:"number"`
	Identifier string `json:"identifier"`
}

// parseVenueZonesPath matches /venues/{id}/zones, /venues/{id}/zones/{zoneID}
// and /venues/{id}/zones/{zoneID}/seats.
func parseVenueZonesPath(path string) (venueID, zoneID string, seats, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || len(parts) > 5 {
		return "", "", false, false
	}
	if parts[0] != "venues" || parts[2] != "zones" || parts[1] == "" {
		return "", "", false, false
	}
	venueID = parts[1]
	if len(parts) == 3 {
		return venueID, "", false, true
	}
	if parts[3] == "" {
		return "", "", false, false
	}
	zoneID = parts[3]
	if len(parts) == 4 {
		return venueID, zoneID, false, true
	}
	if parts[4] != "seats" {
		return "", "", false, false
	}
	return venueID, zoneID, true, true
}
