package http

import (
	"encoding/json"
	"net/http"

	"github.com/encorehall/boxoffice/internal/domain"
)

const (
	codeMethodNotAllowed       = "method_not_allowed"
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidStartsAt        = "invalid_starts_at"
	codeInvalidID              = "invalid_id"
	codeVenueNameRequired      = "venue_name_required"
	codeZoneNameRequired       = "zone_name_required"
	codeConcertTitleRequired   = "concert_title_required"
	codeInvalidAdmissionMode   = "invalid_admission_mode"
	codeInvalidSeatRange       = "invalid_seat_range"
	codeInvalidCapacity        = "invalid_capacity"
	codeInvalidQuantity        = "invalid_quantity"
	codeInvalidPrice           = "invalid_price"
	codeInvalidZoneShape       = "invalid_zone_shape"
	codeZoneTypeRequired       = "zone_type_required"
	codeNoSeatsRequested       = "no_seats_requested"
	codeDuplicateSeat          = "duplicate_seat"
	codeVenueNotFound          = "venue_not_found"
	codeZoneNotFound           = "zone_not_found"
	codeConcertNotFound        = "concert_not_found"
	codeTicketTypeNotFound     = "ticket_type_not_found"
	codeSeatNotFound           = "seat_not_found"
	codeSeatAlreadySold        = "seat_already_sold"
	codeSoldOut                = "sold_out"
	codeCapacityViolation      = "capacity_violation"
	codeAdmissionModeViolation = "admission_mode_violation"
	codeZoneKindMismatch       = "zone_kind_mismatch"
	codeVenueMismatch          = "venue_mismatch"
	codeZoneHasSales           = "zone_has_sales"
	codeZoneAlreadyExists      = "zone_already_exists"
	codeConcertAlreadyExists   = "concert_already_exists"
	codeTicketTypeExists       = "ticket_type_already_exists"
	codeLockTimeout            = "lock_timeout"
	codeForbidden              = "forbidden"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service-layer sentinel errors onto the HTTP error
// taxonomy: validation 400, not found 404, conflict 409, lock timeout 503.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrVenueNameRequired:
		writeError(w, http.StatusBadRequest, codeVenueNameRequired, err.Error())
	case domain.ErrZoneNameRequired:
		writeError(w, http.StatusBadRequest, codeZoneNameRequired, err.Error())
	case domain.ErrConcertTitleRequired:
		writeError(w, http.StatusBadRequest, codeConcertTitleRequired, err.Error())
	case domain.ErrInvalidAdmissionMode:
		writeError(w, http.StatusBadRequest, codeInvalidAdmissionMode, err.Error())
	case domain.ErrInvalidSeatRange:
		writeError(w, http.StatusBadRequest, codeInvalidSeatRange, err.Error())
	case domain.ErrInvalidCapacity:
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidZoneShape:
		writeError(w, http.StatusBadRequest, codeInvalidZoneShape, err.Error())
	case domain.ErrZoneKindRequired:
		writeError(w, http.StatusBadRequest, codeZoneTypeRequired, err.Error())
	case domain.ErrNoSeatsRequested:
		writeError(w, http.StatusBadRequest, codeNoSeatsRequested, err.Error())
	case domain.ErrDuplicateSeat:
		writeError(w, http.StatusBadRequest, codeDuplicateSeat, err.Error())
	case domain.ErrVenueNotFound:
		writeError(w, http.StatusNotFound, codeVenueNotFound, err.Error())
	case domain.ErrZoneNotFound:
		writeError(w, http.StatusNotFound, codeZoneNotFound, err.Error())
	case domain.ErrConcertNotFound:
		writeError(w, http.StatusNotFound, codeConcertNotFound, err.Error())
	case domain.ErrTicketTypeNotFound:
		writeError(w, http.StatusNotFound, codeTicketTypeNotFound, err.Error())
	case domain.ErrSeatNotFound:
		writeError(w, http.StatusNotFound, codeSeatNotFound, err.Error())
	case domain.ErrSeatAlreadySold:
		writeError(w, http.StatusConflict, codeSeatAlreadySold, err.Error())
	case domain.ErrSoldOut:
		writeError(w, http.StatusConflict, codeSoldOut, err.Error())
	case domain.ErrCapacityViolation:
		writeError(w, http.StatusConflict, codeCapacityViolation, err.Error())
	case domain.ErrAdmissionModeViolation:
		writeError(w, http.StatusConflict, codeAdmissionModeViolation, err.Error())
	case domain.ErrZoneKindMismatch:
		writeError(w, http.StatusConflict, codeZoneKindMismatch, err.Error())
	case domain.ErrVenueMismatch:
		writeError(w, http.StatusConflict, codeVenueMismatch, err.Error())
	case domain.ErrZoneHasSales:
		writeError(w, http.StatusConflict, codeZoneHasSales, err.Error())
	case domain.ErrZoneAlreadyExists:
		writeError(w, http.StatusConflict, codeZoneAlreadyExists, err.Error())
	case domain.ErrConcertAlreadyExists:
		writeError(w, http.StatusConflict, codeConcertAlreadyExists, err.Error())
	case domain.ErrTicketTypeExists:
		writeError(w, http.StatusConflict, codeTicketTypeExists, err.Error())
	case domain.ErrLockTimeout:
		writeError(w, http.StatusServiceUnavailable, codeLockTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
