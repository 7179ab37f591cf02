package bookings

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the wire name of a reservation failure.
type Kind string

const (
	KindUnauthorized           Kind = "unauthorized"
	KindInvalidSeatRequest     Kind = "invalid_seat_request"
	KindFlightUnavailable      Kind = "flight_unavailable"
	KindSeatConflict           Kind = "seat_conflict"
	KindReservationUnavailable Kind = "reservation_unavailable"
)

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrUnauthorized           = &Error{Kind: KindUnauthorized}
	ErrInvalidSeatRequest     = &Error{Kind: KindInvalidSeatRequest}
	ErrFlightUnavailable      = &Error{Kind: KindFlightUnavailable}
	ErrSeatConflict           = &Error{Kind: KindSeatConflict}
	ErrReservationUnavailable = &Error{Kind: KindReservationUnavailable}
)

// Store-level errors. The coordinator translates them into an *Error.
var (
	ErrStaleVersion    = errors.New("occupancy version changed")
	ErrFlightCancelled = errors.New("flight is cancelled")
	ErrBookingNotFound = errors.New("booking not found")
)

// Error is the outcome of a reserve call that did not produce a booking.
type Error struct {
	Kind             Kind
	ConflictingSeats []string
	Err              error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func newConflict(seats []string) *Error {
	return &Error{Kind: KindSeatConflict, ConflictingSeats: seats}
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindSeatConflict && len(e.ConflictingSeats) > 0:
		return fmt.Sprintf("%s: seats already booked: %s", e.Kind, strings.Join(e.ConflictingSeats, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ParseKind accepts the wire names above; ok is false for anything else.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindUnauthorized, KindInvalidSeatRequest, KindFlightUnavailable, KindSeatConflict, KindReservationUnavailable:
		return k, true
	}
	return "", false
}

// HTTPStatus maps a kind to the status code used by the bookings API.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidSeatRequest:
		return http.StatusBadRequest
	case KindFlightUnavailable:
		return http.StatusUnprocessableEntity
	case KindSeatConflict:
		return http.StatusConflict
	case KindReservationUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// KindFromStatus is the inverse of HTTPStatus for clients that did not get
// a kind in the body.
func KindFromStatus(code int) (Kind, bool) {
	switch code {
	case http.StatusUnauthorized:
		return KindUnauthorized, true
	case http.StatusBadRequest:
		return KindInvalidSeatRequest, true
	case http.StatusUnprocessableEntity, http.StatusNotFound:
		return KindFlightUnavailable, true
	case http.StatusConflict:
		return KindSeatConflict, true
	case http.StatusServiceUnavailable:
		return KindReservationUnavailable, true
	}
	return "", false
}
