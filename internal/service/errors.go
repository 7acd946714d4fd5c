// Package service holds the hotel's business operations: availability,
// booking, the service/staff request lifecycle, guest preferences and
// login. Every failure a client can cause is reported as an *Error whose
// Kind decides the HTTP status at the boundary.
package service

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is a domain error. Sentinels below are wrapped with detail via
// fmt.Errorf("%w: ...") and recovered with errors.As.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrMissingParameter = newError(KindInvalid, "MissingParameter", "checkIn and checkOut dates are required")
	ErrInvalidDate      = newError(KindInvalid, "InvalidDate", "invalid date format")
	ErrInvalidRange     = newError(KindInvalid, "InvalidRange", "check-out date must be after check-in date")
	ErrMissingFields    = newError(KindInvalid, "MissingFields", "missing required fields")
	ErrMissingField     = newError(KindInvalid, "MissingField", "missing required field")

	ErrRoomNotFound    = newError(KindNotFound, "RoomNotFound", "room not found")
	ErrRoomUnavailable = newError(KindInvalid, "RoomUnavailable", "room is not available")
	ErrBookingConflict = newError(KindConflict, "BookingConflict", "room is already booked for those dates")

	ErrNotFound         = newError(KindNotFound, "NotFound", "request not found")
	ErrAlreadyCompleted = newError(KindInvalid, "AlreadyCompleted", "request already completed")

	ErrGuestNotFound   = newError(KindNotFound, "GuestNotFound", "guest not found")
	ErrNoDevicesInRoom = newError(KindNotFound, "NoDevicesInRoom", "no devices in that room")

	ErrUnauthorized = newError(KindUnauthorized, "Unauthorized", "invalid credentials")
	ErrForbidden    = newError(KindForbidden, "Forbidden", "forbidden")
)

// AsError extracts the domain error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
