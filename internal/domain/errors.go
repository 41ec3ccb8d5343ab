package domain

import "errors"

// Sentinel errors returned by services and repositories. Handlers map these
// to HTTP statuses; nothing below the handler layer retries or translates.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("room unavailable")
	ErrInvalidRange       = errors.New("check-in must be before check-out")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPastDate           = errors.New("dates must not be in the past")
	ErrConflict           = errors.New("booking conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrActiveBookings     = errors.New("resource has active bookings")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("unknown role")
	ErrUnauthenticated    = errors.New("missing or invalid token")
)
