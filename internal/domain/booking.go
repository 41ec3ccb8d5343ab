package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is a closed set. A booking is created confirmed, may move to
// cancelled once, and is never deleted.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	UserID    uuid.UUID
	CheckIn   time.Time // date, UTC midnight
	CheckOut  time.Time // date, UTC midnight; exclusive
	Status    BookingStatus
	CreatedAt time.Time
}

// Overlaps reports whether the half-open date ranges [a0,a1) and [b0,b1)
// intersect. A range that ends exactly where the other begins does not
// overlap, so back-to-back bookings on the same day are allowed.
func Overlaps(a0, a1, b0, b1 time.Time) bool {
	return a0.Before(b1) && b0.Before(a1)
}

// DateOf truncates t to UTC midnight. Bookings carry dates, not instants.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
