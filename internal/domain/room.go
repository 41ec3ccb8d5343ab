package domain

import (
	"time"

	"github.com/google/uuid"
)

// Room belongs to exactly one hotel. Available is a manual switch set by the
// owner ("closed for maintenance"); it is never derived from booking state.
type Room struct {
	ID            uuid.UUID
	HotelID       uuid.UUID
	Title         string
	Description   *string
	PricePerNight float64
	Capacity      int
	Available     bool
	CreatedAt     time.Time
}

// RoomUpdate carries the mutable attributes of a room; nil fields are left
// untouched.
type RoomUpdate struct {
	Title         *string
	Description   *string
	PricePerNight *float64
	Capacity      *int
}
