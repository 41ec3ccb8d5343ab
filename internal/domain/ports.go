package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

type HotelRepository interface {
	Create(ctx context.Context, h Hotel) error
	Update(ctx context.Context, h Hotel) error
	// Delete removes the hotel and, via FK cascade, its rooms.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Hotel, error)
	ListAll(ctx context.Context) ([]Hotel, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Hotel, error)
}

type RoomRepository interface {
	Create(ctx context.Context, r Room) error
	Update(ctx context.Context, r Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Room, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]Room, error)
	ListAvailable(ctx context.Context) ([]Room, error)
	// ListAvailableBetween returns available rooms with no confirmed booking
	// overlapping [checkIn, checkOut).
	ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time) ([]Room, error)
}

type BookingRepository interface {
	// CreateConfirmed inserts b with status=confirmed while holding a row
	// lock on its room, re-checking availability and overlap under the lock.
	// Returns ErrNotFound, ErrUnavailable or ErrConflict accordingly.
	CreateConfirmed(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (Booking, error)
	SetStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	// Active means confirmed with check-out still after asOf.
	HasActiveForRoom(ctx context.Context, roomID uuid.UUID, asOf time.Time) (bool, error)
	HasActiveForHotel(ctx context.Context, hotelID uuid.UUID, asOf time.Time) (bool, error)
}

// ConflictChecker scans confirmed bookings for the room and applies the
// half-open overlap predicate. Cancelled bookings never contribute.
type ConflictChecker interface {
	HasConflict(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// DelPattern drops every key matching a glob pattern, e.g. "hotels:*".
	DelPattern(ctx context.Context, pattern string) error
}

// Claims is what a verified token asserts about the caller.
type Claims struct {
	Subject string // email
	UserID  uuid.UUID
	Role    Role
}

type AuthProvider interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	IssueToken(c Claims) (string, error)
	VerifyToken(token string) (Claims, error)
}
