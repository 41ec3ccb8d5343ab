package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

// BookingService owns the reservation lifecycle: it decides whether a
// room/date-range request may be accepted and moves bookings between the
// confirmed and cancelled states. Validation failures happen strictly before
// persistence; the repository re-checks the conflict under a room row lock,
// so two racing requests for overlapping ranges cannot both commit.
type BookingService struct {
	rooms     domain.RoomRepository
	bookings  domain.BookingRepository
	conflicts domain.ConflictChecker
	now       func() time.Time
}

func NewBookingService(
	rooms domain.RoomRepository,
	bookings domain.BookingRepository,
	conflicts domain.ConflictChecker,
	now func() time.Time,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{rooms: rooms, bookings: bookings, conflicts: conflicts, now: now}
}

// Create validates in a fixed order so the client-visible error is
// deterministic: room exists, room available, range valid, dates not past,
// no conflict. Room availability is a manual owner switch and is never
// mutated by bookings.
func (s *BookingService) Create(ctx context.Context, userID, roomID uuid.UUID, checkIn, checkOut time.Time) (domain.Booking, error) {
	checkIn = domain.DateOf(checkIn)
	checkOut = domain.DateOf(checkOut)

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !room.Available {
		return domain.Booking{}, domain.ErrUnavailable
	}
	if !checkIn.Before(checkOut) {
		return domain.Booking{}, domain.ErrInvalidRange
	}
	today := domain.DateOf(s.now())
	if checkIn.Before(today) || checkOut.Before(today) {
		return domain.Booking{}, domain.ErrPastDate
	}

	conflict, err := s.conflicts.HasConflict(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("conflict check: %w", err)
	}
	if conflict {
		return domain.Booking{}, domain.ErrConflict
	}

	b := domain.Booking{
		ID:        uuid.New(),
		RoomID:    roomID,
		UserID:    userID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Status:    domain.BookingConfirmed,
		CreatedAt: s.now().UTC(),
	}
	if err := s.bookings.CreateConfirmed(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

// Cancel moves a booking to cancelled. Only the original booker may cancel;
// owners and admins get no cancel rights over others' bookings. Cancelling an
// already-cancelled booking is an idempotent no-op. The row is never deleted.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.UserID != userID {
		return domain.Booking{}, domain.ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return b, nil
	}
	if err := s.bookings.SetStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
		return domain.Booking{}, fmt.Errorf("cancel booking: %w", err)
	}
	b.Status = domain.BookingCancelled
	return b, nil
}

// Get returns a booking to its booker only.
func (s *BookingService) Get(ctx context.Context, userID, bookingID uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.UserID != userID {
		return domain.Booking{}, domain.ErrForbidden
	}
	return b, nil
}

func (s *BookingService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}
