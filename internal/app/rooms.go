package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

func roomKey(id uuid.UUID) string            { return fmt.Sprintf("rooms:id:%s", id) }
func roomsHotelKey(hotelID uuid.UUID) string { return fmt.Sprintf("rooms:hotel:%s", hotelID) }
func roomsAvailableKey() string              { return "rooms:available" }

type RoomCreate struct {
	Title         string
	Description   *string
	PricePerNight float64
	Capacity      int
}

type RoomService struct {
	rooms    domain.RoomRepository
	hotels   domain.HotelRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewRoomService(
	rooms domain.RoomRepository,
	hotels domain.HotelRepository,
	bookings domain.BookingRepository,
	cache domain.Cache,
	ttl time.Duration,
	now func() time.Time,
) *RoomService {
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, hotels: hotels, bookings: bookings, cache: cache, cacheTTL: ttl, now: now}
}

func (s *RoomService) Create(ctx context.Context, p Principal, hotelID uuid.UUID, in RoomCreate) (domain.Room, error) {
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return domain.Room{}, err
	}
	if err := AssertOwner(p, hotel.OwnerID); err != nil {
		return domain.Room{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Room{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.PricePerNight <= 0 {
		return domain.Room{}, fmt.Errorf("%w: price per night must be positive", domain.ErrInvalidInput)
	}
	if in.Capacity <= 0 {
		return domain.Room{}, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	r := domain.Room{
		ID:            uuid.New(),
		HotelID:       hotelID,
		Title:         in.Title,
		Description:   in.Description,
		PricePerNight: in.PricePerNight,
		Capacity:      in.Capacity,
		Available:     true,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.rooms.Create(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidate(ctx)
	return r, nil
}

func (s *RoomService) Update(ctx context.Context, p Principal, roomID uuid.UUID, in domain.RoomUpdate) (domain.Room, error) {
	r, err := s.ownedRoom(ctx, p, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return domain.Room{}, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
		}
		r.Title = t
	}
	if in.Description != nil {
		r.Description = in.Description
	}
	if in.PricePerNight != nil {
		if *in.PricePerNight <= 0 {
			return domain.Room{}, fmt.Errorf("%w: price per night must be positive", domain.ErrInvalidInput)
		}
		r.PricePerNight = *in.PricePerNight
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return domain.Room{}, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
		}
		r.Capacity = *in.Capacity
	}
	if err := s.rooms.Update(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidate(ctx)
	return r, nil
}

// SetAvailability flips the manual availability switch. Existing bookings are
// untouched: the flag only gates new reservations.
func (s *RoomService) SetAvailability(ctx context.Context, p Principal, roomID uuid.UUID, available bool) (domain.Room, error) {
	r, err := s.ownedRoom(ctx, p, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	r.Available = available
	if err := s.rooms.Update(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidate(ctx)
	return r, nil
}

// ToggleAvailability matches the original owner workflow: a single PATCH with
// no body flips the current state.
func (s *RoomService) ToggleAvailability(ctx context.Context, p Principal, roomID uuid.UUID) (domain.Room, error) {
	r, err := s.ownedRoom(ctx, p, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	return s.SetAvailability(ctx, p, roomID, !r.Available)
}

func (s *RoomService) Delete(ctx context.Context, p Principal, roomID uuid.UUID) error {
	r, err := s.ownedRoom(ctx, p, roomID)
	if err != nil {
		return err
	}
	active, err := s.bookings.HasActiveForRoom(ctx, r.ID, domain.DateOf(s.now()))
	if err != nil {
		return fmt.Errorf("active-booking check: %w", err)
	}
	if active {
		return domain.ErrActiveBookings
	}
	if err := s.rooms.Delete(ctx, r.ID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *RoomService) Get(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	key := roomKey(roomID)
	var r domain.Room
	if ok, _ := s.cache.Get(ctx, key, &r); ok {
		return r, nil
	}
	r, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
	return r, nil
}

func (s *RoomService) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}
	key := roomsHotelKey(hotelID)
	var out []domain.Room
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *RoomService) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	if ok, _ := s.cache.Get(ctx, roomsAvailableKey(), &out); ok {
		return out, nil
	}
	out, err := s.rooms.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, roomsAvailableKey(), out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// SearchAvailable returns available rooms free of confirmed bookings
// overlapping [checkIn, checkOut). Not cached: the key space over arbitrary
// date ranges is unbounded.
func (s *RoomService) SearchAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	checkIn = domain.DateOf(checkIn)
	checkOut = domain.DateOf(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, domain.ErrInvalidRange
	}
	return s.rooms.ListAvailableBetween(ctx, checkIn, checkOut)
}

// ownedRoom resolves a room and enforces that the caller owns its hotel.
func (s *RoomService) ownedRoom(ctx context.Context, p Principal, roomID uuid.UUID) (domain.Room, error) {
	r, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	hotel, err := s.hotels.GetByID(ctx, r.HotelID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("resolve hotel for room %s: %w", roomID, err)
	}
	if err := AssertOwner(p, hotel.OwnerID); err != nil {
		return domain.Room{}, err
	}
	return r, nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	_ = s.cache.DelPattern(ctx, "rooms:*")
}
