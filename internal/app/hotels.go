package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

// Cache keys are class-scoped: any hotel mutation drops "hotels:*" so list
// and detail reads never outlive a write the caller just issued.
func hotelKey(id uuid.UUID) string       { return fmt.Sprintf("hotels:id:%s", id) }
func hotelsAllKey() string               { return "hotels:all" }
func hotelsOwnerKey(id uuid.UUID) string { return fmt.Sprintf("hotels:owner:%s", id) }

type HotelCreate struct {
	Name        string
	Description *string
	Address     string
}

type HotelService struct {
	hotels   domain.HotelRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewHotelService(
	hotels domain.HotelRepository,
	bookings domain.BookingRepository,
	cache domain.Cache,
	ttl time.Duration,
	now func() time.Time,
) *HotelService {
	if now == nil {
		now = time.Now
	}
	return &HotelService{hotels: hotels, bookings: bookings, cache: cache, cacheTTL: ttl, now: now}
}

// Create registers a hotel owned by the acting principal. The role gate
// (admin|owner) lives at the route layer; whoever creates it owns it.
func (s *HotelService) Create(ctx context.Context, p Principal, in HotelCreate) (domain.Hotel, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Address == "" {
		return domain.Hotel{}, fmt.Errorf("%w: name and address are required", domain.ErrInvalidInput)
	}
	h := domain.Hotel{
		ID:          uuid.New(),
		OwnerID:     p.ID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.hotels.Create(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx)
	return h, nil
}

func (s *HotelService) Update(ctx context.Context, p Principal, hotelID uuid.UUID, in HotelCreate) (domain.Hotel, error) {
	h, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := AssertOwner(p, h.OwnerID); err != nil {
		return domain.Hotel{}, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		h.Name = v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		h.Address = v
	}
	if in.Description != nil {
		h.Description = in.Description
	}
	if err := s.hotels.Update(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx)
	return h, nil
}

// Delete refuses while any room of the hotel still has a confirmed booking
// whose check-out lies in the future; cancelled and past stays never block.
// Rooms go with the hotel (FK cascade).
func (s *HotelService) Delete(ctx context.Context, p Principal, hotelID uuid.UUID) error {
	h, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return err
	}
	if err := AssertOwner(p, h.OwnerID); err != nil {
		return err
	}
	active, err := s.bookings.HasActiveForHotel(ctx, hotelID, domain.DateOf(s.now()))
	if err != nil {
		return fmt.Errorf("active-booking check: %w", err)
	}
	if active {
		return domain.ErrActiveBookings
	}
	if err := s.hotels.Delete(ctx, hotelID); err != nil {
		return err
	}
	s.invalidate(ctx)
	_ = s.cache.DelPattern(ctx, "rooms:*")
	return nil
}

func (s *HotelService) Get(ctx context.Context, hotelID uuid.UUID) (domain.Hotel, error) {
	key := hotelKey(hotelID)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *HotelService) ListAll(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, hotelsAllKey(), &out); ok {
		return out, nil
	}
	out, err := s.hotels.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, hotelsAllKey(), out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *HotelService) ListMine(ctx context.Context, p Principal) ([]domain.Hotel, error) {
	key := hotelsOwnerKey(p.ID)
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.hotels.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *HotelService) invalidate(ctx context.Context) {
	_ = s.cache.DelPattern(ctx, "hotels:*")
}
