package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

// In-memory fakes mirroring the MySQL repositories closely enough for the
// service-level tests, including the conflict re-check CreateConfirmed does
// under the room row lock.

type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]domain.User
	hotels   map[uuid.UUID]domain.Hotel
	rooms    map[uuid.UUID]domain.Room
	bookings map[uuid.UUID]domain.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uuid.UUID]domain.User{},
		hotels:   map[uuid.UUID]domain.Hotel{},
		rooms:    map[uuid.UUID]domain.Room{},
		bookings: map[uuid.UUID]domain.Booking{},
	}
}

// ---- UserRepository ----

func (f *fakeStore) Create(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// ---- repositories are separate types sharing the store, matching the ports ----

type fakeHotels struct{ s *fakeStore }

func (f *fakeHotels) Create(ctx context.Context, h domain.Hotel) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.hotels[h.ID] = h
	return nil
}

func (f *fakeHotels) Update(ctx context.Context, h domain.Hotel) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.hotels[h.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.hotels[h.ID] = h
	return nil
}

func (f *fakeHotels) Delete(ctx context.Context, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.hotels, id)
	for rid, r := range f.s.rooms {
		if r.HotelID == id {
			delete(f.s.rooms, rid)
		}
	}
	return nil
}

func (f *fakeHotels) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	h, ok := f.s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotels) ListAll(ctx context.Context) ([]domain.Hotel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]domain.Hotel, 0, len(f.s.hotels))
	for _, h := range f.s.hotels {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHotels) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Hotel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Hotel
	for _, h := range f.s.hotels {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeRooms struct{ s *fakeStore }

func (f *fakeRooms) Create(ctx context.Context, r domain.Room) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.rooms[r.ID] = r
	return nil
}

func (f *fakeRooms) Update(ctx context.Context, r domain.Room) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.rooms[r.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.rooms[r.ID] = r
	return nil
}

func (f *fakeRooms) Delete(ctx context.Context, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.rooms, id)
	return nil
}

func (f *fakeRooms) GetByID(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRooms) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Room
	for _, r := range f.s.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Room
	for _, r := range f.s.rooms {
		if r.Available {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Room
	for _, r := range f.s.rooms {
		if !r.Available {
			continue
		}
		free := true
		for _, b := range f.s.bookings {
			if b.RoomID == r.ID && b.Status == domain.BookingConfirmed &&
				domain.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
				free = false
				break
			}
		}
		if free {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeBookings struct{ s *fakeStore }

func (f *fakeBookings) CreateConfirmed(ctx context.Context, b domain.Booking) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	room, ok := f.s.rooms[b.RoomID]
	if !ok {
		return domain.ErrNotFound
	}
	if !room.Available {
		return domain.ErrUnavailable
	}
	for _, other := range f.s.bookings {
		if other.RoomID == b.RoomID && other.Status == domain.BookingConfirmed &&
			domain.Overlaps(other.CheckIn, other.CheckOut, b.CheckIn, b.CheckOut) {
			return domain.ErrConflict
		}
	}
	f.s.bookings[b.ID] = b
	return nil
}

func (f *fakeBookings) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) SetStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	f.s.bookings[id] = b
	return nil
}

func (f *fakeBookings) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) HasActiveForRoom(ctx context.Context, roomID uuid.UUID, asOf time.Time) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.bookings {
		if b.RoomID == roomID && b.Status == domain.BookingConfirmed && b.CheckOut.After(asOf) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) HasActiveForHotel(ctx context.Context, hotelID uuid.UUID, asOf time.Time) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.bookings {
		room, ok := f.s.rooms[b.RoomID]
		if ok && room.HotelID == hotelID && b.Status == domain.BookingConfirmed && b.CheckOut.After(asOf) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) HasConflict(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.bookings {
		if b.RoomID == roomID && b.Status == domain.BookingConfirmed &&
			domain.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

// ---- cache ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, jsonUnmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	return nil
}

func jsonMarshal(v any) ([]byte, error)     { return json.Marshal(v) }
func jsonUnmarshal(b []byte, dst any) error { return json.Unmarshal(b, dst) }

// ---- auth provider ----

type fakeAuth struct{}

func (fakeAuth) Hash(password string) (string, error) { return "h:" + password, nil }
func (fakeAuth) Verify(password, hash string) bool    { return hash == "h:"+password }

func (fakeAuth) IssueToken(c domain.Claims) (string, error) {
	return fmt.Sprintf("tok|%s|%s|%s", c.Subject, c.UserID, c.Role), nil
}

func (fakeAuth) VerifyToken(token string) (domain.Claims, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 4 || parts[0] != "tok" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	role, err := domain.ParseRole(parts[3])
	if err != nil {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	return domain.Claims{Subject: parts[1], UserID: id, Role: role}, nil
}
