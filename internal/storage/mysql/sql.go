package mysql

// ---------------------------------------------------------------------------
// USERS
// ---------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (id, email, password_hash, role, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectUserCols = `id, email, password_hash, role, is_active, created_at`

const getUserByEmailSQL = `SELECT ` + selectUserCols + ` FROM users WHERE email = ?`
const getUserByIDSQL = `SELECT ` + selectUserCols + ` FROM users WHERE id = ?`

// ---------------------------------------------------------------------------
// HOTELS
// ---------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels (id, owner_id, name, description, address, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET name = ?, description = ?, address = ? WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const selectHotelCols = `id, owner_id, name, description, address, created_at`

const getHotelSQL = `SELECT ` + selectHotelCols + ` FROM hotels WHERE id = ?`
const listHotelsSQL = `SELECT ` + selectHotelCols + ` FROM hotels ORDER BY created_at, id`
const listHotelsByOwnerSQL = `SELECT ` + selectHotelCols + ` FROM hotels WHERE owner_id = ? ORDER BY created_at, id`

// ---------------------------------------------------------------------------
// ROOMS
// ---------------------------------------------------------------------------

const insertRoomSQL = `
INSERT INTO rooms (id, hotel_id, title, description, price_per_night, capacity, is_available, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms SET title = ?, description = ?, price_per_night = ?, capacity = ?, is_available = ?
WHERE id = ?
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const selectRoomCols = `id, hotel_id, title, description, price_per_night, capacity, is_available, created_at`

const getRoomSQL = `SELECT ` + selectRoomCols + ` FROM rooms WHERE id = ?`
const listRoomsByHotelSQL = `SELECT ` + selectRoomCols + ` FROM rooms WHERE hotel_id = ? ORDER BY created_at, id`
const listAvailableRoomsSQL = `SELECT ` + selectRoomCols + ` FROM rooms WHERE is_available = 1 ORDER BY created_at, id`

// Available rooms with no confirmed booking overlapping [?, ?): the NOT
// EXISTS carries the same half-open predicate as hasConflictSQL.
// Params: check_out, check_in.
const listAvailableRoomsBetweenSQL = `
SELECT ` + selectRoomCols + `
FROM rooms r
WHERE r.is_available = 1
  AND NOT EXISTS (
    SELECT 1 FROM bookings b
    WHERE b.room_id = r.id
      AND b.status = 'confirmed'
      AND b.check_in_date < ?
      AND b.check_out_date > ?
  )
ORDER BY r.created_at, r.id
`

// ---------------------------------------------------------------------------
// BOOKINGS
// ---------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings (id, room_id, user_id, check_in_date, check_out_date, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const selectBookingCols = `id, room_id, user_id, check_in_date, check_out_date, status, created_at`

const getBookingSQL = `SELECT ` + selectBookingCols + ` FROM bookings WHERE id = ?`
const listBookingsByUserSQL = `SELECT ` + selectBookingCols + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id`

const setBookingStatusSQL = `UPDATE bookings SET status = ? WHERE id = ?`

// Two half-open ranges [a0,a1) and [b0,b1) overlap iff a0 < b1 AND b0 < a1.
// Only confirmed bookings participate; a cancelled booking frees its slot
// immediately. Params: room_id, check_out, check_in.
const hasConflictSQL = `
SELECT EXISTS (
  SELECT 1 FROM bookings
  WHERE room_id = ?
    AND status = 'confirmed'
    AND check_in_date < ?
    AND check_out_date > ?
)
`

// Row lock taken during booking creation; serializes racing check-and-insert
// sequences on the same room.
const lockRoomForBookingSQL = `SELECT is_available FROM rooms WHERE id = ? FOR UPDATE`

// Active = confirmed and not yet checked out as of the given date.
// Params: room_id/hotel_id, as_of.
const hasActiveForRoomSQL = `
SELECT EXISTS (
  SELECT 1 FROM bookings
  WHERE room_id = ? AND status = 'confirmed' AND check_out_date > ?
)
`

const hasActiveForHotelSQL = `
SELECT EXISTS (
  SELECT 1 FROM bookings b
  JOIN rooms r ON r.id = b.room_id
  WHERE r.hotel_id = ? AND b.status = 'confirmed' AND b.check_out_date > ?
)
`
