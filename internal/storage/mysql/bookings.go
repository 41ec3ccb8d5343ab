package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

type BookingRepo struct{ db *sql.DB }

// CreateConfirmed inserts the booking inside a transaction that first takes a
// row lock on the room. Two racing requests for overlapping ranges on the
// same room serialize on that lock, so the loser's overlap re-check sees the
// winner's committed row and fails with ErrConflict instead of double-booking.
func (r *BookingRepo) CreateConfirmed(ctx context.Context, b domain.Booking) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var available bool
	err = tx.QueryRowContext(ctx, lockRoomForBookingSQL, b.RoomID.String()).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock room row: %w", err)
	}
	if !available {
		return domain.ErrUnavailable
	}

	var conflict bool
	err = tx.QueryRowContext(ctx, hasConflictSQL, b.RoomID.String(), b.CheckOut, b.CheckIn).Scan(&conflict)
	if err != nil {
		return fmt.Errorf("overlap re-check: %w", err)
	}
	if conflict {
		return domain.ErrConflict
	}

	_, err = tx.ExecContext(ctx, insertBookingSQL,
		b.ID.String(), b.RoomID.String(), b.UserID.String(),
		b.CheckIn, b.CheckOut, string(b.Status), b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, setBookingStatusSQL, string(status), id.String())
	if err != nil {
		return fmt.Errorf("set booking status: %w", err)
	}
	return errIfNoRows(res)
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByUserSQL, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// HasConflict is the unlocked read used for the deterministic pre-check; the
// authoritative check runs again inside CreateConfirmed under the room lock.
func (r *BookingRepo) HasConflict(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	var conflict bool
	err := r.db.QueryRowContext(ctx, hasConflictSQL, roomID.String(), checkOut, checkIn).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("conflict query: %w", err)
	}
	return conflict, nil
}

func (r *BookingRepo) HasActiveForRoom(ctx context.Context, roomID uuid.UUID, asOf time.Time) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx, hasActiveForRoomSQL, roomID.String(), asOf).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("active-booking query: %w", err)
	}
	return active, nil
}

func (r *BookingRepo) HasActiveForHotel(ctx context.Context, hotelID uuid.UUID, asOf time.Time) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx, hasActiveForHotelSQL, hotelID.String(), asOf).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("active-booking query: %w", err)
	}
	return active, nil
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var id, roomID, userID, status string
	if err := row.Scan(&id, &roomID, &userID, &b.CheckIn, &b.CheckOut, &status, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, err
		}
		return domain.Booking{}, fmt.Errorf("scan booking: %w", err)
	}
	bid, err := parseID(id)
	if err != nil {
		return domain.Booking{}, err
	}
	rid, err := parseID(roomID)
	if err != nil {
		return domain.Booking{}, err
	}
	uid, err := parseID(userID)
	if err != nil {
		return domain.Booking{}, err
	}
	b.ID = bid
	b.RoomID = rid
	b.UserID = uid
	b.Status = domain.BookingStatus(status)
	return b, nil
}
