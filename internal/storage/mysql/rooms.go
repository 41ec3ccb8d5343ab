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

type RoomRepo struct{ db *sql.DB }

func (r *RoomRepo) Create(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.ID.String(), rm.HotelID.String(), rm.Title, valStr(rm.Description),
		rm.PricePerNight, rm.Capacity, rm.Available, rm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (r *RoomRepo) Update(ctx context.Context, rm domain.Room) error {
	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.Title, valStr(rm.Description), rm.PricePerNight, rm.Capacity, rm.Available, rm.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return errIfNoRows(res)
}

func (r *RoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteRoomSQL, id.String())
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return errIfNoRows(res)
}

func (r *RoomRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, err
	}
	return rm, nil
}

func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	return r.list(ctx, listRoomsByHotelSQL, hotelID.String())
}

func (r *RoomRepo) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, listAvailableRoomsSQL)
}

func (r *RoomRepo) ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	return r.list(ctx, listAvailableRoomsBetweenSQL, checkOut, checkIn)
}

func (r *RoomRepo) list(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func scanRoom(row rowScanner) (domain.Room, error) {
	var rm domain.Room
	var id, hotelID string
	var desc sql.NullString
	if err := row.Scan(&id, &hotelID, &rm.Title, &desc, &rm.PricePerNight, &rm.Capacity, &rm.Available, &rm.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, err
		}
		return domain.Room{}, fmt.Errorf("scan room: %w", err)
	}
	rid, err := parseID(id)
	if err != nil {
		return domain.Room{}, err
	}
	hid, err := parseID(hotelID)
	if err != nil {
		return domain.Room{}, err
	}
	rm.ID = rid
	rm.HotelID = hid
	rm.Description = strPtr(desc)
	return rm, nil
}
