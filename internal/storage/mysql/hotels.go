package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

type HotelRepo struct{ db *sql.DB }

func (r *HotelRepo) Create(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.ID.String(), h.OwnerID.String(), h.Name, valStr(h.Description), h.Address, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	return nil
}

func (r *HotelRepo) Update(ctx context.Context, h domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, valStr(h.Description), h.Address, h.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update hotel: %w", err)
	}
	return errIfNoRows(res)
}

func (r *HotelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id.String())
	if err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	return errIfNoRows(res)
}

func (r *HotelRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *HotelRepo) ListAll(ctx context.Context) ([]domain.Hotel, error) {
	return r.list(ctx, listHotelsSQL)
}

func (r *HotelRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Hotel, error) {
	return r.list(ctx, listHotelsByOwnerSQL, ownerID.String())
}

func (r *HotelRepo) list(ctx context.Context, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var id, ownerID string
	var desc sql.NullString
	if err := row.Scan(&id, &ownerID, &h.Name, &desc, &h.Address, &h.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, err
		}
		return domain.Hotel{}, fmt.Errorf("scan hotel: %w", err)
	}
	hid, err := parseID(id)
	if err != nil {
		return domain.Hotel{}, err
	}
	oid, err := parseID(ownerID)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.ID = hid
	h.OwnerID = oid
	h.Description = strPtr(desc)
	return h, nil
}

func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
