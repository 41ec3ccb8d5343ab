package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

// Repos bundles the four repositories over one *sql.DB handle.
type Repos struct {
	Users    *UserRepo
	Hotels   *HotelRepo
	Rooms    *RoomRepo
	Bookings *BookingRepo
}

func New(db *sql.DB) *Repos {
	return &Repos{
		Users:    &UserRepo{db: db},
		Hotels:   &HotelRepo{db: db},
		Rooms:    &RoomRepo{db: db},
		Bookings: &BookingRepo{db: db},
	}
}

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed id %q in row: %w", s, err)
	}
	return id, nil
}

type UserRepo struct{ db *sql.DB }

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID.String(), u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, getUserByIDSQL, id.String()))
}

func (r *UserRepo) scanOne(row *sql.Row) (domain.User, error) {
	var u domain.User
	var id, role string
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	uid, err := parseID(id)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = uid
	u.Role = domain.Role(role)
	return u, nil
}
