package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

// AuthService handles registration and login. Hashing and token mechanics
// live behind the domain.AuthProvider port; the role is fixed at registration
// and there is no promotion flow.
type AuthService struct {
	users domain.UserRepository
	auth  domain.AuthProvider
	now   func() time.Time
}

func NewAuthService(users domain.UserRepository, auth domain.AuthProvider, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{users: users, auth: auth, now: now}
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !isValidEmail(email) {
		return domain.User{}, fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.auth.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         r,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Login never says which of email or password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if !u.IsActive || !s.auth.Verify(password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.auth.IssueToken(domain.Claims{Subject: u.Email, UserID: u.ID, Role: u.Role})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// isValidEmail does a basic structural check; real validation is the mail
// loop's problem.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
