package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func TestRegister(t *testing.T) {
	store := newFakeStore()
	svc := app.NewAuthService(store, fakeAuth{}, testNow)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ana@Example.COM", "s3cretpass", "owner")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != domain.RoleOwner || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "s3cretpass" || !strings.HasPrefix(u.PasswordHash, "h:") {
		t.Fatalf("password stored unhashed: %q", u.PasswordHash)
	}

	if _, err := svc.Register(ctx, "ana@example.com", "otherpass1", "user"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}
	if _, err := svc.Register(ctx, "bob@example.com", "s3cretpass", "root"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("bad role: got %v, want ErrInvalidRole", err)
	}
	if _, err := svc.Register(ctx, "not-an-email", "s3cretpass", "user"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bad email: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Register(ctx, "carl@example.com", "short", "user"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("short password: got %v, want ErrInvalidInput", err)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	svc := app.NewAuthService(store, fakeAuth{}, testNow)
	ctx := context.Background()

	u, err := svc.Register(ctx, "ana@example.com", "s3cretpass", "user")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login(ctx, "ana@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := fakeAuth{}.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != domain.RoleUser || claims.Subject != "ana@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.Login(ctx, "ana@example.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}

	// Deactivated accounts are rejected with the same opaque error.
	stored := store.users[u.ID]
	stored.IsActive = false
	store.users[u.ID] = stored
	if _, err := svc.Login(ctx, "ana@example.com", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("inactive user: got %v, want ErrInvalidCredentials", err)
	}
}
