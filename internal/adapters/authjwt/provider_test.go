package authjwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	// MinCost keeps the bcrypt tests fast.
	p, err := New(testSecret, time.Hour, 4)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestNew_RejectsShortSecret(t *testing.T) {
	if _, err := New("short", time.Hour, 10); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestHashVerify(t *testing.T) {
	p := newTestProvider(t)

	hash, err := p.Hash("s3cretpass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cretpass" {
		t.Fatal("hash equals plaintext")
	}
	if !p.Verify("s3cretpass", hash) {
		t.Fatal("correct password rejected")
	}
	if p.Verify("wrongpass", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	p := newTestProvider(t)
	in := domain.Claims{Subject: "ana@example.com", UserID: uuid.New(), Role: domain.RoleOwner}

	token, err := p.IssueToken(in)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	out, err := p.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out != in {
		t.Fatalf("claims round-trip: got %+v, want %+v", out, in)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.IssueToken(domain.Claims{Subject: "a@b.c", UserID: uuid.New(), Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := p.VerifyToken(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expired token: got %v, want ErrUnauthenticated", err)
	}
}

func TestVerifyToken_WrongKeyOrGarbage(t *testing.T) {
	p := newTestProvider(t)
	other, err := New("ffffffffffffffffffffffffffffffff", time.Hour, 4)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	token, err := other.IssueToken(domain.Claims{Subject: "a@b.c", UserID: uuid.New(), Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := p.VerifyToken(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("foreign signature: got %v, want ErrUnauthenticated", err)
	}
	if _, err := p.VerifyToken("not.a.jwt"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("garbage token: got %v, want ErrUnauthenticated", err)
	}
}
