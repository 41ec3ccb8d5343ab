// Package authjwt implements the domain.AuthProvider port with bcrypt
// password hashing and HS256 JWTs.
package authjwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"staybook/internal/domain"
)

type Provider struct {
	secret   []byte
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
}

func New(secret string, tokenTTL time.Duration, bcryptCost int) (*Provider, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("JWT secret must be at least 16 bytes")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Provider{secret: []byte(secret), tokenTTL: tokenTTL, cost: bcryptCost, now: time.Now}, nil
}

func (p *Provider) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (p *Provider) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (p *Provider) IssueToken(c domain.Claims) (string, error) {
	now := p.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: c.UserID.String(),
		Role:   string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
		},
	})
	return t.SignedString(p.secret)
}

func (p *Provider) VerifyToken(token string) (domain.Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return domain.Claims{}, domain.ErrUnauthenticated
	}

	id, err := uuid.Parse(tc.UserID)
	if err != nil {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	role, err := domain.ParseRole(tc.Role)
	if err != nil || tc.Subject == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	return domain.Claims{Subject: tc.Subject, UserID: id, Role: role}, nil
}

var _ domain.AuthProvider = (*Provider)(nil)
