package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session lifetimes, overridable per deployment.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenType separates short-lived access tokens from refresh tokens. The two
// are never interchangeable.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Valid reports whether t is one of the known token types.
func (t TokenType) Valid() bool {
	return t == TypeAccess || t == TypeRefresh
}

// Claims are the session token claims. Subject holds the principal identity
// (usually an email address).
type Claims struct {
	jwt.RegisteredClaims

	// Tenant the principal belonged to when the token was issued
	TenantID string `json:"tenantId"`

	// "access" or "refresh"
	Type TokenType `json:"type"`
}

// NewClaims builds claims for a single token.
func NewClaims(
	subject, tenantID string,
	typ TokenType,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TenantID: tenantID,
		Type:     typ,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim, which also
// keeps two tokens minted in the same second distinct.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired. A token without exp is
// treated as expired.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC())
}

// ValidateExpiryAt is ValidateExpiry against the clock reading now.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// ExpiresIn is the remaining lifetime of the token, zero once expired.
func (c *Claims) ExpiresIn() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
