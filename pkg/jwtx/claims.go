package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the access token lifetime used when none is configured.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims. Subject always carries the encrypted
// principal identifier, never the identifier itself.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds claims for an encrypted subject expiring ttl after now.
func NewClaims(encryptedSubject string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   encryptedSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// ValidateExpiry ensures the token carries an exp claim that is still in the
// future at now.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// Remaining returns how long the token has left at now. It is negative for
// expired tokens and zero when no exp claim is present.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
