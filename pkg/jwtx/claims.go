package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTL constants.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenType separates access tokens (sent to handlers) from refresh tokens
// (only ever exchanged for a new pair).
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carried by every token we issue.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the subject at issue time.
	Role string `json:"role"`

	// TokenType is "access" or "refresh".
	TokenType TokenType `json:"typ"`
}

// NewClaims builds claims for subject/role valid from now for ttl.
func NewClaims(subject, role string, typ TokenType, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role:      role,
		TokenType: typ,
	}
}

// SubjectID returns the "sub" claim.
func (c Claims) SubjectID() string { return c.Subject }

// ExpiresAtTime returns exp or the zero time.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// validateTimes checks exp (required) and nbf against now. A token is
// expired at or after its exp instant.
func (c Claims) validateTimes(now time.Time) error {
	if c.ExpiresAt == nil {
		return invalid(ErrInvalidClaim)
	}
	if !now.Before(c.ExpiresAt.Time) {
		return &Error{Kind: KindExpired, Err: errTokenExpired}
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return invalid(ErrNotYetValid)
	}
	return nil
}
