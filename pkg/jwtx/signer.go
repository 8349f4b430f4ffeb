package jwtx

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretSize is the smallest HMAC secret we accept (256 bits).
const MinSecretSize = 32

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs and verifies with a shared service secret.
type HS256Signer struct {
	secret []byte
}

// NewHS256Signer creates a signer from secret, which must be at least
// MinSecretSize bytes.
func NewHS256Signer(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("jwtx: secret must be at least %d bytes, got %d", MinSecretSize, len(secret))
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &HS256Signer{secret: key}, nil
}

// GenerateSecret returns a random secret suitable for NewHS256Signer. Tokens
// signed with it die with the process.
func GenerateSecret() ([]byte, error) {
	b := make([]byte, MinSecretSize)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("jwtx: generate secret: %w", err)
	}
	return b, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// parse checks the signature and decodes claims. Time-based claims are
// validated by the caller against its own clock.
func (s *HS256Signer) parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, invalid(ErrMalformed)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, invalid(ErrInvalidSig)
		default:
			return nil, invalid(err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, invalid(ErrInvalidClaim)
	}
	return claims, nil
}
