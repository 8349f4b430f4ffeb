package jwtx

import (
	"strings"
	"time"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// TokenPair is what login, registration and refresh hand back.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService issues and statelessly verifies signed, time-bound identity
// tokens. Access and refresh tokens share the signer and differ in TTL and
// the "typ" claim.
type TokenService struct {
	Signer     *HS256Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the clock used for iat/exp. Defaults to time.Now.
	Now func() time.Time
}

// NewTokenService builds a TokenService with the default TTLs.
func NewTokenService(secret []byte, issuer string) (*TokenService, error) {
	signer, err := NewHS256Signer(secret)
	if err != nil {
		return nil, err
	}
	return &TokenService{
		Signer:     signer,
		Issuer:     issuer,
		AccessTTL:  DefaultAccessTokenTTL,
		RefreshTTL: DefaultRefreshTokenTTL,
		Now:        time.Now,
	}, nil
}

func (s *TokenService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Issue signs a token for subject/role. A non-positive ttl falls back to the
// default for typ.
func (s *TokenService) Issue(subject, role string, typ TokenType, ttl time.Duration) (string, Claims, error) {
	if ttl <= 0 {
		ttl = s.AccessTTL
		if typ == TokenTypeRefresh {
			ttl = s.RefreshTTL
		}
	}

	claims := NewClaims(subject, role, typ, s.Issuer, ttl, s.now())
	raw, err := s.Signer.Sign(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return raw, claims, nil
}

// IssuePair issues a fresh access + refresh token for subject/role.
func (s *TokenService) IssuePair(subject, role string) (TokenPair, error) {
	access, ac, err := s.Issue(subject, role, TokenTypeAccess, s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rc, err := s.Issue(subject, role, TokenTypeRefresh, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  ac.ExpiresAtTime(),
		RefreshExpiresAt: rc.ExpiresAtTime(),
	}, nil
}

// Verify checks signature, issuer and expiry. Every failure is an *Error
// whose Kind is Missing, Expired or Invalid.
func (s *TokenService) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrMissing
	}

	claims, err := s.Signer.parse(raw)
	if err != nil {
		return Claims{}, err
	}

	if s.Issuer != "" && claims.Issuer != s.Issuer {
		return Claims{}, invalid(ErrIssuer)
	}
	if claims.Subject == "" || claims.Role == "" {
		return Claims{}, invalid(ErrInvalidClaim)
	}
	if err := claims.validateTimes(s.now()); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// VerifyAccess is Verify restricted to access tokens.
func (s *TokenService) VerifyAccess(raw string) (Claims, error) {
	return s.verifyType(raw, TokenTypeAccess)
}

// VerifyRefresh is Verify restricted to refresh tokens.
func (s *TokenService) VerifyRefresh(raw string) (Claims, error) {
	return s.verifyType(raw, TokenTypeRefresh)
}

func (s *TokenService) verifyType(raw string, typ TokenType) (Claims, error) {
	c, err := s.Verify(raw)
	if err != nil {
		return Claims{}, err
	}
	if c.TokenType != typ {
		return Claims{}, invalid(ErrWrongTokenType)
	}
	return c, nil
}

// AccessVerifier adapts a TokenService to the Verifier interface, accepting
// only access tokens.
type AccessVerifier struct{ *TokenService }

func (a AccessVerifier) Verify(token string) (Claims, error) {
	return a.VerifyAccess(token)
}
