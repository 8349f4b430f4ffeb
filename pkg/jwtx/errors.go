package jwtx

import (
	"errors"
	"fmt"
)

// Kind classifies why a credential was rejected. Callers switch on it rather
// than inspecting error strings: an expired token can be refreshed, anything
// else needs a full login.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissing
	KindExpired
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindExpired:
		return "expired"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is returned by every verification failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "jwtx: " + e.Kind.String() + " credential"
	}
	return fmt.Sprintf("jwtx: %s credential: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrExpired)
// works regardless of the underlying cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissing = &Error{Kind: KindMissing}
	ErrExpired = &Error{Kind: KindExpired}
	ErrInvalid = &Error{Kind: KindInvalid}
)

// Underlying causes, wrapped inside an *Error.
var (
	ErrMalformed      = errors.New("jwtx: malformed token")
	ErrInvalidSig     = errors.New("jwtx: invalid signature")
	ErrIssuer         = errors.New("jwtx: issuer mismatch")
	ErrNotYetValid    = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim   = errors.New("jwtx: invalid claims")
	ErrWrongTokenType = errors.New("jwtx: wrong token type")

	errTokenExpired = errors.New("jwtx: token expired")
)

// KindOf extracts the Kind from err, or KindUnknown if err is not a
// verification failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalid(cause error) *Error {
	return &Error{Kind: KindInvalid, Err: cause}
}
