package httpx

import "context"

type ctxKey string

const CtxKeyIdentity ctxKey = "identity"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	SubjectID string
	Role      string
}

// HasRole reports whether the identity's role is one of roles.
func (id Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, CtxKeyIdentity, id)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}
