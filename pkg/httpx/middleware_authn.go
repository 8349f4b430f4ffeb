package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

// Gate turns bearer credentials into an Identity on the request context.
type Gate struct {
	Verifier jwtx.Verifier

	// OnFailure, if set, is called with the kind of every rejected credential.
	OnFailure func(kind jwtx.Kind)
}

// Authenticate rejects requests without a valid access token.
func Authenticate(v jwtx.Verifier) Middleware {
	return (&Gate{Verifier: v}).Authenticate()
}

// OptionalAuthenticate attaches an identity when a valid token is present.
func OptionalAuthenticate(v jwtx.Verifier) Middleware {
	return (&Gate{Verifier: v}).OptionalAuthenticate()
}

// AuthorizeRoles is Authenticate followed by RequireRoles.
func AuthorizeRoles(v jwtx.Verifier, roles ...string) Middleware {
	return (&Gate{Verifier: v}).AuthorizeRoles(roles...)
}

func (g *Gate) Authenticate() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			claims, err := g.Verifier.Verify(BearerToken(r))
			if err != nil {
				kind := jwtx.KindOf(err)
				if g.OnFailure != nil {
					g.OnFailure(kind)
				}
				if kind != jwtx.KindMissing {
					log.Warn("jwt verify failed", "kind", kind.String(), "err", err)
				}
				writeCredentialError(w, kind)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{SubjectID: claims.Subject, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Gate) OptionalAuthenticate() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := g.Verifier.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("optional auth ignored credential", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{SubjectID: claims.Subject, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Gate) AuthorizeRoles(roles ...string) Middleware {
	authn := g.Authenticate()
	authz := RequireRoles(roles...)
	return func(next http.Handler) http.Handler {
		return authn(authz(next))
	}
}

// BearerToken returns the credential from "Authorization: Bearer <token>",
// or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeCredentialError(w http.ResponseWriter, kind jwtx.Kind) {
	switch kind {
	case jwtx.KindMissing:
		w.Header().Set("WWW-Authenticate", `Bearer realm="campaignhub"`)
		WriteError(w, http.StatusUnauthorized, "Authentication required", "A bearer access token is required")
	case jwtx.KindExpired:
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="token expired"`)
		WriteError(w, http.StatusUnauthorized, "Token expired", "Access token expired, please re-authenticate")
	default:
		WriteError(w, http.StatusForbidden, "Invalid token", "Token verification failed")
	}
}
