package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

// RequireRoles the caller must be authenticated with one of the listed roles.
// It expects Authenticate to have run earlier in the chain.
func RequireRoles(roles ...string) Middleware {
	allowed := strings.Join(roles, ", ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="campaignhub"`)
				WriteError(w, http.StatusUnauthorized, "Authentication required", "A bearer access token is required")
				return
			}

			if !id.HasRole(roles...) {
				slogx.FromContext(r.Context()).Warn("role check failed",
					"user_id", id.SubjectID,
					"role", id.Role,
					"allowed", allowed,
				)
				WriteError(w, http.StatusForbidden, "Forbidden", "Requires one of roles: "+allowed)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
