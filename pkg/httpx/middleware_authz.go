package httpx

import (
	"net/http"
	"slices"

	"github.com/aussiebroadwan/cms/pkg/slogx"
)

const (
	MessageNotAuthenticated = "Authentication credentials were not provided"
	MessageForbidden        = "You do not have permission to perform this action"
)

// RequireRole lets the request through only when the authenticated role is
// one of allowed. It must run after an authentication middleware that calls
// WithIdentity. Unauthenticated requests get 401, other roles get 403.
func RequireRole(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				WriteBearerError(w, MessageNotAuthenticated)
				return
			}

			role := RoleFromContext(r.Context())
			if !slices.Contains(allowed, role) {
				slogx.FromContext(r.Context()).Warn("role not permitted",
					"role", role,
					"allowed", allowed,
					"path", r.URL.Path,
				)
				WriteError(w, http.StatusForbidden, MessageForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
