package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/aussiebroadwan/cms/pkg/slogx"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p service.Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	id := strconv.FormatInt(p.User.ID, 10)
	ctx = httpx.WithIdentity(ctx, id, string(p.User.Role))
	return slogx.WithUser(ctx, id)
}

// PrincipalFromContext returns the principal attached by the authentication
// middleware.
func PrincipalFromContext(ctx context.Context) (service.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(service.Principal)
	return p, ok
}

// AuthnMiddleware authenticates the bearer token with the normal flow.
func AuthnMiddleware(a *service.Authenticator) httpx.Middleware {
	return authn(a.Authenticate)
}

// RefreshAuthnMiddleware authenticates with the relaxed flow, accepting
// expired tokens whose signature still verifies.
func RefreshAuthnMiddleware(a *service.Authenticator) httpx.Middleware {
	return authn(a.AuthenticateForRefresh)
}

func authn(authenticate func(context.Context, string) (service.Principal, error)) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			p, err := authenticate(r.Context(), header)
			if err != nil {
				attrs := []any{"path", r.URL.Path, "reason", err.Error()}
				if token, terr := service.BearerToken(header); terr == nil {
					attrs = append(attrs, "token_fp", cryptox.FingerprintToken(token))
				}
				slogx.FromContext(r.Context()).Info("authentication failed", attrs...)
				writeAuthError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}

func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: httpx.IPKeyExtractor(r),
		UserAgent: r.UserAgent(),
	}
}
