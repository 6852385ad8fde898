package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/internal/auth/store"
	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/aussiebroadwan/cms/pkg/slogx"

	_ "github.com/aussiebroadwan/cms/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimitProfiles

	store         store.Store
	Authenticator *service.Authenticator
	TokenService  *service.TokenService
	UserService   *service.UserService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	limits httpx.RateLimitProfiles,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       limits,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerToken()
	r.registerProfile()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CMS Authentication Service API
//	@version		0.1.0
//	@description	Token issuance, refresh and account endpoints of the CMS.
//	@description
//	@description				Access tokens are HS256 JWTs with an encrypted subject. Each token comes with a refresh signature
//	@description				that must be presented, together with the token, to refresh it.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/cms
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerToken() {
	h := &TokenHandler{TokenService: r.TokenService}

	// Login - strict limit by IP + username to slow down credential stuffing
	r.Mux.Handle("POST /v1/auth/token",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "username"),
		),
	)

	// Refresh - relaxed authentication, expired tokens are accepted
	r.Mux.Handle("PUT /v1/auth/token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			RefreshAuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
	r.Mux.Handle("PATCH /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)

	// Password change verifies a password, so it gets the strict limit
	r.Mux.Handle("PUT /v1/auth/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(r.limits.Strict),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{UserService: r.UserService}
	admins := roleNames(domain.AdminRoles)

	r.Mux.Handle("GET /v1/auth/roles",
		httpx.Chain(http.HandlerFunc(h.HandleRoles),
			AuthnMiddleware(r.Authenticator),
			httpx.RequireRole(admins...),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /v1/auth/users/{id}/activity",
		httpx.Chain(http.HandlerFunc(h.HandleActivity),
			AuthnMiddleware(r.Authenticator),
			httpx.RequireRole(admins...),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.TokenService != nil && r.TokenService.Codec != nil),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
