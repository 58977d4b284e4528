// Package http exposes the two-factor service over a JSON API. Routes under
// /v1 are guarded by a static admin bearer token, except the public JWKS
// endpoint.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/service"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store"
	"github.com/aussiebroadwan/twofactor/pkg/httpx"
	"github.com/aussiebroadwan/twofactor/pkg/jwtx"
	"github.com/aussiebroadwan/twofactor/pkg/slogx"

	_ "github.com/aussiebroadwan/twofactor/api/twofactor" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	attestor     *jwtx.Attestor
	adminToken   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TwoFactorService *service.TwoFactorService
}

func NewRouter(
	attestor *jwtx.Attestor,
	adminToken, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		attestor:     attestor,
		adminToken:   adminToken,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerProviders()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TwoFactor Service API
//	@version		0.1.0
//	@description	Pluggable two-factor authentication service with time-based codes and
//	@description	remote push verification. Successful validations mint short-lived EdDSA
//	@description	attestations verifiable against the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/twofactor
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	AdminToken
//	@in							header
//	@name						Authorization
//	@description				Static admin token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerProviders() {
	h := &ProvidersHandler{TwoFactorService: r.TwoFactorService}
	admin := httpx.AdminTokenMiddleware(r.adminToken)

	r.Mux.Handle("GET /v1/providers",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			admin,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /v1/providers/{id}/forms/apikey",
		httpx.Chain(http.HandlerFunc(h.HandleAPIKeyForm),
			admin,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// The check calls out to the provider's remote service, so it gets the
	// tighter limit.
	r.Mux.Handle("POST /v1/providers/{id}/apikey/check",
		httpx.Chain(http.HandlerFunc(h.HandleAPIKeyCheck),
			admin,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	enrollment := &EnrollmentHandler{TwoFactorService: r.TwoFactorService}
	validate := &ValidateHandler{TwoFactorService: r.TwoFactorService}
	admin := httpx.AdminTokenMiddleware(r.adminToken)

	r.Mux.Handle("GET /v1/users/{username}/twofactor",
		httpx.Chain(http.HandlerFunc(enrollment.HandleStatus),
			admin,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/users/{username}/twofactor/forms/enroll",
		httpx.Chain(http.HandlerFunc(enrollment.HandleEnrollForm),
			admin,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/{username}/twofactor/enroll",
		httpx.Chain(http.HandlerFunc(enrollment.HandleEnroll),
			admin,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Validation attempts are the brute-force surface, so the limit keys on
	// IP and target user together.
	r.Mux.Handle("POST /v1/users/{username}/twofactor/validate",
		httpx.Chain(http.HandlerFunc(validate.HandlePost),
			admin,
			httpx.RateLimitByIPAndUsername(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/users/{username}/twofactor",
		httpx.Chain(http.HandlerFunc(enrollment.HandleUnenroll),
			admin,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /v1/jwks",
		httpx.Chain(JWKSHandler(r.attestor),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.attestor))
}
