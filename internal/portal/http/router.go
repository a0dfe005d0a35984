package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/httpx"
	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"

	_ "github.com/aussiebroadwan/hoaportal/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	registry     *prometheus.Registry

	store               store.Store
	IdentityService     *service.IdentityService
	UserService         *service.UserService
	PaymentService      *service.PaymentService
	AnnouncementService *service.AnnouncementService
	MFAService          *service.MFAService
}

// NewRouter builds a router. corsOrigin may be empty to disable CORS.
// HTTP metrics are registered on reg and exposed on /metrics.
func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	reg *prometheus.Registry,
	corsOrigin string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		registry:     reg,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if corsOrigin != "" {
		r.middlewares = append(r.middlewares, httpx.CORS(corsOrigin))
	}
	r.middlewares = append(r.middlewares, httpx.NewHTTPMetrics(reg, "portal").Middleware())

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerMFA()
	r.registerPayments()
	r.registerAnnouncements()
	r.registerAdminUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			HOA Portal API
//	@version		0.1.0
//	@description	Homeowners' association portal: payment claims and their adjudication, announcements and member management.
//	@description
//	@description				Session tokens are EdDSA signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/hoaportal
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
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticator resolves bearer tokens through the identity service, which
// reloads the member on every call.
func (r *Router) authenticator() httpx.Authenticator {
	return httpx.AuthenticatorFunc(func(ctx context.Context, token string) (httpx.Principal, error) {
		actor, err := r.IdentityService.Authenticate(ctx, token)
		if err != nil {
			return httpx.Principal{}, err
		}
		return httpx.Principal{UserID: actor.UserID, Role: string(actor.Role)}, nil
	})
}

// member wraps h for any signed-in role.
func (r *Router) member(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.authenticator()),
		httpx.RateLimitByUser(limit),
	)
}

// gated wraps h so only roles allowed to perform action reach it.
func (r *Router) gated(h http.HandlerFunc, action authz.Action, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.authenticator()),
		httpx.Require(func(p httpx.Principal) bool {
			role, ok := domain.ParseRole(p.Role)
			return ok && authz.Allowed(role, action)
		}),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{IdentityService: r.IdentityService}

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP + email to slow credential stuffing
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/me", r.member(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/me", r.member(h.HandleUpdate, httpx.ModerateLimit))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("POST /v1/me/mfa/totp/enroll", r.member(h.HandleEnroll, httpx.ModerateLimit))
	// verify and remove take codes: strict to prevent brute force
	r.Mux.Handle("POST /v1/me/mfa/totp/verify", r.member(h.HandleVerify, httpx.StrictLimit))
	r.Mux.Handle("DELETE /v1/me/mfa/totp", r.member(h.HandleRemove, httpx.StrictLimit))
}

func (r *Router) registerPayments() {
	h := &PaymentsHandler{PaymentService: r.PaymentService}

	r.Mux.Handle("POST /v1/payments", r.gated(h.HandleSubmit, authz.SubmitPayment, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/payments", r.gated(h.HandleListOwn, authz.ViewOwnPayments, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/payments/all", r.gated(h.HandleListAll, authz.ViewAllPayments, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/payments/categories", r.member(h.HandleCategories, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/payments/{id}", r.gated(h.HandleGet, authz.ViewOwnPayments, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/payments/{id}/status", r.gated(h.HandleTransition, authz.TransitionPaymentStatus, httpx.ModerateLimit))
}

func (r *Router) registerAnnouncements() {
	h := &AnnouncementsHandler{AnnouncementService: r.AnnouncementService}

	r.Mux.Handle("GET /v1/announcements", r.gated(h.HandleList, authz.ReadAnnouncements, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/announcements", r.gated(h.HandleCreate, authz.ManageAnnouncements, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/announcements/{id}", r.gated(h.HandleUpdate, authz.ManageAnnouncements, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/announcements/{id}", r.gated(h.HandleDelete, authz.ManageAnnouncements, httpx.ModerateLimit))
}

func (r *Router) registerAdminUsers() {
	h := &AdminUsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/admin/users", r.gated(h.HandleList, authz.ManageUsers, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/users", r.gated(h.HandleCreate, authz.ManageUsers, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/users/{id}", r.gated(h.HandleUpdate, authz.ManageUsers, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", r.gated(h.HandleDelete, authz.ManageUsers, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
