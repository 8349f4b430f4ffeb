package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/metrics"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/pkg/httpx"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"

	_ "github.com/aussiebroadwan/campaignhub/api/hub" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gate         *httpx.Gate
	limit        httpx.Middleware
	loginGuard   *httpx.BurstGuard
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService          *service.AuthService
	UserService          *service.UserService
	CampaignService      *service.CampaignService
	CollaborationService *service.CollaborationService
	TicketService        *service.TicketService
}

// NewRouter wires the global pipeline. limit is the global rate limiter and
// runs first on every /v1 and health route. limit and loginGuard may be nil.
func NewRouter(
	gate *httpx.Gate,
	limit httpx.Middleware,
	loginGuard *httpx.BurstGuard,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		gate:         gate,
		limit:        limit,
		loginGuard:   loginGuard,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerCampaigns()
	r.registerCollaborations()
	r.registerTickets()
	r.registerSystem()

	r.Mux.Handle("GET /metrics", promhttp.Handler())
	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Campaign Hub API
//	@version		0.1.0
//	@description	Brand campaigns, influencer collaborations and support tickets behind a rate-limited, role-gated API.
//	@description
//	@description				Access tokens are HS256 JWTs issued by /v1/auth/login and /v1/auth/register.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/campaignhub
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

// public runs h behind the global limiter only.
func (r *Router) public(h http.Handler, extra ...httpx.Middleware) http.Handler {
	return httpx.Chain(h, append([]httpx.Middleware{r.limit}, extra...)...)
}

// secured runs h behind the limiter and the authentication gate, then the
// role check when roles are given.
func (r *Router) secured(h http.Handler, roles ...domain.Role) http.Handler {
	mws := []httpx.Middleware{r.limit, r.gate.Authenticate()}
	if len(roles) > 0 {
		mws = append(mws, httpx.RequireRoles(domain.Names(roles...)...))
	}
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/auth/register", r.public(http.HandlerFunc(h.HandleRegister)))

	// Login also runs the per IP+email burst guard against password guessing.
	var login []httpx.Middleware
	if r.loginGuard != nil {
		login = append(login, r.loginGuard.Middleware())
	}
	r.Mux.Handle("POST /v1/auth/login", r.public(http.HandlerFunc(h.HandleLogin), login...))

	r.Mux.Handle("POST /v1/auth/refresh", r.public(http.HandlerFunc(h.HandleRefresh)))
	r.Mux.Handle("GET /v1/auth/me", r.secured(http.HandlerFunc(h.HandleMe)))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users", r.secured(http.HandlerFunc(h.HandleList), domain.RoleAdmin))
	r.Mux.Handle("PATCH /v1/users/{id}/role", r.secured(http.HandlerFunc(h.HandleChangeRole), domain.RoleAdmin))
}

func (r *Router) registerCampaigns() {
	h := &CampaignsHandler{CampaignService: r.CampaignService}
	managers := []domain.Role{domain.RoleAdmin, domain.RoleBrandManager}

	browse := []httpx.Middleware{r.gate.OptionalAuthenticate()}
	r.Mux.Handle("GET /v1/campaigns", r.public(http.HandlerFunc(h.HandleList), browse...))
	r.Mux.Handle("GET /v1/campaigns/{id}", r.public(http.HandlerFunc(h.HandleGet), browse...))

	r.Mux.Handle("POST /v1/campaigns", r.secured(http.HandlerFunc(h.HandleCreate), managers...))
	r.Mux.Handle("PATCH /v1/campaigns/{id}", r.secured(http.HandlerFunc(h.HandleUpdate), managers...))
	r.Mux.Handle("DELETE /v1/campaigns/{id}", r.secured(http.HandlerFunc(h.HandleDelete), managers...))

	for _, action := range []domain.Action{
		domain.ActionActivate,
		domain.ActionPause,
		domain.ActionResume,
		domain.ActionComplete,
		domain.ActionCancel,
	} {
		r.Mux.Handle("POST /v1/campaigns/{id}/"+string(action), r.secured(h.HandleAction(action), managers...))
	}
}

func (r *Router) registerCollaborations() {
	h := &CollaborationsHandler{CollaborationService: r.CollaborationService}
	managers := []domain.Role{domain.RoleAdmin, domain.RoleBrandManager}

	r.Mux.Handle("POST /v1/campaigns/{id}/collaborations", r.secured(http.HandlerFunc(h.HandleInvite), managers...))
	r.Mux.Handle("GET /v1/campaigns/{id}/collaborations", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/collaborations/{id}", r.secured(http.HandlerFunc(h.HandleGet)))

	for _, action := range []domain.Action{domain.ActionAccept, domain.ActionDecline} {
		r.Mux.Handle("POST /v1/collaborations/{id}/"+string(action), r.secured(h.HandleAction(action), domain.RoleInfluencer))
	}
	for _, action := range []domain.Action{domain.ActionStart, domain.ActionComplete, domain.ActionCancel} {
		r.Mux.Handle("POST /v1/collaborations/{id}/"+string(action), r.secured(h.HandleAction(action), managers...))
	}
}

func (r *Router) registerTickets() {
	h := &TicketsHandler{TicketService: r.TicketService}

	r.Mux.Handle("POST /v1/tickets", r.secured(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/tickets", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/tickets/{id}", r.secured(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("DELETE /v1/tickets/{id}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", r.public(LivezHandler(r.startTime, r.buildVersion)))
	r.Mux.Handle("GET /readyz", r.public(ReadyzHandler(r.startTime, r.buildVersion, r.store)))
}
