package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/observability"
	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/httpx"
	"github.com/aussiebroadwan/petget/pkg/slogx"

	_ "github.com/aussiebroadwan/petget/api/petget" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// PublicPrefixes skip the request authentication stage entirely.
var PublicPrefixes = []string{"/auth/", "/livez", "/readyz", "/metrics", "/swagger/", "/v1/tenants"}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	// TenantHeader defaults to httpx.DefaultTenantHeader.
	TenantHeader string

	Tokens       *service.TokenService
	Credentials  *service.CredentialStore
	Revocations  service.RevocationSet
	Sessions     *service.SessionManager
	Customers    *service.CustomerService
	Pets         *service.PetService
	Provisioning *service.ProvisioningService

	// Metrics serves /metrics. Defaults to the default Prometheus registry.
	Metrics http.Handler
}

func NewRouter(buildVersion string, db Pinger, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		observability.MetricsMiddleware,
	}

	return r
}

// ApplyRoutes registers every route and installs the authentication stage.
// The services must be set before it is called.
func (r *Router) ApplyRoutes() {
	r.middlewares = append(r.middlewares, httpx.RequestAuthentication(httpx.AuthenticationConfig{
		Tokens:         r.Tokens,
		Principals:     r.Credentials,
		Revoked:        r.Revocations,
		TenantHeader:   r.TenantHeader,
		PublicPrefixes: PublicPrefixes,
		Observe: func(o httpx.AuthOutcome) {
			observability.AuthOutcomesTotal.WithLabelValues(string(o)).Inc()
		},
	}))

	r.registerAuth()
	r.registerCustomers()
	r.registerPets()
	r.registerTenants()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			petget API
//	@version		0.1.0
//	@description	Multi-tenant clinic backend: session tokens, tenant-scoped customers and pets.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/petget
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				HS256 access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// counted makes rejections of a rate limit profile show up in metrics.
func counted(cfg httpx.RateLimitConfig) httpx.RateLimitConfig {
	cfg.OnReject = func(*http.Request) {
		observability.RateLimitRejectedTotal.WithLabelValues(cfg.Name).Inc()
	}
	return cfg
}

func (r *Router) registerAuth() {
	h := &SessionHandler{Sessions: r.Sessions}

	// POST /auth/login - strict, keyed by IP + identity to slow down guessing
	r.Mux.Handle("POST /auth/login",
		httpx.ChainFunc(h.HandleLogin,
			httpx.RateLimitByIPAndJSONField(counted(httpx.StrictLimit), "identity"),
		),
	)

	r.Mux.Handle("POST /auth/refresh",
		httpx.ChainFunc(h.HandleRefresh,
			httpx.RateLimitByIP(counted(httpx.StrictLimit)),
		),
	)

	r.Mux.Handle("POST /auth/logout",
		httpx.ChainFunc(h.HandleLogout,
			httpx.RateLimitByIP(counted(httpx.ModerateLimit)),
		),
	)

	r.Mux.Handle("GET /auth/validate",
		httpx.ChainFunc(h.HandleValidate,
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)
}

// tenantScoped is the authorization chain shared by the record endpoints.
func (r *Router) tenantScoped(perms ...string) []httpx.Middleware {
	return []httpx.Middleware{
		httpx.RequireAuthenticated(),
		httpx.RequireTenant(r.TenantHeader),
		httpx.RequireAnyPermission(perms...),
		httpx.RateLimitByUser(counted(httpx.LenientLimit)),
	}
}

func (r *Router) registerCustomers() {
	h := &CustomersHandler{Customers: r.Customers, Pets: r.Pets}

	read := r.tenantScoped(domain.PermCustomersManage, domain.PermCustomersView)
	write := r.tenantScoped(domain.PermCustomersManage)

	r.Mux.Handle("GET /v1/customers", httpx.ChainFunc(h.HandleList, read...))
	r.Mux.Handle("GET /v1/customers/{id}", httpx.ChainFunc(h.HandleGet, read...))
	r.Mux.Handle("GET /v1/customers/{id}/overview", httpx.ChainFunc(h.HandleOverview, read...))
	r.Mux.Handle("POST /v1/customers", httpx.ChainFunc(h.HandleCreate, write...))
	r.Mux.Handle("PUT /v1/customers/{id}", httpx.ChainFunc(h.HandleUpdate, write...))
	r.Mux.Handle("DELETE /v1/customers/{id}", httpx.ChainFunc(h.HandleDelete, write...))

	r.Mux.Handle("GET /v1/customers/{id}/pets",
		httpx.ChainFunc(h.HandleListPets, r.tenantScoped(domain.PermPetsManage)...))
}

func (r *Router) registerPets() {
	h := &PetsHandler{Pets: r.Pets}
	secured := r.tenantScoped(domain.PermPetsManage)

	r.Mux.Handle("POST /v1/pets", httpx.ChainFunc(h.HandleCreate, secured...))
	r.Mux.Handle("GET /v1/pets/{id}", httpx.ChainFunc(h.HandleGet, secured...))
	r.Mux.Handle("PUT /v1/pets/{id}", httpx.ChainFunc(h.HandleUpdate, secured...))
	r.Mux.Handle("DELETE /v1/pets/{id}", httpx.ChainFunc(h.HandleDelete, secured...))
}

func (r *Router) registerTenants() {
	// POST /v1/tenants - very strict rate limit by IP (operator setup endpoint)
	r.Mux.Handle("POST /v1/tenants",
		httpx.Chain(&TenantsHandler{Provisioning: r.Provisioning},
			httpx.RateLimitByIP(counted(httpx.StrictLimit)),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.Tokens.Ready),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)

	metrics := r.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Mux.Handle("GET /metrics", metrics)
}
