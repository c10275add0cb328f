// Package adminapi implements the REST API for the offerlock admin plane:
// rule management, the batched product lookup for the picker, and the
// embedded admin page.
package adminapi

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmartinc/offerlock/internal/catalog"
	"github.com/dmartinc/offerlock/internal/service"
	"github.com/dmartinc/offerlock/internal/store"
	"github.com/dmartinc/offerlock/web"
)

// Deps bundles the collaborators the admin plane needs.
type Deps struct {
	// Rules handles submission validation and persistence.
	Rules *service.RuleSetService

	// RuleStore backs the per-request evaluator used for the status column.
	RuleStore store.RuleStore

	// Products serves picker display data and live prices.
	Products catalog.Catalog

	// Decimals is the configured price precision.
	Decimals int32
}

// API holds the router and dependencies for the admin plane.
type API struct {
	// Router is the chi multiplexer handling HTTP requests.
	Router *chi.Mux

	rules     *service.RuleSetService
	ruleStore store.RuleStore
	products  catalog.Catalog
	decimals  int32

	// apiKeyHash is the SHA-256 hash of the valid API key.
	apiKeyHash string

	// skipAuth disables authentication (tests and local development only).
	skipAuth bool
}

// NewAPI creates an admin API with authentication enabled. apiKeyHash must
// be the SHA-256 hex digest of the API key.
func NewAPI(deps Deps, apiKeyHash string) *API {
	return NewAPIWithConfig(deps, apiKeyHash, false)
}

// NewAPIWithConfig creates an admin API with explicit control over
// authentication. skipAuth exists for tests and local development; with
// authentication enabled an empty apiKeyHash is a programmer error.
func NewAPIWithConfig(deps Deps, apiKeyHash string, skipAuth bool) *API {
	if deps.Rules == nil {
		panic("adminapi: rule set service cannot be nil")
	}
	if deps.RuleStore == nil {
		panic("adminapi: rule store cannot be nil")
	}
	if deps.Products == nil {
		panic("adminapi: catalog cannot be nil")
	}
	if !skipAuth && apiKeyHash == "" {
		panic("adminapi: apiKeyHash cannot be empty when authentication is enabled")
	}

	api := &API{
		Router:     chi.NewRouter(),
		rules:      deps.Rules,
		ruleStore:  deps.RuleStore,
		products:   deps.Products,
		decimals:   deps.Decimals,
		apiKeyHash: apiKeyHash,
		skipAuth:   skipAuth,
	}

	api.configureRoutes()
	return api
}

// configureRoutes registers the middleware stack and endpoints.
func (a *API) configureRoutes() {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(RequestLogger)
	a.Router.Use(middleware.Recoverer)

	// Public routes: health, metrics, and the admin page shell. The page
	// itself is inert without a valid API key; every data call is below
	// /api/v1 and authenticated.
	a.Router.Get("/health", a.handleHealthCheck)
	a.Router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	a.Router.Get("/", a.handleAdminPage)
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic("adminapi: embedded static assets missing: " + err.Error())
	}
	a.Router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	a.Router.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(a.authenticateAPIKey)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", a.handleListRules)
			r.Put("/", a.handleSaveRules)
		})

		r.Post("/products/context", a.handleProductsContext)
	})
}

// handleHealthCheck reports HTTP serving capability (shallow check).
func (a *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
