// Package storefrontapi implements the read-side REST API consumed by the
// storefront: effective price lookups and the on-offer product listing.
// It sits on the product page critical path, so handlers stay allocation
// light and every catalog read is live (no caching layer in front of
// prices).
package storefrontapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmartinc/offerlock/internal/offer"
	"github.com/dmartinc/offerlock/internal/store"
)

// Deps bundles the collaborators the storefront plane needs.
type Deps struct {
	// RuleStore backs the per-request evaluator.
	RuleStore store.RuleStore

	// Products serves live prices.
	Products offer.ProductSource

	// Decimals is the configured price precision.
	Decimals int32
}

// API holds the router and dependencies for the storefront plane.
type API struct {
	// Router is the chi multiplexer handling HTTP requests.
	Router *chi.Mux

	ruleStore store.RuleStore
	products  offer.ProductSource
	decimals  int32
}

// NewAPI creates a storefront API and registers its routes.
func NewAPI(deps Deps) *API {
	if deps.RuleStore == nil {
		panic("storefrontapi: rule store cannot be nil")
	}
	if deps.Products == nil {
		panic("storefrontapi: product source cannot be nil")
	}

	api := &API{
		Router:    chi.NewRouter(),
		ruleStore: deps.RuleStore,
		products:  deps.Products,
		decimals:  deps.Decimals,
	}

	api.configureRoutes()
	return api
}

func (a *API) configureRoutes() {
	a.Router.Use(RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(RequestLogger)
	a.Router.Use(middleware.Recoverer)

	a.Router.Get("/health", a.handleHealthCheck)
	a.Router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	a.Router.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/products/on-offer", a.handleOnOffer)
		r.Get("/products/{productID}/price", a.handlePrice)
	})
}

// handleHealthCheck reports HTTP serving capability (shallow check).
func (a *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
