package storefrontapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/numeric"
	"github.com/dmartinc/offerlock/internal/observability"
	"github.com/dmartinc/offerlock/internal/offer"
)

// handlePrice processes the GET /api/v1/products/{productID}/price request.
//
// Responsibilities:
// 1. Parses and validates the product id.
// 2. Reads the live catalog prices; unknown products get 404.
// 3. Evaluates the rule set for the product.
// 4. Returns the forced prices when the rule applies, the live prices
//    otherwise. A rule that is inactive, not resolvable, or invalid never
//    alters the displayed price.
func (a *API) handlePrice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INVALID_INPUT",
			Message: "Product id must be a positive integer",
		})
		return
	}

	live, err := a.products.Prices(r.Context(), productID)
	if err != nil {
		log.Error("failed to read catalog prices", slog.Int64("product_id", productID), "error", err)
		internalError(w, r, "Failed to read product prices")
		return
	}
	if !live.Exists {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_NOT_FOUND",
			Message: "Product not found",
		})
		return
	}

	eval := offer.NewEvaluator(a.ruleStore, a.products, a.decimals, log)
	res, err := eval.Resolve(r.Context(), productID)
	if err != nil {
		log.Error("failed to evaluate rule", slog.Int64("product_id", productID), "error", err)
		internalError(w, r, "Failed to evaluate the price")
		return
	}

	observability.EvaluationsTotal.WithLabelValues(res.State.String()).Inc()

	resp := PriceResponse{ProductID: productID}
	if res.State == offer.StateActive {
		resp.Price = res.OfferPrice
		resp.RegularPrice = res.RegularPrice
		resp.OnOffer = true
	} else {
		resp.Price = numeric.Canonical(live.Price, a.decimals)
		resp.RegularPrice = numeric.Canonical(live.RegularPrice, a.decimals)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// handleOnOffer processes the GET /api/v1/products/on-offer request. It
// returns the ids of every product whose rule currently applies, in
// ascending order. Products that no longer exist in the catalog are
// omitted.
func (a *API) handleOnOffer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	eval := offer.NewEvaluator(a.ruleStore, a.products, a.decimals, log)
	ids, err := eval.ForcedOnSaleProductIDs(r.Context())
	if err != nil {
		log.Error("failed to list on-offer products", "error", err)
		internalError(w, r, "Failed to list on-offer products")
		return
	}

	if ids == nil {
		ids = []int64{}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, OnOfferResponse{ProductIDs: ids})
}

func internalError(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{
		Code:    "ERR_INTERNAL",
		Message: message,
	})
}
