package adminapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/numeric"
	"github.com/dmartinc/offerlock/internal/offer"
)

// handleProductsContext processes the POST /api/v1/products/context request.
// It serves the picker: given a list of product ids, it returns display data
// for each product that exists, with stored rule values prefilled.
//
// Responsibilities:
// 1. Decodes and validates the id list.
// 2. Deduplicates and drops non-positive ids.
// 3. Looks up products in the catalog; unknown ids are silently absent.
// 4. Prefills offer and regular inputs from any stored rule.
func (a *API) handleProductsContext(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ProductsContextRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("invalid json payload", slog.String("error", err.Error()))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INVALID_JSON",
			Message: "Invalid JSON payload: " + err.Error(),
		})
		return
	}

	if errResp := req.Validate(); errResp != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResp)
		return
	}

	seen := make(map[int64]struct{}, len(req.IDs))
	ids := make([]int64, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	items := make([]ProductContextItem, 0, len(ids))
	if len(ids) == 0 {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, ProductsContextResponse{Items: items})
		return
	}

	found, err := a.products.Lookup(r.Context(), ids)
	if err != nil {
		log.Error("failed to look up products", "error", err)
		internalError(w, r, "Failed to look up product data")
		return
	}

	rules, err := a.rules.ListAll(r.Context())
	if err != nil {
		log.Error("failed to load rule set", "error", err)
		internalError(w, r, "Failed to load the rule set")
		return
	}
	byProduct := make(map[int64]offer.Rule, len(rules))
	for _, rule := range rules {
		byProduct[rule.ProductID] = rule
	}

	for _, pc := range found {
		item := ProductContextItem{
			ProductID:       pc.ProductID,
			Name:            pc.Name,
			SKU:             pc.SKU,
			CurrentPrice:    numeric.Canonical(pc.Price, a.decimals),
			CurrentPriceRaw: pc.Price,
			RegularPriceRaw: pc.RegularPrice,
		}
		if rule, ok := byProduct[pc.ProductID]; ok {
			item.OfferPriceInput = rule.OfferPrice
			item.RegularPriceInput = rule.RegularPrice
		}
		items = append(items, item)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ProductsContextResponse{Items: items})
}
