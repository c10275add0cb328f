package adminapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/dmartinc/offerlock/internal/catalog"
	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/numeric"
	"github.com/dmartinc/offerlock/internal/offer"
)

// handleListRules processes the GET /api/v1/rules request.
//
// Responsibilities:
// 1. Loads the stored rule set.
// 2. Joins each rule with catalog display data (name, SKU, live price).
// 3. Evaluates each rule against live catalog prices for the status column.
// 4. Returns the joined rows sorted by product id.
func (a *API) handleListRules(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	rules, err := a.rules.ListAll(r.Context())
	if err != nil {
		log.Error("failed to load rule set", "error", err)
		internalError(w, r, "Failed to load the rule set")
		return
	}

	ids := make([]int64, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.ProductID)
	}

	contexts := map[int64]catalog.ProductContext{}
	if len(ids) > 0 {
		found, err := a.products.Lookup(r.Context(), ids)
		if err != nil {
			log.Error("failed to look up products", "error", err)
			internalError(w, r, "Failed to look up product data")
			return
		}
		for _, pc := range found {
			contexts[pc.ProductID] = pc
		}
	}

	// A fresh evaluator per request keeps the memoized rule map scoped to
	// this response, so the status column never lags the list it annotates.
	eval := offer.NewEvaluator(a.ruleStore, a.products, a.decimals, log)

	items := make([]RuleItem, 0, len(rules))
	for _, rule := range rules {
		res, err := eval.Resolve(r.Context(), rule.ProductID)
		if err != nil {
			log.Error("failed to evaluate rule", slog.Int64("product_id", rule.ProductID), "error", err)
			internalError(w, r, "Failed to evaluate the rule set")
			return
		}

		pc := contexts[rule.ProductID]
		items = append(items, RuleItem{
			ProductID:       rule.ProductID,
			Name:            pc.Name,
			SKU:             pc.SKU,
			CurrentPrice:    numeric.Canonical(pc.Price, a.decimals),
			CurrentPriceRaw: pc.Price,
			OfferPrice:      rule.OfferPrice,
			RegularPrice:    rule.RegularPrice,
			Status:          res.State.String(),
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ListRulesResponse{Items: items})
}

// handleSaveRules processes the PUT /api/v1/rules request.
//
// Responsibilities:
// 1. Decodes the parallel-array payload.
// 2. Sanitizes and validates structural constraints.
// 3. Delegates row validation and whole-set persistence to the service.
// 4. Returns 204 No Content on success.
//
// The submission replaces the entire rule set: products omitted from the
// payload lose their rules.
func (a *API) handleSaveRules(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req SaveRulesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("invalid json payload", slog.String("error", err.Error()))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INVALID_JSON",
			Message: "Invalid JSON payload: " + err.Error(),
		})
		return
	}

	req.Sanitize()
	if errResp := req.Validate(); errResp != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResp)
		return
	}

	if err := a.rules.SaveFromSubmission(r.Context(), req.ProductIDs, req.OfferPrices, req.RegularPrices); err != nil {
		log.Error("failed to persist rule set", "error", err)
		internalError(w, r, "Failed to persist the rule set")
		return
	}

	render.NoContent(w, r)
}

func internalError(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{
		Code:    "ERR_INTERNAL",
		Message: message,
	})
}
