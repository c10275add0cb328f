package adminapi

import "strings"

// maxSubmissionRows bounds the parallel-array payload. The submission is
// processed in memory as a whole, so an unbounded row count is a trivial
// resource exhaustion vector.
const maxSubmissionRows = 5000

// SaveRulesRequest defines the PUT /rules payload: three parallel arrays
// indexed by row, mirroring the admin form's repeated input fields. Price
// values are raw user text; normalization happens server-side.
type SaveRulesRequest struct {
	ProductIDs    []int64  `json:"product_ids"`
	OfferPrices   []string `json:"offer_prices"`
	RegularPrices []string `json:"regular_prices"`
}

// Sanitize trims surrounding whitespace from every price value.
func (r *SaveRulesRequest) Sanitize() {
	for i, v := range r.OfferPrices {
		r.OfferPrices[i] = strings.TrimSpace(v)
	}
	for i, v := range r.RegularPrices {
		r.RegularPrices[i] = strings.TrimSpace(v)
	}
}

// Validate checks structural constraints. Row-level price validation is
// deliberately NOT done here: rows that fail validation are skipped during
// persistence, not rejected, so a partially bad submission still saves its
// good rows.
func (r *SaveRulesRequest) Validate() *ErrorResponse {
	if len(r.ProductIDs) > maxSubmissionRows {
		return &ErrorResponse{
			Code:    "ERR_INVALID_INPUT",
			Message: "Submission exceeds the maximum number of rows",
		}
	}
	return nil
}

// RuleItem is one row of the GET /rules response: the stored rule joined
// with catalog display data and its live evaluation status.
type RuleItem struct {
	ProductID int64 `json:"product_id"`

	// Name and SKU come from the catalog; empty when the product no
	// longer exists.
	Name string `json:"name"`
	SKU  string `json:"sku"`

	// CurrentPrice is the live catalog price formatted at the configured
	// precision. CurrentPriceRaw is the unformatted stored value.
	CurrentPrice    string `json:"current_price"`
	CurrentPriceRaw string `json:"current_price_raw"`

	// OfferPrice and RegularPrice are the stored, normalized rule values.
	// RegularPrice is empty when the rule has no explicit regular price.
	OfferPrice   string `json:"offer_price"`
	RegularPrice string `json:"regular_price"`

	// Status is the evaluation outcome for this rule right now:
	// inactive, not_resolvable, invalid, or active.
	Status string `json:"status"`
}

// ListRulesResponse wraps the rule rows.
type ListRulesResponse struct {
	Items []RuleItem `json:"items"`
}

// ProductsContextRequest defines the POST /products/context payload.
type ProductsContextRequest struct {
	IDs []int64 `json:"ids"`
}

// maxContextIDs bounds a single picker lookup.
const maxContextIDs = 200

// Validate checks the requested id list.
func (r *ProductsContextRequest) Validate() *ErrorResponse {
	if len(r.IDs) == 0 {
		return &ErrorResponse{
			Code:    "ERR_INVALID_INPUT",
			Message: "At least one product id is required",
		}
	}
	if len(r.IDs) > maxContextIDs {
		return &ErrorResponse{
			Code:    "ERR_INVALID_INPUT",
			Message: "Too many product ids in a single lookup",
		}
	}
	return nil
}

// ProductContextItem is the picker's view of one product, with any stored
// rule values prefilled so adding an already-configured product round-trips.
type ProductContextItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`

	CurrentPrice    string `json:"current_price"`
	CurrentPriceRaw string `json:"current_price_raw"`

	// RegularPriceRaw is the catalog regular price, used as the form
	// prefill when no rule-configured value exists.
	RegularPriceRaw string `json:"regular_price_raw"`

	// RegularPriceInput and OfferPriceInput carry stored rule values for
	// products that already have a rule.
	RegularPriceInput string `json:"regular_price_input,omitempty"`
	OfferPriceInput   string `json:"offer_price_input,omitempty"`
}

// ProductsContextResponse wraps the picker rows.
type ProductsContextResponse struct {
	Items []ProductContextItem `json:"items"`
}

// ErrorResponse represents a standard structured API error.
type ErrorResponse struct {
	// Code is a machine-readable error code (e.g., "ERR_INVALID_INPUT").
	Code string `json:"code"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`
}
