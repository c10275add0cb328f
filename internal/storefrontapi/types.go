package storefrontapi

// PriceResponse is the effective price view of one product. Price values
// are canonical decimal strings at the configured precision.
type PriceResponse struct {
	ProductID int64 `json:"product_id"`

	// Price is the effective selling price: the forced offer price when a
	// rule applies, the live catalog price otherwise.
	Price string `json:"price"`

	// RegularPrice is the strike-through price. Empty when neither the
	// rule nor the catalog provides one.
	RegularPrice string `json:"regular_price"`

	// OnOffer reports whether a rule is actively overriding the price.
	OnOffer bool `json:"on_offer"`
}

// OnOfferResponse lists the products whose rules currently apply, in
// ascending id order.
type OnOfferResponse struct {
	ProductIDs []int64 `json:"product_ids"`
}

// ErrorResponse represents a standard structured API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
