// Package offer implements the price-override domain: the stored rule
// entity and the evaluator that decides, per product, whether a rule
// currently forces the storefront price.
package offer

// Rule pins a forced offer price to a single product. RegularPrice is the
// optional "was" price the discount is compared against; when empty the
// evaluator falls back to the product's live price.
//
// Rules are never mutated after construction. The whole rule set is
// replaced on every save.
type Rule struct {
	ProductID    int64
	OfferPrice   string
	RegularPrice string
}

// HasRegularPrice reports whether an explicit regular price was configured.
func (r Rule) HasRegularPrice() bool {
	return r.RegularPrice != ""
}
