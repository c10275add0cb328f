// Package catalog reads product data from the commerce database. It serves
// two consumers: the evaluator, which needs a product's live prices, and
// the admin product picker, which needs display data (name, SKU, prices)
// for a batch of ids.
package catalog

import (
	"context"

	"github.com/dmartinc/offerlock/internal/offer"
)

// ProductContext is the display data the admin picker shows for one
// product. Price fields are raw decimal strings; empty means unset.
type ProductContext struct {
	ProductID    int64
	Name         string
	SKU          string
	Price        string
	RegularPrice string
}

// Catalog combines the evaluator's live price source with the batched
// display lookup used by the admin picker.
type Catalog interface {
	offer.ProductSource

	// Lookup returns display data for the given ids, in ascending id order.
	// Ids that do not resolve to a product are silently omitted.
	Lookup(ctx context.Context, ids []int64) ([]ProductContext, error)
}
