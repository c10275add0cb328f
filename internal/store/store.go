// Package store persists the offer rule set. The durable shape is a single
// key-value entry holding a JSON mapping from product id to rule, replaced
// wholesale on every save.
package store

import (
	"context"

	"github.com/dmartinc/offerlock/internal/offer"
)

// RuleStore is the persistence contract for the rule set.
type RuleStore interface {
	// All returns every stored rule. Order carries no priority.
	All(ctx context.Context) ([]offer.Rule, error)

	// Save replaces the entire stored rule set with the given rules.
	// There is no partial update: rules absent from the slice are deleted.
	Save(ctx context.Context, rules []offer.Rule) error
}
