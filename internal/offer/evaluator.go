package offer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/dmartinc/offerlock/internal/numeric"
)

// State classifies the outcome of evaluating a product against the rule set.
// The same three non-inactive states drive the admin status column and the
// browser-side row validator, so their comparison semantics must not drift.
type State int

const (
	// StateInactive means no rule exists for the product.
	StateInactive State = iota

	// StateNotResolvable means a rule exists but no usable regular price
	// does: nothing is configured and the product has no positive live price.
	StateNotResolvable

	// StateInvalid means the offer is not strictly below the resolved
	// regular price (or is not a positive number).
	StateInvalid

	// StateActive means the rule forces the computed prices.
	StateActive
)

// String returns the metric/label form of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateNotResolvable:
		return "not_resolvable"
	case StateInvalid:
		return "invalid"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// ProductPrices is a product's live pricing as the catalog currently reports
// it, independent of any rule. Empty strings mean "unset". Exists is false
// when the product id no longer resolves; that is never an error.
type ProductPrices struct {
	Price        string
	RegularPrice string
	Exists       bool
}

// ProductSource reads a product's live prices by id.
type ProductSource interface {
	Prices(ctx context.Context, productID int64) (ProductPrices, error)
}

// RuleSource is the read side of the rule store the evaluator depends on.
type RuleSource interface {
	All(ctx context.Context) ([]Rule, error)
}

// Resolution is the transient result of resolving one product. OfferPrice
// and RegularPrice are populated only for StateActive, formatted to the
// configured price decimals.
type Resolution struct {
	State        State
	OfferPrice   string
	RegularPrice string
}

// Evaluator decides whether stored rules force a price for a product.
//
// The rule map is loaded lazily on first query and memoized for the
// lifetime of the instance with no invalidation: construct a fresh
// Evaluator per logical request to observe new writes. Instances are not
// safe for concurrent use.
type Evaluator struct {
	rules    RuleSource
	source   ProductSource
	decimals int32
	logger   *slog.Logger

	ruleMap map[int64]Rule
}

// NewEvaluator creates an Evaluator over the given rule and product sources.
// If logger is nil, it defaults to slog.Default().
func NewEvaluator(rules RuleSource, source ProductSource, decimals int32, logger *slog.Logger) *Evaluator {
	if rules == nil {
		panic("offer: rule source cannot be nil")
	}
	if source == nil {
		panic("offer: product source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		rules:    rules,
		source:   source,
		decimals: decimals,
		logger:   logger,
	}
}

// Resolve runs the per-product decision:
//
//  1. No rule for the id -> StateInactive.
//  2. Resolve the regular price: the configured regular if positive, else
//     the product's live price (price, then regular price). No usable value
//     -> StateNotResolvable.
//  3. Offer not positive, or offer >= regular -> StateInvalid.
//  4. Otherwise StateActive with both prices formatted to the configured
//     decimals.
//
// Errors are infrastructure failures (store or catalog); every domain
// outcome is a state, never an error.
func (e *Evaluator) Resolve(ctx context.Context, productID int64) (Resolution, error) {
	rules, err := e.rulesByProduct(ctx)
	if err != nil {
		return Resolution{}, err
	}

	rule, ok := rules[productID]
	if !ok {
		return Resolution{State: StateInactive}, nil
	}

	regular, resolved, err := e.resolveRegular(ctx, productID, rule)
	if err != nil {
		return Resolution{}, err
	}
	if !resolved {
		return Resolution{State: StateNotResolvable}, nil
	}

	offerPrice, ok := numeric.ParsePositive(rule.OfferPrice)
	if !ok || !offerPrice.LessThan(regular) {
		return Resolution{State: StateInvalid}, nil
	}

	return Resolution{
		State:        StateActive,
		OfferPrice:   numeric.Format(offerPrice, e.decimals),
		RegularPrice: numeric.Format(regular, e.decimals),
	}, nil
}

// ForcedPrice returns the forced offer price for the product, and whether
// the rule is active.
func (e *Evaluator) ForcedPrice(ctx context.Context, productID int64) (string, bool, error) {
	res, err := e.Resolve(ctx, productID)
	if err != nil || res.State != StateActive {
		return "", false, err
	}
	return res.OfferPrice, true, nil
}

// ForcedRegularPrice returns the forced regular ("was") price for the
// product, and whether the rule is active.
func (e *Evaluator) ForcedRegularPrice(ctx context.Context, productID int64) (string, bool, error) {
	res, err := e.Resolve(ctx, productID)
	if err != nil || res.State != StateActive {
		return "", false, err
	}
	return res.RegularPrice, true, nil
}

// ForcedOnSaleProductIDs returns every product id whose rule is currently
// active, in ascending order. Products gone from the catalog are skipped
// silently, even when the rule carries its own regular price.
func (e *Evaluator) ForcedOnSaleProductIDs(ctx context.Context) ([]int64, error) {
	rules, err := e.rulesByProduct(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rules))
	for id := range rules {
		prices, err := e.source.Prices(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("offer: read live prices for product %d: %w", id, err)
		}
		if !prices.Exists {
			continue
		}

		res, err := e.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		if res.State == StateActive {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)
	return ids, nil
}

// resolveRegular picks the regular price: configured value first, live
// price as fallback. The boolean reports whether any usable value exists.
func (e *Evaluator) resolveRegular(ctx context.Context, productID int64, rule Rule) (decimal.Decimal, bool, error) {
	if d, ok := numeric.ParsePositive(rule.RegularPrice); ok {
		return d, true, nil
	}

	prices, err := e.source.Prices(ctx, productID)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("offer: read live prices for product %d: %w", productID, err)
	}
	if !prices.Exists {
		return decimal.Decimal{}, false, nil
	}

	raw := prices.Price
	if raw == "" {
		raw = prices.RegularPrice
	}
	if d, ok := numeric.ParsePositive(raw); ok {
		return d, true, nil
	}

	return decimal.Decimal{}, false, nil
}

// rulesByProduct builds the memoized id -> rule map on first use.
func (e *Evaluator) rulesByProduct(ctx context.Context) (map[int64]Rule, error) {
	if e.ruleMap != nil {
		return e.ruleMap, nil
	}

	all, err := e.rules.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("offer: load rules: %w", err)
	}

	m := make(map[int64]Rule, len(all))
	for _, r := range all {
		if r.ProductID <= 0 {
			e.logger.Warn("skipping rule with invalid product id", "product_id", r.ProductID)
			continue
		}
		m[r.ProductID] = r
	}

	e.ruleMap = m
	return m, nil
}
