// Package service orchestrates admin rule submissions: it validates and
// normalizes raw form rows into offer rules and persists them as a full
// replacement of the stored set.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dmartinc/offerlock/internal/numeric"
	"github.com/dmartinc/offerlock/internal/offer"
	"github.com/dmartinc/offerlock/internal/store"
)

// RuleSetService exposes the admin-facing operations over the rule store.
type RuleSetService struct {
	store    store.RuleStore
	decimals int32
	logger   *slog.Logger
}

// New creates a RuleSetService. If logger is nil, it defaults to
// slog.Default().
func New(ruleStore store.RuleStore, decimals int32, logger *slog.Logger) *RuleSetService {
	if ruleStore == nil {
		panic("service: rule store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RuleSetService{
		store:    ruleStore,
		decimals: decimals,
		logger:   logger,
	}
}

// ListAll returns every stored rule in store order.
func (s *RuleSetService) ListAll(ctx context.Context) ([]offer.Rule, error) {
	return s.store.All(ctx)
}

// OfferPriceMap returns a product id to offer price mapping for the stored
// rule set.
func (s *RuleSetService) OfferPriceMap(ctx context.Context) (map[int64]string, error) {
	rules, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	m := make(map[int64]string, len(rules))
	for _, r := range rules {
		m[r.ProductID] = r.OfferPrice
	}
	return m, nil
}

// SaveFromSubmission validates three parallel arrays of submitted rows and
// replaces the entire stored rule set with the rows that pass. Rows are
// skipped silently when the id is not positive, either normalized price is
// empty or not positive, or the offer is not strictly below the regular.
// A product id submitted twice keeps its last occurrence. Price arrays
// shorter than the id array read as empty strings for the missing rows.
//
// The browser pre-validates rows for UX, but this check never trusts it.
func (s *RuleSetService) SaveFromSubmission(ctx context.Context, productIDs []int64, offerPrices, regularPrices []string) error {
	byProduct := make(map[int64]offer.Rule, len(productIDs))

	for i, id := range productIDs {
		rawOffer := at(offerPrices, i)
		rawRegular := at(regularPrices, i)

		normOffer := numeric.Normalize(rawOffer, s.decimals)
		normRegular := numeric.Normalize(rawRegular, s.decimals)

		offerVal, offerOK := numeric.ParsePositive(normOffer)
		regularVal, regularOK := numeric.ParsePositive(normRegular)

		if id <= 0 || !offerOK || !regularOK || !offerVal.LessThan(regularVal) {
			s.logger.Debug("skipping invalid rule row",
				"product_id", id,
				"offer_price", rawOffer,
				"regular_price", rawRegular,
			)
			continue
		}

		byProduct[id] = offer.Rule{
			ProductID:    id,
			OfferPrice:   normOffer,
			RegularPrice: normRegular,
		}
	}

	rules := make([]offer.Rule, 0, len(byProduct))
	for _, r := range byProduct {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ProductID < rules[j].ProductID })

	if err := s.store.Save(ctx, rules); err != nil {
		return fmt.Errorf("service: persist rule set: %w", err)
	}

	s.logger.Info("rule set replaced",
		"submitted_rows", len(productIDs),
		"persisted_rules", len(rules),
	)
	return nil
}

// at reads index i from values, treating out-of-range as empty.
func at(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}
