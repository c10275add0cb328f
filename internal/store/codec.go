package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmartinc/offerlock/internal/numeric"
	"github.com/dmartinc/offerlock/internal/offer"
)

// storedRule is the durable encoding of one rule. RegularPrice is the empty
// string when no regular price was configured.
type storedRule struct {
	OfferPrice   string `json:"offer_price"`
	RegularPrice string `json:"regular_price"`
}

// encodeRules serializes the rule set as a JSON object keyed by product id.
// Writes always use the structured shape; the legacy bare-scalar shape is
// read-only.
func encodeRules(rules []offer.Rule) ([]byte, error) {
	payload := make(map[string]storedRule, len(rules))
	for _, r := range rules {
		payload[strconv.FormatInt(r.ProductID, 10)] = storedRule{
			OfferPrice:   r.OfferPrice,
			RegularPrice: r.RegularPrice,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("store: encode rule set: %w", err)
	}
	return data, nil
}

// decodeRules parses a stored payload back into rules, sorted by product id.
//
// Two value shapes are accepted: the structured {"offer_price", "regular_price"}
// object, and a legacy bare scalar (JSON string or number) meaning an offer
// price with no configured regular. Entries with a non-positive id or a
// non-positive offer are dropped; a non-positive regular is read as absent.
//
// Stored values are already canonical decimals, so they read back with a
// plain parse and a rounding format. The locale separator heuristic belongs
// to the submission path only; applying it here would misread a canonical
// three-fractional-digit value as thousands grouping.
func decodeRules(data []byte, decimals int32) ([]offer.Rule, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("store: decode rule set: %w", err)
	}

	rules := make([]offer.Rule, 0, len(raw))
	for key, val := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			continue
		}

		rawOffer, rawRegular, ok := decodeRuleValue(val)
		if !ok {
			continue
		}

		offerVal, ok := numeric.ParsePositive(strings.TrimSpace(rawOffer))
		if !ok {
			continue
		}
		offerPrice := numeric.Format(offerVal, decimals)

		regularPrice := ""
		if regularVal, ok := numeric.ParsePositive(strings.TrimSpace(rawRegular)); ok {
			regularPrice = numeric.Format(regularVal, decimals)
		}

		rules = append(rules, offer.Rule{
			ProductID:    id,
			OfferPrice:   offerPrice,
			RegularPrice: regularPrice,
		})
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].ProductID < rules[j].ProductID })
	return rules, nil
}

// decodeRuleValue handles the two accepted value shapes for one entry.
func decodeRuleValue(val json.RawMessage) (offerPrice, regularPrice string, ok bool) {
	var structured storedRule
	if err := json.Unmarshal(val, &structured); err == nil {
		return structured.OfferPrice, structured.RegularPrice, true
	}

	var scalar string
	if err := json.Unmarshal(val, &scalar); err == nil {
		return scalar, "", true
	}

	var num json.Number
	if err := json.Unmarshal(val, &num); err == nil {
		return num.String(), "", true
	}

	return "", "", false
}
