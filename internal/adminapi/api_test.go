package adminapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmartinc/offerlock/internal/catalog"
	"github.com/dmartinc/offerlock/internal/offer"
	"github.com/dmartinc/offerlock/internal/service"
	"github.com/dmartinc/offerlock/internal/store"
)

// fakeCatalog serves a fixed set of products.
type fakeCatalog struct {
	products map[int64]catalog.ProductContext
}

func (f *fakeCatalog) Prices(ctx context.Context, productID int64) (offer.ProductPrices, error) {
	pc, ok := f.products[productID]
	if !ok {
		return offer.ProductPrices{}, nil
	}
	return offer.ProductPrices{Price: pc.Price, RegularPrice: pc.RegularPrice, Exists: true}, nil
}

func (f *fakeCatalog) Lookup(ctx context.Context, ids []int64) ([]catalog.ProductContext, error) {
	var out []catalog.ProductContext
	for _, id := range ids {
		if pc, ok := f.products[id]; ok {
			out = append(out, pc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func newTestAPI(t *testing.T, ruleStore store.RuleStore, products *fakeCatalog) *API {
	t.Helper()
	return NewAPIWithConfig(Deps{
		Rules:     service.New(ruleStore, 2, nil),
		RuleStore: ruleStore,
		Products:  products,
		Decimals:  2,
	}, "", true)
}

func seededCatalog() *fakeCatalog {
	// Price strings carry the four fractional digits the NUMERIC catalog
	// columns render with.
	return &fakeCatalog{products: map[int64]catalog.ProductContext{
		101: {ProductID: 101, Name: "Trail Shoe", SKU: "TS-101", Price: "89.9000", RegularPrice: "99.9000"},
		102: {ProductID: 102, Name: "Running Sock", SKU: "RS-102", Price: "12.0000", RegularPrice: ""},
	}}
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t, store.NewMemoryRuleStore(), seededCatalog())

	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSaveAndListRules(t *testing.T) {
	ruleStore := store.NewMemoryRuleStore()
	api := newTestAPI(t, ruleStore, seededCatalog())

	body, err := json.Marshal(SaveRulesRequest{
		ProductIDs:    []int64{101, 102},
		OfferPrices:   []string{"79,90", "9.50"},
		RegularPrices: []string{"99.90", ""},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListRulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1, "row without a resolvable regular price must be skipped")

	item := resp.Items[0]
	assert.Equal(t, int64(101), item.ProductID)
	assert.Equal(t, "Trail Shoe", item.Name)
	assert.Equal(t, "TS-101", item.SKU)
	assert.Equal(t, "79.9", item.OfferPrice)
	assert.Equal(t, "99.9", item.RegularPrice)
	assert.Equal(t, "89.9", item.CurrentPrice, "machine form must not be misread as grouping")
	assert.Equal(t, "89.9000", item.CurrentPriceRaw)
	assert.Equal(t, "active", item.Status)
}

func TestSaveRulesReplacesWholeSet(t *testing.T) {
	ruleStore := store.NewMemoryRuleStore()
	require.NoError(t, ruleStore.Save(context.Background(), []offer.Rule{
		{ProductID: 101, OfferPrice: "79.9", RegularPrice: "99.9"},
		{ProductID: 102, OfferPrice: "9.5", RegularPrice: "12"},
	}))
	api := newTestAPI(t, ruleStore, seededCatalog())

	body, err := json.Marshal(SaveRulesRequest{
		ProductIDs:    []int64{102},
		OfferPrices:   []string{"9.5"},
		RegularPrices: []string{"12"},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rules, err := ruleStore.All(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, int64(102), rules[0].ProductID)
}

func TestSaveRulesRejectsInvalidJSON(t *testing.T) {
	api := newTestAPI(t, store.NewMemoryRuleStore(), seededCatalog())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rules", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	api.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INVALID_JSON")
}

func TestProductsContext(t *testing.T) {
	ruleStore := store.NewMemoryRuleStore()
	require.NoError(t, ruleStore.Save(context.Background(), []offer.Rule{
		{ProductID: 101, OfferPrice: "79.9", RegularPrice: "99.9"},
	}))
	api := newTestAPI(t, ruleStore, seededCatalog())

	body := []byte(`{"ids": [101, 101, 102, -5, 999]}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/context", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductsContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2, "duplicates, non-positive and unknown ids are dropped")

	first := resp.Items[0]
	assert.Equal(t, int64(101), first.ProductID)
	assert.Equal(t, "89.9", first.CurrentPrice)
	assert.Equal(t, "99.9000", first.RegularPriceRaw)
	assert.Equal(t, "79.9", first.OfferPriceInput, "stored rule values prefill the form")
	assert.Equal(t, "99.9", first.RegularPriceInput)

	second := resp.Items[1]
	assert.Equal(t, int64(102), second.ProductID)
	assert.Empty(t, second.OfferPriceInput)
}

func TestProductsContextRejectsEmptyIDList(t *testing.T) {
	api := newTestAPI(t, store.NewMemoryRuleStore(), seededCatalog())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/context", bytes.NewReader([]byte(`{"ids": []}`)))
	req.Header.Set("Content-Type", "application/json")
	api.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INVALID_INPUT")
}

func TestAuthentication(t *testing.T) {
	key := "test-api-key"
	sum := sha256.Sum256([]byte(key))

	api := NewAPIWithConfig(Deps{
		Rules:     service.New(store.NewMemoryRuleStore(), 2, nil),
		RuleStore: store.NewMemoryRuleStore(),
		Products:  seededCatalog(),
		Decimals:  2,
	}, hex.EncodeToString(sum[:]), false)

	t.Run("missing key is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		api.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid key is accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
		req.Header.Set("X-API-Key", key)
		api.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health stays public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminPageServed(t *testing.T) {
	api := newTestAPI(t, store.NewMemoryRuleStore(), seededCatalog())

	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ol-rules-form")
}

func TestNewAPIWithConfigPanicsOnNilDeps(t *testing.T) {
	ruleStore := store.NewMemoryRuleStore()
	deps := Deps{
		Rules:     service.New(ruleStore, 2, nil),
		RuleStore: ruleStore,
		Products:  seededCatalog(),
		Decimals:  2,
	}

	assert.Panics(t, func() {
		bad := deps
		bad.Rules = nil
		NewAPIWithConfig(bad, "", true)
	})
	assert.Panics(t, func() {
		bad := deps
		bad.Products = nil
		NewAPIWithConfig(bad, "", true)
	})
	assert.Panics(t, func() {
		NewAPIWithConfig(deps, "", false)
	}, "auth enabled without a key hash is a configuration bug")
}
