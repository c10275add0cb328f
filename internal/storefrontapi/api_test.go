package storefrontapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmartinc/offerlock/internal/offer"
	"github.com/dmartinc/offerlock/internal/store"
)

// fakeProducts serves fixed live prices.
type fakeProducts struct {
	products map[int64]offer.ProductPrices
}

func (f *fakeProducts) Prices(ctx context.Context, productID int64) (offer.ProductPrices, error) {
	return f.products[productID], nil
}

func newTestAPI(t *testing.T, rules []offer.Rule, products map[int64]offer.ProductPrices) *API {
	t.Helper()

	ruleStore := store.NewMemoryRuleStore()
	require.NoError(t, ruleStore.Save(context.Background(), rules))

	return NewAPI(Deps{
		RuleStore: ruleStore,
		Products:  &fakeProducts{products: products},
		Decimals:  2,
	})
}

func TestPriceEndpoint(t *testing.T) {
	rules := []offer.Rule{
		{ProductID: 10, OfferPrice: "79.9", RegularPrice: "99.9"},
		{ProductID: 20, OfferPrice: "150"},
		{ProductID: 30, OfferPrice: "80"},
	}
	products := map[int64]offer.ProductPrices{
		10: {Price: "120.00", Exists: true},
		20: {Price: "100", Exists: true},
		30: {Price: "100.00", RegularPrice: "110.00", Exists: true},
		40: {Price: "15.5000", Exists: true}, // machine form with four fractional digits
	}

	tests := []struct {
		name string
		path string
		want PriceResponse
	}{
		{
			name: "active rule forces both prices",
			path: "/api/v1/products/10/price",
			want: PriceResponse{ProductID: 10, Price: "79.9", RegularPrice: "99.9", OnOffer: true},
		},
		{
			name: "invalid rule leaves live prices untouched",
			path: "/api/v1/products/20/price",
			want: PriceResponse{ProductID: 20, Price: "100", RegularPrice: "", OnOffer: false},
		},
		{
			name: "active rule with live regular fallback",
			path: "/api/v1/products/30/price",
			want: PriceResponse{ProductID: 30, Price: "80", RegularPrice: "100", OnOffer: true},
		},
		{
			name: "no rule passes the live machine form through re-rounded",
			path: "/api/v1/products/40/price",
			want: PriceResponse{ProductID: 40, Price: "15.5", RegularPrice: "", OnOffer: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, rules, products)

			rec := httptest.NewRecorder()
			api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var got PriceResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceEndpointUnknownProduct(t *testing.T) {
	api := newTestAPI(t, nil, map[int64]offer.ProductPrices{})

	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/999/price", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestPriceEndpointRejectsBadID(t *testing.T) {
	api := newTestAPI(t, nil, map[int64]offer.ProductPrices{})

	for _, path := range []string{"/api/v1/products/abc/price", "/api/v1/products/-3/price", "/api/v1/products/0/price"} {
		rec := httptest.NewRecorder()
		api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestOnOfferEndpoint(t *testing.T) {
	rules := []offer.Rule{
		{ProductID: 30, OfferPrice: "80"},
		{ProductID: 10, OfferPrice: "100"},
		{ProductID: 20, OfferPrice: "5", RegularPrice: "9"},
		{ProductID: 40, OfferPrice: "1"},
		{ProductID: 50, OfferPrice: "5", RegularPrice: "10"}, // product gone from catalog
	}
	products := map[int64]offer.ProductPrices{
		10: {Price: "100", Exists: true},
		20: {Price: "4", Exists: true},
		30: {Price: "100", Exists: true},
	}
	api := newTestAPI(t, rules, products)

	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/on-offer", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got OnOfferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []int64{20, 30}, got.ProductIDs)
}

func TestOnOfferEndpointEmptySet(t *testing.T) {
	api := newTestAPI(t, nil, map[int64]offer.ProductPrices{})

	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/on-offer", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"product_ids": []}`, rec.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	api := newTestAPI(t, nil, map[int64]offer.ProductPrices{})

	t.Run("incoming id is honored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "render-42")
		api.Router.ServeHTTP(rec, req)

		assert.Equal(t, "render-42", rec.Header().Get("X-Request-ID"))
	})

	t.Run("missing id gets a generated uuid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		id := rec.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		assert.NoError(t, err, "generated request id must be a uuid, got %q", id)
	})
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t, nil, map[int64]offer.ProductPrices{})

	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
