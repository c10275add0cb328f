package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmartinc/offerlock/internal/offer"
)

// countingCatalog records which ids reach the inner catalog.
type countingCatalog struct {
	products map[int64]ProductContext
	lookups  [][]int64
}

func (c *countingCatalog) Prices(ctx context.Context, productID int64) (offer.ProductPrices, error) {
	pc, ok := c.products[productID]
	if !ok {
		return offer.ProductPrices{}, nil
	}
	return offer.ProductPrices{Price: pc.Price, RegularPrice: pc.RegularPrice, Exists: true}, nil
}

func (c *countingCatalog) Lookup(ctx context.Context, ids []int64) ([]ProductContext, error) {
	c.lookups = append(c.lookups, ids)

	out := make([]ProductContext, 0, len(ids))
	for _, id := range ids {
		if pc, ok := c.products[id]; ok {
			out = append(out, pc)
		}
	}
	return out, nil
}

func TestCachedCatalog_Lookup(t *testing.T) {
	inner := &countingCatalog{products: map[int64]ProductContext{
		1: {ProductID: 1, Name: "One", Price: "10"},
		2: {ProductID: 2, Name: "Two", Price: "20"},
	}}
	cached, err := NewCachedCatalog(inner, 100, time.Minute)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()

	items, err := cached.Lookup(ctx, []int64{2, 1, 1, 99})
	require.NoError(t, err)
	require.Len(t, items, 2, "duplicates and unknown ids are dropped")
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, int64(2), items[1].ProductID)
	require.Len(t, inner.lookups, 1)
	assert.Equal(t, []int64{2, 1, 99}, inner.lookups[0], "each distinct id fetched once")

	// Second lookup of the same known ids is served from the cache.
	items, err = cached.Lookup(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Len(t, inner.lookups, 1, "known ids must not hit the inner catalog again")
}

func TestCachedCatalog_PricesBypassCache(t *testing.T) {
	inner := &countingCatalog{products: map[int64]ProductContext{
		1: {ProductID: 1, Name: "One", Price: "10"},
	}}
	cached, err := NewCachedCatalog(inner, 100, time.Minute)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	_, err = cached.Lookup(ctx, []int64{1})
	require.NoError(t, err)

	inner.products[1] = ProductContext{ProductID: 1, Name: "One", Price: "8"}

	prices, err := cached.Prices(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "8", prices.Price, "price evaluation must always see live values")
}
