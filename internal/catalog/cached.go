package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/maypok86/otter"

	"github.com/dmartinc/offerlock/internal/observability"
	"github.com/dmartinc/offerlock/internal/offer"
)

var _ Catalog = (*CachedCatalog)(nil)

// CachedCatalog layers an in-memory read-through cache (otter, S3-FIFO)
// over the batched display lookup. Only picker display data is cached:
// Prices always hits the inner catalog so price evaluation sees the live
// values. The TTL bounds how stale the picker's name/SKU/price columns
// can get.
type CachedCatalog struct {
	inner Catalog
	cache otter.Cache[int64, ProductContext]
}

// NewCachedCatalog wraps the inner catalog with a cache holding at most
// capacity items for at most ttl.
func NewCachedCatalog(inner Catalog, capacity int, ttl time.Duration) (*CachedCatalog, error) {
	if inner == nil {
		panic("catalog: inner catalog cannot be nil")
	}

	cache, err := otter.MustBuilder[int64, ProductContext](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}

	return &CachedCatalog{inner: inner, cache: cache}, nil
}

// Prices delegates to the inner catalog, uncached.
func (c *CachedCatalog) Prices(ctx context.Context, productID int64) (offer.ProductPrices, error) {
	return c.inner.Prices(ctx, productID)
}

// Lookup serves cached display data where present and fetches the rest
// from the inner catalog in one batch. Results follow the interface
// contract: ascending id order, unknown ids omitted.
func (c *CachedCatalog) Lookup(ctx context.Context, ids []int64) ([]ProductContext, error) {
	found := make(map[int64]ProductContext, len(ids))
	requested := make(map[int64]struct{}, len(ids))
	missing := make([]int64, 0)

	for _, id := range ids {
		if _, dup := requested[id]; dup {
			continue
		}
		requested[id] = struct{}{}

		if item, ok := c.cache.Get(id); ok {
			observability.CatalogCacheHits.Inc()
			found[id] = item
			continue
		}
		observability.CatalogCacheMisses.Inc()
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		items, err := c.inner.Lookup(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			c.cache.Set(item.ProductID, item)
			found[item.ProductID] = item
		}
	}

	out := make([]ProductContext, 0, len(found))
	for _, item := range found {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })

	return out, nil
}

// Close shuts down the cache and its background cleanup goroutines.
func (c *CachedCatalog) Close() {
	c.cache.Close()
}
