package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmartinc/offerlock/internal/offer"
)

// Compile-time check that PostgresCatalog implements Catalog.
var _ Catalog = (*PostgresCatalog)(nil)

// PostgresCatalog reads products from the 'products' table using pgx.
type PostgresCatalog struct {
	db *pgxpool.Pool
}

// NewPostgresCatalog creates a catalog over the given connection pool.
func NewPostgresCatalog(db *pgxpool.Pool) *PostgresCatalog {
	if db == nil {
		panic("catalog: database pool cannot be nil")
	}
	return &PostgresCatalog{db: db}
}

// Prices returns the product's live prices. An absent row means the product
// does not exist; that is reported via Exists, never as an error.
func (c *PostgresCatalog) Prices(ctx context.Context, productID int64) (offer.ProductPrices, error) {
	query := `
		SELECT COALESCE(price::text, ''), COALESCE(regular_price::text, '')
		FROM products
		WHERE id = $1
	`

	var p offer.ProductPrices
	err := c.db.QueryRow(ctx, query, productID).Scan(&p.Price, &p.RegularPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return offer.ProductPrices{}, nil
	}
	if err != nil {
		return offer.ProductPrices{}, fmt.Errorf("catalog: read prices for product %d: %w", productID, err)
	}

	p.Exists = true
	return p, nil
}

// Lookup fetches display data for a batch of ids in one query.
func (c *PostgresCatalog) Lookup(ctx context.Context, ids []int64) ([]ProductContext, error) {
	if len(ids) == 0 {
		return []ProductContext{}, nil
	}

	query := `
		SELECT id, name, COALESCE(sku, ''), COALESCE(price::text, ''), COALESCE(regular_price::text, '')
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := c.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: lookup products: %w", err)
	}
	defer rows.Close()

	items := make([]ProductContext, 0, len(ids))
	for rows.Next() {
		var item ProductContext
		if err := rows.Scan(&item.ProductID, &item.Name, &item.SKU, &item.Price, &item.RegularPrice); err != nil {
			return nil, fmt.Errorf("catalog: scan product row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: rows iteration error: %w", err)
	}

	return items, nil
}
