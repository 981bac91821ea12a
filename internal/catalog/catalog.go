// Package catalog puts the product submission boundary and variant persistence
// behind one interface, backed either by this service's database or by a remote
// commerce API.
package catalog

import (
	"context"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
)

// Catalog is what edit sessions and carts need from the product store.
type Catalog interface {
	variants.Persister
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
	UpdateProduct(ctx context.Context, sellerID, productID string, input product.UpdateInput) (*product.Product, error)
}
