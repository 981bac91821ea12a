package catalog

import (
	"context"
	"fmt"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
)

// Local serves the catalog from this service's own database.
type Local struct {
	variants.Service
	products product.Service
}

func NewLocal(products product.Service, variantSvc variants.Service) (*Local, error) {
	if products == nil {
		return nil, fmt.Errorf("product service required")
	}
	if variantSvc == nil {
		return nil, fmt.Errorf("variant service required")
	}
	return &Local{Service: variantSvc, products: products}, nil
}

func (l *Local) GetProduct(ctx context.Context, productID string) (*product.Product, error) {
	return l.products.GetProduct(ctx, productID)
}

func (l *Local) UpdateProduct(ctx context.Context, sellerID, productID string, input product.UpdateInput) (*product.Product, error) {
	return l.products.UpdateProduct(ctx, sellerID, productID, input)
}
