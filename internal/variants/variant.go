package variants

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/types"
)

// Variant is a draft or persisted combination. An empty ID means the variant has
// not been created remotely yet. Name is the identity used to match variants
// across regenerations.
type Variant struct {
	ID         string                  `json:"id,omitempty"`
	ProductID  string                  `json:"productId,omitempty"`
	Name       string                  `json:"name"`
	Attributes types.VariantAttributes `json:"attributes"`
	Price      decimal.Decimal         `json:"price"`
	Stock      int                     `json:"stock"`
	Images     []string                `json:"images,omitempty"`
}

func (v Variant) Persisted() bool {
	return v.ID != ""
}

// Defaults seed price and stock of combinations that have no previous record.
type Defaults struct {
	Price decimal.Decimal
	Stock int
}

// Persister is the boundary to wherever variants are stored: a remote commerce
// API or this service's own database.
type Persister interface {
	ListByProduct(ctx context.Context, productID string) ([]Variant, error)
	Create(ctx context.Context, productID string, v Variant) (Variant, error)
	Update(ctx context.Context, productID string, v Variant) (Variant, error)
	Delete(ctx context.Context, id string) error
}
