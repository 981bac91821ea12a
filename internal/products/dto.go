package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Product is the base listing returned to callers. Variant data is composed
// separately by the callers that need it.
type Product struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"sellerId"`
	SellerName  string          `json:"sellerName"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       *string         `json:"image,omitempty"`
	HasVariants bool            `json:"hasVariants"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	SellerID    string
	SellerName  string
	Title       string
	Description *string
	Price       decimal.Decimal
	Stock       int
	Image       *string
}

// UpdateInput carries the base fields of the product submission boundary.
// Nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Image       *string
}

// Empty reports whether the update changes nothing.
func (u UpdateInput) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.Stock == nil && u.Image == nil
}

// FromModel maps a persisted row into the API shape.
func FromModel(m *models.Product) *Product {
	if m == nil {
		return nil
	}
	return &Product{
		ID:          m.ID.String(),
		SellerID:    m.SellerID.String(),
		SellerName:  m.SellerName,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		Image:       m.Image,
		HasVariants: m.HasVariants,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
