package product

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/types"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, sellerID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:   sellerID,
		SellerName: "Repo Seller",
		Title:      "Test Product",
		Price:      decimal.RequireFromString("19.99"),
		Stock:      4,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestVariant(t *testing.T, tx *gorm.DB, productID uuid.UUID, size string) *models.Variant {
	t.Helper()
	attrs := types.VariantAttributes{{Name: "SIZE", Value: size}}
	variant := &models.Variant{
		ProductID:    productID,
		Name:         size,
		AttributeKey: attrs.Key(),
		Attributes:   attrs,
		Price:        decimal.NewFromInt(20),
		Stock:        1,
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return variant
}
