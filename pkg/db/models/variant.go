package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/types"
)

// Variant is one sellable combination of a product's option values.
// AttributeKey is the order-independent form of Attributes and backs the
// per-product uniqueness constraint.
type Variant struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID               `gorm:"column:product_id;type:uuid;not null;uniqueIndex:variants_product_attribute_key,priority:1"`
	Name         string                  `gorm:"column:name;not null"`
	AttributeKey string                  `gorm:"column:attribute_key;not null;uniqueIndex:variants_product_attribute_key,priority:2"`
	Attributes   types.VariantAttributes `gorm:"column:attributes;type:jsonb;serializer:json;not null"`
	Price        decimal.Decimal         `gorm:"column:price;type:numeric(12,2);not null"`
	Stock        int                     `gorm:"column:stock;not null;default:0"`
	Images       []string                `gorm:"column:images;type:jsonb;serializer:json"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Variant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
