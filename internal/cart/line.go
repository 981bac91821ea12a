package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/types"
)

// Line is one entry of a buyer's cart. A nil VariantID is the base product and is
// a distinct key from every variant of the same product.
type Line struct {
	ProductID  string                  `json:"productId"`
	VariantID  *string                 `json:"variantId"`
	Title      string                  `json:"title"`
	Price      decimal.Decimal         `json:"price"`
	Qty        int                     `json:"qty"`
	Image      string                  `json:"image,omitempty"`
	SellerID   string                  `json:"sellerId"`
	SellerName string                  `json:"sellerName"`
	Attributes types.VariantAttributes `json:"attributes,omitempty"`
}

// Key identifies a line by (productId, variantId|null).
type Key struct {
	ProductID  string
	VariantID  string
	HasVariant bool
}

func KeyOf(productID string, variantID *string) Key {
	if variantID == nil {
		return Key{ProductID: productID}
	}
	return Key{ProductID: productID, VariantID: *variantID, HasVariant: true}
}

func (l Line) Key() Key {
	return KeyOf(l.ProductID, l.VariantID)
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

func (l Line) clone() Line {
	out := l
	if l.VariantID != nil {
		id := *l.VariantID
		out.VariantID = &id
	}
	out.Attributes = l.Attributes.Clone()
	return out
}
