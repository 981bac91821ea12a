package catalog

import (
	"github.com/shopspring/decimal"

	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/pkg/commerce"
	"github.com/angelmondragon/storefront/pkg/types"
)

// ToWireVariant renders a variant in the commerce API shape.
func ToWireVariant(v variants.Variant) commerce.Variant {
	return commerce.Variant{
		ID:         v.ID,
		ProductID:  v.ProductID,
		Name:       v.Name,
		Price:      v.Price.InexactFloat64(),
		Stock:      v.Stock,
		Attributes: toWireAttributes(v.Attributes),
		Images:     append([]string(nil), v.Images...),
	}
}

func ToWireVariants(list []variants.Variant) []commerce.Variant {
	out := make([]commerce.Variant, 0, len(list))
	for _, v := range list {
		out = append(out, ToWireVariant(v))
	}
	return out
}

// FromWireVariant maps a commerce API variant into the domain type.
func FromWireVariant(w commerce.Variant) variants.Variant {
	return variants.Variant{
		ID:         w.ID,
		ProductID:  w.ProductID,
		Name:       w.Name,
		Attributes: FromWireAttributes(w.Attributes),
		Price:      decimal.NewFromFloat(w.Price),
		Stock:      w.Stock,
		Images:     append([]string(nil), w.Images...),
	}
}

func FromWireAttributes(in []commerce.Attribute) types.VariantAttributes {
	out := make(types.VariantAttributes, 0, len(in))
	for _, attr := range in {
		out = append(out, types.VariantAttribute{Name: attr.Name, Value: attr.Value})
	}
	return out
}

func toWireAttributes(in types.VariantAttributes) []commerce.Attribute {
	out := make([]commerce.Attribute, 0, len(in))
	for _, attr := range in {
		out = append(out, commerce.Attribute{Name: attr.Name, Value: attr.Value})
	}
	return out
}

// ToWireProduct renders a product in the commerce API shape.
func ToWireProduct(p *product.Product) commerce.Product {
	return commerce.Product{
		ID:          p.ID,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		Image:       p.Image,
		HasVariants: p.HasVariants,
	}
}

func FromWireProduct(w *commerce.Product) *product.Product {
	return &product.Product{
		ID:          w.ID,
		SellerID:    w.SellerID,
		SellerName:  w.SellerName,
		Title:       w.Title,
		Description: w.Description,
		Price:       decimal.NewFromFloat(w.Price),
		Stock:       w.Stock,
		Image:       w.Image,
		HasVariants: w.HasVariants,
	}
}
