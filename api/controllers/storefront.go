package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/options"
	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

type storefrontCatalog interface {
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
	ListByProduct(ctx context.Context, productID string) ([]variants.Variant, error)
}

type productDetailResponse struct {
	Product  *product.Product   `json:"product"`
	Options  []options.Option   `json:"options"`
	Variants []variants.Variant `json:"variants"`
}

type resolveRequest struct {
	Attributes []variantAttributePayload `json:"attributes" validate:"required,min=1,dive"`
}

type resolveResponse struct {
	Available bool              `json:"available"`
	Variant   *variants.Variant `json:"variant,omitempty"`
}

func loadDetail(ctx context.Context, cat storefrontCatalog, productID string) (productDetailResponse, error) {
	p, err := cat.GetProduct(ctx, productID)
	if err != nil {
		return productDetailResponse{}, err
	}
	list := []variants.Variant{}
	if p.HasVariants {
		list, err = cat.ListByProduct(ctx, p.ID)
		if err != nil {
			return productDetailResponse{}, err
		}
	}
	return productDetailResponse{
		Product:  p,
		Options:  variants.OptionsFromVariants(list),
		Variants: list,
	}, nil
}

// ProductDetail returns the product with its variants and the option groups the
// buyer picks from.
func ProductDetail(cat storefrontCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		productID, err := idParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := loadDetail(r.Context(), cat, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ResolveSelection maps the buyer's picked values to a variant. An unmatched
// selection is a normal answer, not an error.
func ResolveSelection(cat storefrontCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		productID, err := idParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload resolveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := cat.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		v, ok := variants.Resolve(list, toSelection(payload.Attributes))
		if !ok {
			responses.WriteSuccess(w, resolveResponse{Available: false})
			return
		}
		responses.WriteSuccess(w, resolveResponse{Available: true, Variant: &v})
	}
}

func toSelection(attrs []variantAttributePayload) types.VariantAttributes {
	if len(attrs) == 0 {
		return nil
	}
	out := make(types.VariantAttributes, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, types.VariantAttribute{Name: attr.Name, Value: attr.Value})
	}
	return out
}
