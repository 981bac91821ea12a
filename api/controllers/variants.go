package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/pkg/commerce"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type variantAttributePayload struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type createVariantRequest struct {
	ProductID  string                    `json:"productId" validate:"required,uuid"`
	Name       string                    `json:"name,omitempty"`
	Price      float64                   `json:"price" validate:"min=0"`
	Stock      int                       `json:"stock" validate:"min=0"`
	Attributes []variantAttributePayload `json:"attributes" validate:"required,min=1,dive"`
	Images     []string                  `json:"images,omitempty"`
}

type updateVariantRequest struct {
	ProductID  string                    `json:"productId" validate:"required,uuid"`
	Name       string                    `json:"name"`
	Price      float64                   `json:"price" validate:"min=0"`
	Stock      int                       `json:"stock" validate:"min=0"`
	Attributes []variantAttributePayload `json:"attributes" validate:"required,min=1,dive"`
	Images     []string                  `json:"images,omitempty"`
}

func toVariant(id, productID, name string, price float64, stock int, attrs []variantAttributePayload, images []string) variants.Variant {
	wire := commerce.Variant{
		ID:        id,
		ProductID: productID,
		Name:      strings.TrimSpace(name),
		Price:     price,
		Stock:     stock,
		Images:    images,
	}
	for _, attr := range attrs {
		wire.Attributes = append(wire.Attributes, commerce.Attribute{Name: attr.Name, Value: attr.Value})
	}
	return catalog.FromWireVariant(wire)
}

// CreateVariant serves POST /variants.
func CreateVariant(svc variants.Service, products productGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant service unavailable"))
			return
		}
		sellerID, err := requireSeller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := ensureProductOwner(r.Context(), products, sellerID, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		v := toVariant("", payload.ProductID, payload.Name, payload.Price, payload.Stock, payload.Attributes, payload.Images)
		created, err := svc.Create(r.Context(), payload.ProductID, v)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.ToWireVariant(created))
	}
}

// ListProductVariants serves GET /variants/product/{productId}.
func ListProductVariants(svc variants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant service unavailable"))
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.ToWireVariants(list))
	}
}

// UpdateVariant serves PUT /variants/{id}. The body is the full variant.
func UpdateVariant(svc variants.Service, products productGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant service unavailable"))
			return
		}
		sellerID, err := requireSeller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := ensureProductOwner(r.Context(), products, sellerID, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		v := toVariant(id, payload.ProductID, payload.Name, payload.Price, payload.Stock, payload.Attributes, payload.Images)
		updated, err := svc.Update(r.Context(), payload.ProductID, v)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.ToWireVariant(updated))
	}
}

// DeleteVariant serves DELETE /variants/{id}.
func DeleteVariant(svc variants.Service, products productGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant service unavailable"))
			return
		}
		sellerID, err := requireSeller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		existing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := ensureProductOwner(r.Context(), products, sellerID, existing.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), existing.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
